// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// I18nMiddleware picks the response language from ?lang=, then from
// Accept-Language, then defaultLang.
func I18nMiddleware(defaultLang string) gin.HandlerFunc {
	if defaultLang == "" {
		defaultLang = "en"
	}
	return func(c *gin.Context) {
		lang := normalizeLang(c.Query("lang"))
		if lang == "" {
			// Handle cases like "ar-EG,ar;q=0.9,en;q=0.8"
			if header := c.GetHeader("Accept-Language"); header != "" {
				first := strings.TrimSpace(strings.Split(strings.Split(header, ",")[0], ";")[0])
				lang = normalizeLang(first)
			}
		}
		if lang == "" {
			lang = defaultLang
		}

		c.Set("lang", lang)
		c.Header("Content-Language", lang)
		c.Next()
	}
}

func normalizeLang(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	switch {
	case tag == "":
		return ""
	case tag == "ar" || strings.HasPrefix(tag, "ar-") || strings.HasPrefix(tag, "ar_"):
		return "ar"
	case tag == "en" || strings.HasPrefix(tag, "en-") || strings.HasPrefix(tag, "en_"):
		return "en"
	default:
		return ""
	}
}

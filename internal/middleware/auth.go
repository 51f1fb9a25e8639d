// internal/middleware/auth.go
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yahiawalid23/HEPTA/internal/i18n"
	"github.com/yahiawalid23/HEPTA/internal/utils"
)

// SessionValidator resolves a session cookie value to the admin's name.
type SessionValidator interface {
	ValidateSession(token string) (string, error)
}

// AdminRequired gates the admin routes on the session cookie.
func AdminRequired(sessions SessionValidator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)

		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
			c.Abort()
			return
		}

		admin, err := sessions.ValidateSession(token)
		if err != nil {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidToken))
			c.Abort()
			return
		}

		c.Set("admin", admin)
		c.Next()
	}
}

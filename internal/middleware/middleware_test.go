package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/yahiawalid23/HEPTA/internal/i18n"
	"github.com/yahiawalid23/HEPTA/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
	_ = i18n.Initialize("en")
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type stubSessions map[string]string

func (s stubSessions) ValidateSession(token string) (string, error) {
	if name, ok := s[token]; ok {
		return name, nil
	}
	return "", errors.New("invalid")
}

func TestAdminRequired(t *testing.T) {
	r := gin.New()
	r.Use(I18nMiddleware("en"))
	r.GET("/admin", AdminRequired(stubSessions{"good": "admin"}, "admin-auth"), func(c *gin.Context) {
		admin, _ := c.Get("admin")
		c.String(http.StatusOK, admin.(string))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin?lang=ar", nil)
	req.AddCookie(&http.Cookie{Name: "admin-auth", Value: "bad"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "انتهت صلاحية الجلسة")

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: "admin-auth", Value: "good"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", w.Body.String())
}

func TestI18nMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(I18nMiddleware("en"))
	r.GET("/", func(c *gin.Context) {
		lang, _ := c.Get("lang")
		c.String(http.StatusOK, lang.(string))
	})

	cases := []struct {
		url, header, want string
	}{
		{"/", "", "en"},
		{"/", "ar-EG,ar;q=0.9,en;q=0.8", "ar"},
		{"/", "fr-FR", "en"},
		{"/?lang=ar", "en-US", "ar"},
		{"/?lang=xx", "ar", "ar"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.url, nil)
		if tc.header != "" {
			req.Header.Set("Accept-Language", tc.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.want, w.Body.String(), "%s %s", tc.url, tc.header)
	}
}

type memoryRecorder struct {
	mu      sync.Mutex
	entries []*models.AuditLog
	done    chan struct{}
}

func (m *memoryRecorder) Record(_ context.Context, entry *models.AuditLog) error {
	m.mu.Lock()
	m.entries = append(m.entries, entry)
	m.mu.Unlock()
	m.done <- struct{}{}
	return nil
}

func TestAuditLogMiddleware(t *testing.T) {
	rec := &memoryRecorder{done: make(chan struct{}, 1)}
	r := gin.New()
	r.Use(RequestID(), AuditLogMiddleware(rec, quietLogger()))
	r.PUT("/api/admin/orders/:id/status", func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.String(http.StatusOK, string(body))
	})
	r.GET("/api/admin/orders", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPut, "/api/admin/orders/ORD-1/status", strings.NewReader(`{"status":"shipped","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"status":"shipped"`, "handler still sees the body")

	select {
	case <-rec.done:
	case <-time.After(2 * time.Second):
		t.Fatal("audit entry not recorded")
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.entries, 1)
	entry := rec.entries[0]
	assert.Equal(t, "PUT /api/admin/orders/ORD-1/status", entry.Action)
	assert.Equal(t, "orders", entry.ResourceType)
	assert.Equal(t, "ORD-1", entry.ResourceID)
	assert.Equal(t, "req-1", entry.RequestID)
	assert.Equal(t, http.StatusOK, entry.StatusCode)
	assert.Equal(t, "shipped", entry.NewValues["status"])
	assert.NotContains(t, entry.NewValues, "password")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil))
	assert.Len(t, rec.entries, 1)
}

func TestAuditLogMiddlewarePassesLargeBodyIntact(t *testing.T) {
	rec := &memoryRecorder{done: make(chan struct{}, 1)}
	r := gin.New()
	r.Use(AuditLogMiddleware(rec, quietLogger()))
	r.POST("/api/admin/orders/reset", func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.String(http.StatusOK, "%d", len(body))
	})

	payload := `{"note":"` + strings.Repeat("a", maxAuditBody*2) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/orders/reset", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, fmt.Sprint(len(payload)), w.Body.String())

	select {
	case <-rec.done:
	case <-time.After(2 * time.Second):
		t.Fatal("audit entry not recorded")
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.entries, 1)
	assert.Nil(t, rec.entries[0].NewValues, "truncated copy is not stored")
}

func TestRequestIDGenerated(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(quietLogger()), Metrics())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(rate.Every(time.Hour), 2)
	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes[i] = w.Code
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestExtractResource(t *testing.T) {
	typ, id := extractResource("/api/admin/products/P1/images/a.jpg")
	assert.Equal(t, "products", typ)
	assert.Equal(t, "P1", id)

	typ, id = extractResource("/api/admin/orders/reset")
	assert.Equal(t, "orders", typ)
	assert.Equal(t, "reset", id)
}

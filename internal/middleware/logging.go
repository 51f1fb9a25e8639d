// internal/middleware/logging.go
package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yahiawalid23/HEPTA/internal/models"
	"github.com/yahiawalid23/HEPTA/internal/utils"
)

const requestIDHeader = "X-Request-ID"

// maxAuditBody bounds how much of a JSON body is kept in the audit row.
const maxAuditBody = 64 << 10

// AuditRecorder persists one audit entry.
type AuditRecorder interface {
	Record(ctx context.Context, entry *models.AuditLog) error
}

// RequestID propagates X-Request-ID or assigns a fresh one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// RequestLogger writes one log line per request.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).Milliseconds(),
			"ip":         c.ClientIP(),
			"request_id": utils.GetRequestIDFromContext(c),
		}
		if admin, ok := utils.GetAdminFromContext(c); ok {
			fields["admin"] = admin
		}

		entry := logger.WithFields(fields)
		switch {
		case len(c.Errors) > 0:
			entry.WithField("errors", c.Errors.String()).Error("Request failed")
		case c.Writer.Status() >= 500:
			entry.Error("Request failed")
		case c.Writer.Status() >= 400:
			entry.Warn("Request processed")
		default:
			entry.Info("Request processed")
		}
	}
}

// AuditLogMiddleware records every mutating admin request.
func AuditLogMiddleware(recorder AuditRecorder, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip logging for GET requests
		if c.Request.Method == "GET" || c.Request.Method == "HEAD" || c.Request.Method == "OPTIONS" {
			c.Next()
			return
		}

		// Multipart uploads are not copied into the audit row.
		var requestBody []byte
		if c.Request.Body != nil && strings.HasPrefix(c.ContentType(), "application/json") {
			// Only the audit copy is capped; the handler reads the full body.
			body := c.Request.Body
			requestBody, _ = io.ReadAll(io.LimitReader(body, maxAuditBody))
			c.Request.Body = readCloser{io.MultiReader(bytes.NewReader(requestBody), body), body}
		}

		c.Next()

		var requestData map[string]interface{}
		if len(requestBody) > 0 {
			_ = json.Unmarshal(requestBody, &requestData)
		}
		// Credentials never reach the audit table.
		delete(requestData, "password")

		resourceType, resourceID := extractResource(c.Request.URL.Path)
		entry := &models.AuditLog{
			RequestID:    utils.GetRequestIDFromContext(c),
			Action:       c.Request.Method + " " + c.Request.URL.Path,
			ResourceType: resourceType,
			ResourceID:   resourceID,
			StatusCode:   c.Writer.Status(),
			IPAddress:    c.ClientIP(),
			UserAgent:    c.Request.UserAgent(),
			NewValues:    models.JSONB(requestData),
		}

		// Save audit log asynchronously
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := recorder.Record(ctx, entry); err != nil {
				logger.WithError(err).Error("Failed to create audit log")
			}
		}()
	}
}

type readCloser struct {
	io.Reader
	io.Closer
}

// extractResource maps /api/admin/orders/ORD-1/status to ("orders", "ORD-1").
func extractResource(path string) (string, string) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for len(parts) > 0 && (parts[0] == "api" || parts[0] == "admin") {
		parts = parts[1:]
	}
	switch len(parts) {
	case 0:
		return "unknown", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], parts[1]
	}
}

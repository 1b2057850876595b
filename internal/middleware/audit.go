package middleware

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dutyops/duty-roster-api/internal/handler"
	"github.com/dutyops/duty-roster-api/internal/models"
)

// AuditRecorder persists audit trail entries.
type AuditRecorder interface {
	RecordAudit(ctx context.Context, entry *models.AuditLog)
}

const auditBodyLimit = 4096

// Audit records successful mutating requests in the audit trail. The
// request body is captured up to a small limit as the entry's new values.
func Audit(recorder AuditRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "GET" || c.Request.Method == "HEAD" || c.Request.Method == "OPTIONS" {
			c.Next()
			return
		}

		// Never capture credential payloads.
		var body []byte
		if c.Request.Body != nil && !strings.Contains(c.FullPath(), "/auth/") {
			body, _ = io.ReadAll(io.LimitReader(c.Request.Body, auditBodyLimit))
			c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), c.Request.Body))
		}

		c.Next()

		if c.Writer.Status() >= 400 {
			return
		}

		entry := &models.AuditLog{
			Action:    auditAction(c.Request.Method, c.FullPath()),
			Resource:  c.FullPath(),
			NewValues: body,
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}
		if id := c.Param("id"); id != "" {
			entry.ResourceID = &id
		}
		if claims := handler.ClaimsFrom(c); claims != nil {
			userID := claims.UserID
			entry.UserID = &userID
		}
		recorder.RecordAudit(c.Request.Context(), entry)
	}
}

func auditAction(method, route string) string {
	switch {
	case strings.Contains(route, "/auth/login"):
		return models.AuditActionLogin
	case strings.Contains(route, "/swap"):
		return models.AuditActionRecordSwap
	case strings.Contains(route, "/suspend"):
		return models.AuditActionRecordSuspend
	case strings.Contains(route, "/replace"):
		return models.AuditActionRecordReplace
	case strings.Contains(route, "/generate"):
		return models.AuditActionRecordGenerate
	case strings.Contains(route, "/assignments"):
		if method == "DELETE" {
			return models.AuditActionRecordResume
		}
		return models.AuditActionRecordAssign
	case strings.Contains(route, "/people"):
		return models.AuditActionPersonManage
	case strings.Contains(route, "/config"):
		return models.AuditActionConfigUpdate
	}
	return method + " " + route
}

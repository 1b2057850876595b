package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dutyops/duty-roster-api/internal/handler"
	"github.com/dutyops/duty-roster-api/internal/models"
	appErrors "github.com/dutyops/duty-roster-api/pkg/errors"
	"github.com/dutyops/duty-roster-api/pkg/response"
)

// TokenParser validates an access token and returns its claims.
type TokenParser interface {
	ParseToken(token string) (*models.JWTClaims, error)
}

// JWT verifies the Authorization bearer token and stores the claims on the
// request context.
func JWT(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims, err := parser.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Set(handler.ContextKeyClaims, claims)
		c.Next()
	}
}

// RequireRole rejects authenticated requests whose role does not match.
func RequireRole(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := handler.ClaimsFrom(c)
		if claims == nil || claims.Role != role {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

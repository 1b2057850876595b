package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/dutyops/duty-roster-api/internal/models"
)

// ContextKeyClaims is where the auth middleware stores verified claims.
const ContextKeyClaims = "auth_claims"

// ClaimsFrom returns the verified JWT claims, or nil on anonymous requests.
func ClaimsFrom(c *gin.Context) *models.JWTClaims {
	value, ok := c.Get(ContextKeyClaims)
	if !ok {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// ActorFrom returns the acting user's ID for record provenance, or nil.
func ActorFrom(c *gin.Context) *string {
	claims := ClaimsFrom(c)
	if claims == nil {
		return nil
	}
	id := claims.UserID
	return &id
}

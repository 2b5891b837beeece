package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/courselog/courselog-api/internal/middleware"
	"github.com/courselog/courselog-api/internal/models"
)

// claimsFromContext returns the authenticated caller's claims, if any.
func claimsFromContext(c *gin.Context) (*models.Claims, bool) {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.Claims)
	return claims, ok
}

// departmentFromClaims resolves the caller's department. HOD routes are
// role-gated before reaching handlers, so a missing department means a
// malformed token rather than a policy decision.
func departmentFromClaims(claims *models.Claims) (models.Department, bool) {
	if claims == nil || claims.Department == nil {
		return "", false
	}
	return *claims.Department, true
}

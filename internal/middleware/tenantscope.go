package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ower-flow/sms-be/internal/models"
	appErrors "github.com/ower-flow/sms-be/pkg/errors"
	"github.com/ower-flow/sms-be/pkg/response"
)

// TenantScope denies requests whose token belongs to a different school than
// the one bound to the request host. Hosts with no tenant binding are denied
// outright; scoped routes are only reachable through a registered domain.
func TenantScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		res := TenantFromContext(c)
		if !res.Resolved() || res.School == nil {
			response.Error(c, appErrors.ErrTenantScope)
			c.Abort()
			return
		}

		claimsValue, exists := c.Get(ContextClaimsKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims := claimsValue.(*models.JWTClaims)

		if claims.SchoolID == nil || *claims.SchoolID != res.School.ID {
			response.Error(c, appErrors.ErrTenantScope)
			c.Abort()
			return
		}

		c.Next()
	}
}

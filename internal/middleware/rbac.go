package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ower-flow/sms-be/internal/models"
	appErrors "github.com/ower-flow/sms-be/pkg/errors"
	"github.com/ower-flow/sms-be/pkg/response"
)

// RequireRoles enforces role-based access control for routes. The token role
// must match one of the allowed roles; accounts without a role are denied.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextClaimsKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims := claimsValue.(*models.JWTClaims)

		if claims.Role != nil {
			if _, ok := allowed[*claims.Role]; ok {
				c.Next()
				return
			}
		}

		response.Error(c, appErrors.ErrForbidden)
		c.Abort()
	}
}

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ower-flow/sms-be/internal/service"
	appErrors "github.com/ower-flow/sms-be/pkg/errors"
	"github.com/ower-flow/sms-be/pkg/response"
)

// ContextUserKey is the gin context key storing the authenticated user.
const ContextUserKey = "currentUser"

// ContextClaimsKey is the gin context key storing the access token claims.
const ContextClaimsKey = "currentClaims"

// JWT protects routes by requiring a valid access token bound to a live,
// non-superuser account.
func JWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		user, claims, err := authService.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextClaimsKey, claims)
		c.Next()
	}
}

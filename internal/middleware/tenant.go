package middleware

import (
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"

	"github.com/ower-flow/sms-be/internal/models"
	"github.com/ower-flow/sms-be/internal/service"
)

// ContextTenantKey is the gin context key storing the tenant resolution.
const ContextTenantKey = "tenantResolution"

// Tenant resolves the request host to a tenant and school and stores the
// result in the context. Unknown hosts pass through with an empty resolution;
// every request carries one.
func Tenant(tenantService *service.TenantService, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		res := tenantService.Resolve(c.Request.Context(), c.Request.Host)
		if res.Err != nil {
			logger.Warn("tenant resolution failed",
				zap.String("host", res.Host),
				zap.Error(res.Err),
			)
		}
		c.Set(ContextTenantKey, res)
		c.Next()
	}
}

// TenantFromContext returns the resolution stored by Tenant, or an empty one
// when the middleware did not run.
func TenantFromContext(c *gin.Context) *models.TenantResolution {
	if value, exists := c.Get(ContextTenantKey); exists {
		if res, ok := value.(*models.TenantResolution); ok {
			return res
		}
	}
	return &models.TenantResolution{}
}

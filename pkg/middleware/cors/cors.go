package cors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type wildcardOrigin struct {
	scheme string
	suffix string
}

// New returns a CORS middleware that honors a list of allowed origins.
// Entries of the form "https://*.example.com" match any single-label
// subdomain, which covers per-school frontends without listing each one.
func New(allowedOrigins []string) gin.HandlerFunc {
	allowAll := len(allowedOrigins) == 0
	originSet := make(map[string]struct{}, len(allowedOrigins))
	var wildcards []wildcardOrigin
	for _, origin := range allowedOrigins {
		origin = strings.TrimRight(origin, "/")
		if scheme, host, ok := strings.Cut(origin, "://"); ok && strings.HasPrefix(host, "*.") {
			wildcards = append(wildcards, wildcardOrigin{scheme: scheme + "://", suffix: strings.TrimPrefix(host, "*")})
			continue
		}
		originSet[origin] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if allowAll || hasOrigin(originSet, origin) || hasWildcardOrigin(wildcards, origin) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			}
		} else if allowAll {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Vary", "Origin")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Max-Age", "600")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func hasOrigin(originSet map[string]struct{}, origin string) bool {
	_, ok := originSet[strings.TrimRight(origin, "/")]
	return ok
}

func hasWildcardOrigin(wildcards []wildcardOrigin, origin string) bool {
	origin = strings.TrimRight(origin, "/")
	for _, w := range wildcards {
		if !strings.HasPrefix(origin, w.scheme) || !strings.HasSuffix(origin, w.suffix) {
			continue
		}
		label := strings.TrimSuffix(strings.TrimPrefix(origin, w.scheme), w.suffix)
		if label != "" && !strings.ContainsAny(label, "./") {
			return true
		}
	}
	return false
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Health reports process liveness.
func Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Ready reports dependency readiness. Postgres is required; Redis is pinged
// best-effort since the throttle and tenant cache degrade without it.
func Ready(db *sqlx.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		cacheStatus := "ok"
		if rdb == nil {
			cacheStatus = "disabled"
		} else if err := rdb.Ping(c.Request.Context()).Err(); err != nil {
			cacheStatus = "degraded"
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "cache": cacheStatus})
	}
}

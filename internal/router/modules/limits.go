package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-todo/internal/interface/middleware"
)

// Limits builds Redis rate limiters. A nil client or Enabled=false yields pass-through handlers.
type Limits struct {
	Redis   *redis.Client
	Enabled bool
}

func (l Limits) rule(max int, window time.Duration, key middleware.KeyFunc, allow middleware.AllowFunc) gin.HandlerFunc {
	if !l.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.RateLimit(l.Redis, middleware.RateRule{Max: max, Window: window, Key: key, Allow: allow})
}

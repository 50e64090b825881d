package middleware

import "github.com/gin-gonic/gin"

// RealIP stores c.ClientIP() under "real_ip". Forwarding headers only count
// when the engine's trusted proxies or trusted platform allow them.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("real_ip", c.ClientIP())
		c.Next()
	}
}

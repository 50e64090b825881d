package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-todo/internal/container"
	"github.com/oksasatya/go-ddd-todo/internal/interface/middleware"
)

// NewEngine returns a gin engine with the global middleware and every module mounted.
func NewEngine(c *container.Container) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(c.Config.TrustedProxyList()); err != nil {
		c.Logger.WithError(err).Warn("invalid TRUSTED_PROXIES, ignoring forwarding headers")
		_ = r.SetTrustedProxies(nil)
	}
	if c.Config.TrustCloudflare {
		r.TrustedPlatform = gin.PlatformCloudflare
	}
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(c.Logger),
		middleware.RealIP(),
	)
	r.Use(cors.New(cors.Config{
		AllowOrigins:     c.Config.CORSOrigins(),
		AllowAllOrigins:  len(c.Config.CORSOrigins()) == 0,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	if c.Config.HTTPLogEnabled {
		r.Use(middleware.AccessLog(c.Logger))
	}

	reg := NewRegistry(r)
	InitModules(reg, c)
	reg.RegisterAll()
	return r
}

package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-todo/internal/interface/http"
	"github.com/oksasatya/go-ddd-todo/internal/interface/middleware"
)

// UserModule serves the public account routes:
// POST /users/register, POST /users/login
type UserModule struct {
	Handler *handlers.UserHandler
	Limits  Limits
}

func NewUserModule(h *handlers.UserHandler, limits Limits) *UserModule {
	return &UserModule{Handler: h, Limits: limits}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/users")
	g.POST("/register", m.Limits.rule(5, time.Minute, middleware.KeyByIPAndPath(), nil), m.Handler.Register)
	g.POST("/login", m.Limits.rule(10, time.Minute, middleware.KeyByIPAndPath(), nil), m.Handler.Login)
}

package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-todo/internal/interface/http"
	"github.com/oksasatya/go-ddd-todo/internal/interface/middleware"
)

// TodoModule serves the authenticated /todos routes.
type TodoModule struct {
	Handler *handlers.TodoHandler
	Tokens  middleware.TokenParser
	Limits  Limits
}

func NewTodoModule(h *handlers.TodoHandler, tokens middleware.TokenParser, limits Limits) *TodoModule {
	return &TodoModule{Handler: h, Tokens: tokens, Limits: limits}
}

func (m *TodoModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/todos")
	g.Use(
		middleware.Auth(m.Tokens),
		m.Limits.rule(120, time.Minute, middleware.KeyByUserID(), nil),
	)

	g.GET("", m.Handler.List)
	g.POST("", m.Handler.Create)
	// static segments before :id
	g.GET("/search", m.Handler.Search)
	g.GET("/due-today", m.Handler.DueToday)
	g.GET("/:id", m.Handler.Get)
	g.PUT("/:id", m.Handler.Update)
	g.DELETE("/:id", m.Handler.Delete)
	g.PATCH("/:id/mark", m.Handler.Mark)
	g.PATCH("/:id/unmark", m.Handler.Unmark)
}

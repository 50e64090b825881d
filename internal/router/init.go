package router

import (
	"github.com/oksasatya/go-ddd-todo/internal/container"
	handlers "github.com/oksasatya/go-ddd-todo/internal/interface/http"
	"github.com/oksasatya/go-ddd-todo/internal/router/modules"
)

// InitModules builds the handlers from c and adds every feature module to r.
func InitModules(r *Registry, c *container.Container) {
	limits := modules.Limits{Redis: c.Redis, Enabled: c.Config.RateLimitEnabled}

	r.Add(modules.NewUserModule(handlers.NewUserHandler(c.UserService, c.Logger), limits))
	r.Add(modules.NewTodoModule(handlers.NewTodoHandler(c.TodoService, c.Logger), c.JWT, limits))
	if c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(limits))
	}
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-todo/internal/application"
	"github.com/oksasatya/go-ddd-todo/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-todo/pkg/response"
)

type TodoHandler struct {
	Svc    *application.TodoService
	Logger *logrus.Logger
}

func NewTodoHandler(svc *application.TodoService, logger *logrus.Logger) *TodoHandler {
	return &TodoHandler{Svc: svc, Logger: logger}
}

func (h *TodoHandler) List(c *gin.Context) {
	todos, err := h.Svc.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, todos)
}

func (h *TodoHandler) Get(c *gin.Context) {
	t, err := h.Svc.Get(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, t)
}

func (h *TodoHandler) Create(c *gin.Context) {
	var req application.CreateTodoInput
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.Svc.Add(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusCreated, t)
}

func (h *TodoHandler) Update(c *gin.Context) {
	var req application.UpdateTodoInput
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.Svc.Update(c.Request.Context(), c.Param("id"), middleware.UserID(c), req)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, t)
}

func (h *TodoHandler) Delete(c *gin.Context) {
	if _, err := h.Svc.Delete(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Message(c, http.StatusOK, "Todo deleted successfully", nil)
}

func (h *TodoHandler) Mark(c *gin.Context) {
	t, err := h.Svc.Mark(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, t)
}

func (h *TodoHandler) Unmark(c *gin.Context) {
	t, err := h.Svc.Unmark(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, t)
}

// DueToday handles GET /todos/due-today.
func (h *TodoHandler) DueToday(c *gin.Context) {
	todos, err := h.Svc.DueToday(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, todos)
}

// Search handles GET /todos/search?q=.
func (h *TodoHandler) Search(c *gin.Context) {
	todos, err := h.Svc.Search(c.Request.Context(), middleware.UserID(c), c.Query("q"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, todos)
}

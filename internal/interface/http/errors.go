package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-todo/internal/application"
	"github.com/oksasatya/go-ddd-todo/pkg/response"
	"github.com/oksasatya/go-ddd-todo/pkg/validation"
)

// writeError translates a service error into the error body. Anything that
// is not an AppError is a 500 and its text never reaches the client.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	ae, ok := application.AsAppError(err)
	if !ok {
		ae = application.InternalError("Internal server error", err)
	}
	if ae.Kind == application.KindInternal && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error(ae.Message)
	}
	response.Error(c, ae.Status(), ae.Message, ae.Details)
}

// bindJSON decodes the body into dst and answers 400 on malformed input.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation error", validation.ToDetails(err))
		return false
	}
	return true
}

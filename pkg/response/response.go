package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// JSON writes data as the response body. Resources are returned bare, without an envelope.
func JSON(ctx *gin.Context, status int, data any) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, data)
}

// Message writes {"message": msg} plus any extra fields.
func Message(ctx *gin.Context, status int, msg string, extra gin.H) {
	body := gin.H{"message": msg}
	for k, v := range extra {
		body[k] = v
	}
	JSON(ctx, status, body)
}

// Error writes an ErrorBody and returns it.
func Error(ctx *gin.Context, status int, message string, details any) ErrorBody {
	body := newError(ctx, status, message, details)
	ctx.JSON(normalize(status), body)
	return body
}

// Abort is Error for middleware: the handler chain stops after the body is written.
func Abort(ctx *gin.Context, status int, message string, details any) {
	ctx.AbortWithStatusJSON(normalize(status), newError(ctx, status, message, details))
}

func newError(ctx *gin.Context, status int, message string, details any) ErrorBody {
	if message == "" {
		message = http.StatusText(normalize(status))
	}
	return ErrorBody{
		Message:   message,
		Details:   details,
		RequestID: ctx.GetString("request_id"),
	}
}

func normalize(status int) int {
	if status == 0 {
		return http.StatusBadRequest
	}
	return status
}

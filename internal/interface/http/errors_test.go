package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-todo/internal/application"
)

func TestWriteError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", application.ValidationError("Validation error", map[string]string{"title": "is required"}), http.StatusBadRequest, "Validation error"},
		{"not found", application.NotFoundError("Todo not found"), http.StatusNotFound, "Todo not found"},
		{"conflict", application.ConflictError("Email already exists"), http.StatusConflict, "Email already exists"},
		{"unauthorized", application.UnauthorizedError("Invalid password"), http.StatusUnauthorized, "Invalid password"},
		{"plain error hides cause", errors.New("pq: connection refused"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			writeError(c, logger, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMsg, body["message"])
			assert.NotContains(t, w.Body.String(), "connection refused")
		})
	}
}

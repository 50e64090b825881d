package application

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, KindValidation.Status())
	assert.Equal(t, http.StatusUnauthorized, KindUnauthorized.Status())
	assert.Equal(t, http.StatusNotFound, KindNotFound.Status())
	assert.Equal(t, http.StatusConflict, KindConflict.Status())
	assert.Equal(t, http.StatusInternalServerError, KindInternal.Status())
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("db down")
	err := fmt.Errorf("wrapped: %w", InternalError("Failed", cause))

	ae, ok := AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, "Failed: db down", ae.Error())
	assert.ErrorIs(t, err, cause)

	_, ok = AsAppError(cause)
	assert.False(t, ok)
}

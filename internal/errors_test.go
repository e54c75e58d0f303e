package internal

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAsAppError(t *testing.T) {
	wrapped := fmt.Errorf("wake: %w", BusinessError(http.StatusBadRequest, "nothing to close", ErrNoOpenRecord))
	appErr := AsAppError(wrapped)
	assert.Equal(t, KindBusiness, appErr.Kind)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.ErrorIs(t, wrapped, ErrNoOpenRecord)

	plain := AsAppError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, plain.Status)
	assert.Equal(t, ErrorKind(""), plain.Kind)
}

func TestExternalErrorAlways400(t *testing.T) {
	err := ExternalError(`{"status":503}`)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, `{"status":503}`, err.Message)
	assert.Equal(t, `external: {"status":503}`, err.Error())
}

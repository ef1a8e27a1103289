package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom_UnknownErrorBecomesInternal(t *testing.T) {
	appErr := From(errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPCode())
	assert.Equal(t, CodeInternal, appErr.ErrorCode())
	assert.NotContains(t, appErr.Message(), "pq")
}

func TestFrom_WrappedAppError(t *testing.T) {
	err := fmt.Errorf("ошибка этапа: %w", OutOfRange("too far"))

	appErr := From(err)
	assert.Equal(t, CodeOutOfRange, appErr.ErrorCode())
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode())
	assert.True(t, errors.Is(err, ErrOutOfRange))
	assert.False(t, errors.Is(err, ErrFeeMismatch))
}

func TestWrapMessage_KeepsCode(t *testing.T) {
	err := ConfigMissing("radius").WrapMessage("pricing")

	assert.True(t, errors.Is(err, ErrConfigMissing))
	assert.Equal(t, CodeConfigMissing, From(err).ErrorCode())
}

func TestBusinessClosed_Details(t *testing.T) {
	err := BusinessClosed("holiday", "Back on Monday")

	assert.Equal(t, "holiday", err.Details()["reason"])
	assert.Equal(t, "Back on Monday", err.Details()["message"])
	assert.True(t, IsClientError(err))
}

func TestInsufficientStock_Message(t *testing.T) {
	err := InsufficientStock("Latte (Large)", 2, 5)

	assert.Contains(t, err.Message(), "Latte (Large)")
	assert.Contains(t, err.Message(), "available 2")
	assert.Contains(t, err.Message(), "requested 5")
}

func TestConflict_Status(t *testing.T) {
	assert.Equal(t, http.StatusConflict, Conflict("duplicate").HTTPCode())
	assert.False(t, IsClientError(errors.New("boom")))
}

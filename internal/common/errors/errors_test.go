package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAsAppError_Wrapped(t *testing.T) {
	appErr := New(ErrCodeNoActiveCampaign, "Nenhuma campanha ativa")
	wrapped := fmt.Errorf("spin: %w", appErr)

	got, ok := AsAppError(wrapped)
	assert.True(t, ok)
	assert.Same(t, appErr, got)
	assert.True(t, HasCode(wrapped, ErrCodeNoActiveCampaign))
	assert.False(t, HasCode(wrapped, ErrCodeAlreadySpun))
}

func TestAsAppError_Plain(t *testing.T) {
	_, ok := AsAppError(stderrors.New("boom"))
	assert.False(t, ok)

	_, ok = AsAppError(nil)
	assert.False(t, ok)
}

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	appErr := NewDatabaseError("Erro ao carregar o histórico.", cause)

	assert.Equal(t, "[DATABASE_ERROR] Erro ao carregar o histórico.: connection refused", appErr.Error())
	assert.True(t, stderrors.Is(appErr, cause))
	assert.True(t, appErr.IsInternal())
}

func TestAppError_Classification(t *testing.T) {
	assert.True(t, NewUnauthorizedError().IsUnauthorized())
	assert.Equal(t, "Não autorizado", NewUnauthorizedError().Message)
	assert.True(t, New(ErrCodeCampaignNotFound, "x").IsNotFound())
	assert.True(t, NewValidationError("phone", "x").IsValidation())
	assert.Equal(t, "phone", NewValidationError("phone", "x").Details["field"])
}

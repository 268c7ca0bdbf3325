package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantType   ErrorType
		wantStatus int
	}{
		{"validation", NewValidationError("bad", nil), ErrorTypeValidation, http.StatusBadRequest},
		{"authentication", NewAuthenticationError("who"), ErrorTypeAuthentication, http.StatusUnauthorized},
		{"authorization", NewAuthorizationError("no"), ErrorTypeAuthorization, http.StatusForbidden},
		{"not found", NewNotFoundError("gone"), ErrorTypeNotFound, http.StatusNotFound},
		{"conflict", NewConflictError("again"), ErrorTypeConflict, http.StatusConflict},
		{"internal", NewInternalError("oops", stderrors.New("cause")), ErrorTypeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
		})
	}
}

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := stderrors.New("redis down")
	err := NewInternalError("Failed to store challenge", cause)

	assert.Equal(t, "internal: Failed to store challenge (redis down)", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "not_found: Election not found", NewNotFoundError("Election not found").Error())
}

func TestAsAppError(t *testing.T) {
	assert.Nil(t, AsAppError(nil))

	original := NewNotFoundError("Election not found").WithTitle("Error")
	wrapped := fmt.Errorf("loading page: %w", original)
	got := AsAppError(wrapped)
	require.NotNil(t, got)
	assert.Same(t, original, got)
	assert.Equal(t, "Error", got.Title)

	plain := AsAppError(stderrors.New("plain"))
	assert.Equal(t, ErrorTypeInternal, plain.Type)
	assert.EqualError(t, plain.Internal, "plain")
}

func TestIsType(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NewValidationError("bad", nil))
	assert.True(t, IsType(err, ErrorTypeValidation))
	assert.False(t, IsType(err, ErrorTypeNotFound))
	assert.False(t, IsType(stderrors.New("x"), ErrorTypeValidation))
}

package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    HTTPStatuser
		status int
		code   string
	}{
		{"validation", NewValidationError("nombres", "required"), http.StatusBadRequest, CodeValidation},
		{"conflict", NewConflictError("user", "duplicate"), http.StatusConflict, CodeConflict},
		{"authentication", NewAuthenticationError("bad password"), http.StatusUnauthorized, CodeUnauthorized},
		{"not found", NewNotFoundError("user", ""), http.StatusNotFound, CodeNotFound},
		{"internal", NewInternalError("boom", nil), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus())
			assert.Equal(t, tt.code, tt.err.Code())
		})
	}
}

func TestInternalError_UnwrapAndPublicMessage(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewInternalError("could not save user", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, "could not save user", PublicMessage(err))
}

func TestErrorsAs_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewNotFoundError("user", "user not found"))

	var statuser HTTPStatuser
	require.True(t, stderrors.As(wrapped, &statuser))
	assert.Equal(t, http.StatusNotFound, statuser.HTTPStatus())
	assert.Equal(t, "user not found", PublicMessage(statuser))
}

func TestValidationError_Message(t *testing.T) {
	assert.Equal(t, "validation failed: email - invalid", NewValidationError("email", "invalid").Error())
	assert.Equal(t, "validation failed: invalid", NewValidationError("", "invalid").Error())
	assert.Equal(t, "invalid", PublicMessage(NewValidationError("email", "invalid")))
}

func TestNotFoundError_DefaultMessage(t *testing.T) {
	assert.Equal(t, "client not found", NewNotFoundError("client", "").Error())
}

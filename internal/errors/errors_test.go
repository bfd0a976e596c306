package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindForStatus(t *testing.T) {
	cases := map[int]ErrorKind{
		http.StatusBadRequest:            KindValidation,
		http.StatusUnprocessableEntity:   KindValidation,
		http.StatusUnauthorized:          KindUnauthorized,
		http.StatusForbidden:             KindForbidden,
		http.StatusNotFound:              KindNotFound,
		http.StatusConflict:              KindConflict,
		http.StatusRequestEntityTooLarge: KindTooLarge,
		http.StatusTeapot:                KindClient,
		http.StatusInternalServerError:   KindServer,
		http.StatusBadGateway:            KindServer,
	}
	for status, want := range cases {
		assert.Equal(t, want, KindForStatus(status), "status %d", status)
	}
}

func TestAPIError(t *testing.T) {
	t.Run("Error message with status", func(t *testing.T) {
		err := NewAPIError(http.MethodPost, "/api/v1/links/", http.StatusNotFound, "Group not found")
		assert.Equal(t, "API error (404) POST /api/v1/links/: Group not found", err.Error())
		assert.Equal(t, KindNotFound, err.Kind)
	})

	t.Run("Error message for network failure", func(t *testing.T) {
		err := NewNetworkError(http.MethodGet, "/health", errors.New("connection refused"))
		assert.Equal(t, "API GET /health failed: connection refused", err.Error())
		assert.Equal(t, 0, err.StatusCode)
	})

	t.Run("Unwrap exposes cause", func(t *testing.T) {
		cause := errors.New("dial tcp: timeout")
		err := NewNetworkError(http.MethodGet, "/x", cause)
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("errors.Is against kind template", func(t *testing.T) {
		err := fmt.Errorf("create link: %w", NewAPIError(http.MethodPost, "/p", http.StatusUnauthorized, "nope"))
		assert.True(t, errors.Is(err, &APIError{Kind: KindUnauthorized}))
		assert.False(t, errors.Is(err, &APIError{Kind: KindNotFound}))
		assert.True(t, errors.Is(err, &APIError{}))
	})

	t.Run("AsAPIError helper", func(t *testing.T) {
		wrapped := fmt.Errorf("wrap: %w", NewAPIError(http.MethodGet, "/p", http.StatusBadGateway, "upstream"))
		apiErr, ok := AsAPIError(wrapped)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)

		_, ok = AsAPIError(errors.New("plain"))
		assert.False(t, ok)
	})
}

func TestNotFoundError(t *testing.T) {
	t.Run("Error message", func(t *testing.T) {
		err := &NotFoundError{Entity: "token file"}
		assert.Equal(t, "token file not found", err.Error())
	})

	t.Run("errors.Is comparison", func(t *testing.T) {
		assert.True(t, errors.Is(ErrTokenFileNotFound, &NotFoundError{Entity: "token file"}))
		assert.False(t, errors.Is(ErrTokenFileNotFound, &NotFoundError{Entity: "link"}))
	})

	t.Run("IsNotFound helper", func(t *testing.T) {
		assert.True(t, IsNotFound(ErrTokenFileNotFound))
		assert.True(t, IsNotFound(NewAPIError(http.MethodGet, "/p", http.StatusNotFound, "")))
		assert.False(t, IsNotFound(ErrFileTooLarge))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("Error message with field", func(t *testing.T) {
		err := &ValidationError{Field: "file", Message: "too large"}
		assert.Equal(t, "validation error: file - too large", err.Error())
	})

	t.Run("Error message without field", func(t *testing.T) {
		err := &ValidationError{Message: "invalid format"}
		assert.Equal(t, "validation error: invalid format", err.Error())
	})

	t.Run("IsValidation helper", func(t *testing.T) {
		assert.True(t, IsValidation(NewValidationError("group_id", "required")))
		assert.True(t, IsValidation(NewAPIError(http.MethodPost, "/p", http.StatusUnprocessableEntity, "bad")))
		assert.False(t, IsValidation(ErrNoToken))
	})
}

func TestAuthenticationAndConfiguration(t *testing.T) {
	assert.True(t, IsAuthentication(ErrNoToken))
	assert.True(t, IsAuthentication(NewAPIError(http.MethodGet, "/p", http.StatusUnauthorized, "")))
	assert.False(t, IsAuthentication(ErrLoginURLNotSet))

	assert.True(t, IsConfiguration(ErrLoginURLNotSet))
	assert.True(t, IsConfiguration(NewConfigurationError("bad")))
	assert.False(t, IsConfiguration(ErrNoToken))
}

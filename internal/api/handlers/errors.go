package handlers

import (
	"net/http"

	apperrors "codeme-client/internal/errors"
	"codeme-client/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a standard API error response
type ErrorResponse struct {
	Error   string `json:"error" example:"error message"`
	Details string `json:"details,omitempty"`
}

// statusForError maps a service error to the status the companion server
// answers with. Backend failures outside the caller's control become 502.
func statusForError(err error) int {
	switch {
	case apperrors.IsValidation(err):
		return http.StatusBadRequest
	case apperrors.IsAuthentication(err):
		return http.StatusUnauthorized
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func respondError(c *gin.Context, err error, message string) {
	status := statusForError(err)

	log := logger.WithContext(c).WithError(err)
	if status == http.StatusBadGateway {
		log.Error(message)
	} else {
		log.Warn(message)
	}

	resp := ErrorResponse{Error: message, Details: err.Error()}
	if apiErr, ok := apperrors.AsAPIError(err); ok && apiErr.Message != "" {
		resp.Details = apiErr.Message
	}
	c.JSON(status, resp)
}

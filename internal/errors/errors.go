package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed backend call
type ErrorKind string

const (
	KindNetwork      ErrorKind = "network"
	KindValidation   ErrorKind = "validation"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindNotFound     ErrorKind = "not_found"
	KindConflict     ErrorKind = "conflict"
	KindTooLarge     ErrorKind = "too_large"
	KindClient       ErrorKind = "client"
	KindServer       ErrorKind = "server"
	KindDecode       ErrorKind = "decode"
)

// APIError is returned for every failed call to the backend API.
// StatusCode is zero when no response was received.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Method     string
	Path       string
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		if e.Err != nil {
			return fmt.Sprintf("API %s %s failed: %v", e.Method, e.Path, e.Err)
		}
		return fmt.Sprintf("API %s %s failed: %s", e.Method, e.Path, e.Message)
	}
	return fmt.Sprintf("API error (%d) %s %s: %s", e.StatusCode, e.Method, e.Path, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() comparison against a kind-only template, e.g. &APIError{Kind: KindNotFound}
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return t.Kind == "" || e.Kind == t.Kind
}

// KindForStatus maps an HTTP status code to an ErrorKind
func KindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return KindValidation
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusRequestEntityTooLarge:
		return KindTooLarge
	case status >= 400 && status < 500:
		return KindClient
	default:
		return KindServer
	}
}

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// Is enables errors.Is() comparison for NotFoundError
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// AuthenticationError represents authentication-related errors
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// ConfigurationError represents configuration-related errors
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// Entity Not Found Errors
var (
	ErrTokenFileNotFound = &NotFoundError{Entity: "token file"}
)

// Authentication Errors
var (
	ErrNoToken      = &AuthenticationError{Message: "no bearer token stored; run login first"}
	ErrLoginTimeout = &AuthenticationError{Message: "timed out waiting for login callback"}
)

// Configuration Errors
var (
	ErrLoginURLNotSet = &ConfigurationError{Message: "AUTH_LOGIN_URL is not set"}
)

// Request Errors
var (
	ErrFileTooLarge = &ValidationError{Field: "file", Message: "file exceeds maximum upload size"}
	ErrEmptyPath    = errors.New("request path is required")
)

// Helper Functions

// IsNotFound checks if an error is a NotFoundError or a 404 APIError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr) || IsAPIKind(err, KindNotFound)
}

// IsValidation checks if an error is a ValidationError or a 400/422 APIError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr) || IsAPIKind(err, KindValidation)
}

// IsAuthentication checks if an error is an AuthenticationError or a 401 APIError
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr) || IsAPIKind(err, KindUnauthorized)
}

// IsConfiguration checks if an error is a ConfigurationError
func IsConfiguration(err error) bool {
	var configErr *ConfigurationError
	return errors.As(err, &configErr)
}

// IsAPIKind reports whether err wraps an APIError of the given kind
func IsAPIKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Kind == kind
}

// AsAPIError unwraps err into an APIError
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// NewNotFoundError creates a new NotFoundError for a custom entity
func NewNotFoundError(entity string) error {
	return &NotFoundError{Entity: entity}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewAuthenticationError creates a new AuthenticationError
func NewAuthenticationError(message string) error {
	return &AuthenticationError{Message: message}
}

// NewConfigurationError creates a new ConfigurationError
func NewConfigurationError(message string) error {
	return &ConfigurationError{Message: message}
}

// NewAPIError creates an APIError for a response with the given status
func NewAPIError(method, path string, status int, message string) *APIError {
	return &APIError{
		Kind:       KindForStatus(status),
		StatusCode: status,
		Method:     method,
		Path:       path,
		Message:    message,
	}
}

// NewNetworkError creates an APIError for a request that never got a response
func NewNetworkError(method, path string, err error) *APIError {
	return &APIError{
		Kind:   KindNetwork,
		Method: method,
		Path:   path,
		Err:    err,
	}
}

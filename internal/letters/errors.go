package letters

import (
	"errors"
	"net/http"
)

// Domain errors for letter operations.
var (
	ErrNotFound     = errors.New("letter not found")
	ErrDuplicate    = errors.New("letter already exists")
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
	ErrInvalidFile  = errors.New("invalid file")
	ErrMissingUser  = errors.New("user_id required")
	ErrUnreadable   = errors.New("letter produced no readable text")
)

// MapHTTPStatus maps letter domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrFileTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, ErrUnreadable) {
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, ErrInvalidFile) || errors.Is(err, ErrMissingUser) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

package records

import (
	"errors"
	"net/http"
)

// Domain errors for service record operations.
var (
	ErrNotFound   = errors.New("service record not found")
	ErrDuplicate  = errors.New("service record already exists")
	ErrInvalidID  = errors.New("invalid service record id")
	ErrNoReviewer = errors.New("reviewer identity required")
)

// MapHTTPStatus maps service record domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidID) || errors.Is(err, ErrNoReviewer) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

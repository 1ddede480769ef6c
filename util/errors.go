package util

import (
	"errors"
	"net/http"
)

// Failure taxonomy. Every service error wraps one of these so the
// controllers can map it to a status code with errors.Is.
var (
	ErrNotFound         = errors.New("record not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrExternalService  = errors.New("external service failure")
)

/*
* Map a service error to an HTTP status
* Unknown errors fall through to 500
 */
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidationFailed):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrExternalService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

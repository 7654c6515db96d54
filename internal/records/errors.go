package records

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/gostcat/pkg/storage"
)

// Domain errors for record operations.
var (
	ErrInvalidKey    = errors.New("record key must not be empty")
	ErrInvalidRecord = errors.New("invalid record")
	ErrNotFound      = errors.New("record not found")
	ErrStorage       = errors.New("record storage failed")
	ErrFileTooLarge  = errors.New("file exceeds maximum upload size")
	ErrInvalidImage  = errors.New("invalid image")
)

// MapHTTPStatus maps record domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidKey), errors.Is(err, ErrInvalidRecord), errors.Is(err, ErrInvalidImage):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, storage.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrEmptyKey), errors.Is(err, storage.ErrInvalidKey):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

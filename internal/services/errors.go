// Package services defines the error taxonomy shared by the query and audio
// paths, and its mapping onto HTTP status codes.
package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNotFound marks a missing audio or caption file.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks malformed caller input: bad timestamps, non-positive
	// durations, conflicting range specifiers.
	ErrValidation = errors.New("validation error")
	// ErrUnsatisfiableRange marks a byte range outside the file's bounds.
	ErrUnsatisfiableRange = errors.New("range not satisfiable")
	// ErrExternalTool marks a transcode or playback process that failed to
	// start or exited non-zero.
	ErrExternalTool = errors.New("external tool error")
	// ErrStoreQuery marks an index query execution failure.
	ErrStoreQuery = errors.New("store query error")
	// ErrDiscovery marks a caption file enumeration failure. Reindex degrades
	// to a no-op on this rather than propagating.
	ErrDiscovery = errors.New("discovery error")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later status classification. The marker should
// be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrStoreQuery
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// HTTPStatus maps a taxonomy error to the status code the API surfaces.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnsatisfiableRange):
		return http.StatusRequestedRangeNotSatisfiable
	default:
		return http.StatusInternalServerError
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

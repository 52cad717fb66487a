package remote

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyDatasetKey is returned when a request names no dataset.
	ErrEmptyDatasetKey = errors.New("dataset key is required")

	// ErrMissingAPIKey is returned when a download is attempted without an
	// API key.
	ErrMissingAPIKey = errors.New("api key is required for downloads, set --api-key or AIHUB_API_KEY")

	// ErrNoFileKeys is returned when a download request carries no file keys.
	ErrNoFileKeys = errors.New("no file keys requested")

	// ErrManualFormat is returned when the API manual cannot be decoded.
	ErrManualFormat = errors.New("unexpected api manual format")
)

// StatusError reports a response whose status the client treats as fatal.
type StatusError struct {
	// Op is the request that failed ("head", "download", "listing", ...)
	Op string

	URL  string
	Code int

	// Body is the (bounded) response body, surfaced as the service's message
	Body string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s failed with HTTP status %d", e.Op, e.Code)
	if body := strings.TrimSpace(e.Body); body != "" {
		msg += ": " + body
	}
	return msg
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

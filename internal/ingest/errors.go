package ingest

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyResult means the provider answered successfully with no days.
	// It is a no-op, not a failure.
	ErrEmptyResult = errors.New("forecast list is empty")

	// ErrInvalidLocation means the provider did not recognise the location.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrSyncInFlight means another sync cycle is still running.
	ErrSyncInFlight = errors.New("sync already in flight")
)

// TransportError covers unreachable hosts, timeouts and non-2xx statuses.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport: status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// FormatError means the response body did not have the expected structure.
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string { return fmt.Sprintf("format: %v", e.Err) }

func (e *FormatError) Unwrap() error { return e.Err }

// Outcome labels a sync cycle for logs and metrics.
func Outcome(err error) string {
	var te *TransportError
	var fe *FormatError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrEmptyResult):
		return "empty"
	case errors.Is(err, ErrSyncInFlight):
		return "skipped"
	case errors.As(err, &te):
		return "transport_error"
	case errors.As(err, &fe):
		return "format_error"
	default:
		return "error"
	}
}

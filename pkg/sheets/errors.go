package sheets

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a submission failed.
type ErrorKind string

const (
	// ErrorKindTransport covers network failures, timeouts and cancellation.
	ErrorKindTransport ErrorKind = "transport"
	// ErrorKindStatus covers responses outside the 2xx range.
	ErrorKindStatus ErrorKind = "status"
)

// ErrEndpointRequired is returned when the client has no endpoint configured.
var ErrEndpointRequired = errors.New("sheets: endpoint is required")

// SubmissionError reports a failed outbound request. Callers surface a
// generic message and log the error itself.
type SubmissionError struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *SubmissionError) Error() string {
	switch e.Kind {
	case ErrorKindStatus:
		return fmt.Sprintf("sheets: endpoint responded with status %d", e.StatusCode)
	default:
		if e.Err == nil {
			return "sheets: request failed"
		}
		return fmt.Sprintf("sheets: request failed: %v", e.Err)
	}
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// IsSubmissionError reports whether err wraps a SubmissionError.
func IsSubmissionError(err error) bool {
	var target *SubmissionError
	return errors.As(err, &target)
}

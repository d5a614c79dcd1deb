package controller

import "time"

// StatusKind distinguishes the two submission outcomes.
type StatusKind string

const (
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// Fixed user facing messages.
const (
	SuccessMessage = "✅ Booking submitted successfully!"
	FailureMessage = "❌ Something went wrong. Please try again."
)

// DefaultStatusTTL is how long a status stays visible.
const DefaultStatusTTL = 5 * time.Second

// Status is the transient indicator shown after a submission attempt.
type Status struct {
	Kind    StatusKind `json:"kind"`
	Message string     `json:"message"`
}

// IsSuccess reports whether the status records a successful submission.
func (s Status) IsSuccess() bool {
	return s.Kind == StatusSuccess
}

func successStatus() Status {
	return Status{Kind: StatusSuccess, Message: SuccessMessage}
}

func failureStatus() Status {
	return Status{Kind: StatusError, Message: FailureMessage}
}

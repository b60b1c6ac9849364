package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreachable wraps transport failures talking to the Auth Service.
	ErrUnreachable = errors.New("auth service unreachable")
	// ErrMalformedResponse is returned when a 2xx body fails schema validation.
	ErrMalformedResponse = errors.New("malformed auth service response")
	// ErrMissingCredentials is returned before any network call when email or
	// password is empty.
	ErrMissingCredentials = errors.New("email and password are required")
	// ErrInvalidRegistration is returned when a registration payload fails
	// local schema checks.
	ErrInvalidRegistration = errors.New("invalid registration payload")
	// ErrNoSession is returned by operations that need a stored token.
	ErrNoSession = errors.New("no active session")
)

// RejectedError is a non-2xx answer from the Auth Service.
type RejectedError struct {
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request rejected with status %d", e.Status)
}

// ErrorKind classifies failures so callers can choose their UI treatment.
type ErrorKind string

const (
	KindNone        ErrorKind = ""
	KindUnreachable ErrorKind = "unreachable"
	KindRejected    ErrorKind = "rejected"
	KindMalformed   ErrorKind = "malformed"
	KindInvalid     ErrorKind = "invalid"
	KindUnknown     ErrorKind = "unknown"
)

// KindOf returns the kind of err.
func KindOf(err error) ErrorKind {
	var rejected *RejectedError
	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &rejected):
		return KindRejected
	case errors.Is(err, ErrUnreachable):
		return KindUnreachable
	case errors.Is(err, ErrMalformedResponse):
		return KindMalformed
	case errors.Is(err, ErrMissingCredentials), errors.Is(err, ErrInvalidRegistration):
		return KindInvalid
	default:
		return KindUnknown
	}
}

// UserMessage picks the best message to show for err, falling back to
// fallback when the Auth Service did not provide one.
func UserMessage(err error, fallback string) string {
	var rejected *RejectedError
	switch {
	case errors.As(err, &rejected) && rejected.Message != "":
		return rejected.Message
	case errors.Is(err, ErrUnreachable):
		return "Unable to reach the server, please try again"
	case errors.Is(err, ErrMissingCredentials):
		return ErrMissingCredentials.Error()
	default:
		return fallback
	}
}

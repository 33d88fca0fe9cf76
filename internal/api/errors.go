package api

import (
	"errors"
)

// Error kinds. Every error returned by Client matches exactly one of these via errors.Is.
var (
	// ErrNetworkFailure covers transport failures and non-2xx HTTP statuses.
	ErrNetworkFailure = errors.New("network failure")

	// ErrMalformedResponse covers bodies that are not JSON or lack required fields.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrApplication covers well-formed responses reporting success=false.
	ErrApplication = errors.New("application error")

	// ErrTimedOut covers requests that exceeded the client timeout.
	ErrTimedOut = errors.New("request timed out")

	// ErrCanceled covers requests abandoned because the caller's context was canceled.
	ErrCanceled = errors.New("request canceled")
)

// RequestError describes a failed request. Error returns the human-readable text shown
// to the user; errors.Is matches Kind and the underlying cause.
type RequestError struct {
	// Kind is one of the package's sentinel errors.
	Kind error

	// Status is the HTTP status code, or zero when no response was received.
	Status int

	// Message is the display text: the server's error string when it sent one.
	Message string

	// RequestID is the X-Request-ID sent with the request.
	RequestID string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements error.
func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.Error()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *RequestError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// StatusCode extracts the HTTP status from err, or zero.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Status
	}
	return 0
}

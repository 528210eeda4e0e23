package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUpstream matches every *UpstreamError via errors.Is.
	ErrUpstream = errors.New("weather upstream error")
	// ErrMalformedResponse matches every *MalformedResponseError via errors.Is.
	ErrMalformedResponse = errors.New("malformed weather response")
	// ErrUnknownLocation is returned when location enforcement rejects a pair.
	ErrUnknownLocation = errors.New("location not in table")
)

// UpstreamError reports a transport failure, timeout or non-2xx response.
// StatusCode is 0 and Body empty when no response was received.
type UpstreamError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("weather upstream request failed: %v", e.Err)
	}
	return fmt.Sprintf("weather upstream returned status %d: %s", e.StatusCode, e.Body)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// Detail is the diagnostic text shown to users: the raw upstream body when
// there is one, otherwise the underlying error.
func (e *UpstreamError) Detail() string {
	if e.Body != "" {
		return e.Body
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "no response from upstream"
}

// MalformedResponseError reports a successful upstream response that lacks
// an expected field or carries it with the wrong type.
type MalformedResponseError struct {
	Field string
	Err   error
}

func (e *MalformedResponseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed weather response: %v", e.Err)
	}
	if e.Err == nil {
		return fmt.Sprintf("malformed weather response: missing %s", e.Field)
	}
	return fmt.Sprintf("malformed weather response: %s: %v", e.Field, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func (e *MalformedResponseError) Is(target error) bool { return target == ErrMalformedResponse }

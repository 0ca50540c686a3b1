package client

import (
	"fmt"
)

// User-facing fallbacks when the service gives no usable message.
const (
	MsgUnavailable    = "Tutor is unavailable right now."
	MsgTransportError = "Failed to reach the tutor service. Check your connection and try again."
)

// APIError is a non-success response from the tutor service.
type APIError struct {
	Status  int
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("tutor service: %d %s (%s)", e.Status, e.Message, e.Details)
	}
	return fmt.Sprintf("tutor service: %d %s", e.Status, e.Message)
}

// UserMessage prefers the detailed message, then the error message.
func (e *APIError) UserMessage() string {
	switch {
	case e.Details != "":
		return e.Details
	case e.Message != "":
		return e.Message
	}
	return MsgUnavailable
}

// TransportError means no usable response arrived: the request failed or
// the body could not be decoded.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UserMessage hides the underlying cause.
func (e *TransportError) UserMessage() string {
	return MsgTransportError
}

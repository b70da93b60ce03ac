package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable       = errors.New("server unavailable")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrMalformedResponse = errors.New("malformed response")
)

// AuthenticationError means the backend rejected the request: a non-2xx
// status or an explicit success=false. Message is the backend's own text
// when it sent one.
type AuthenticationError struct {
	Status  int
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

func (e *AuthenticationError) Is(target error) bool {
	return target == ErrUnauthorized
}

// ProtocolError means the backend answered with success but the payload
// was unusable.
type ProtocolError struct {
	Message string
	Err     error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProtocolError) Unwrap() error { return e.Err }

func (e *ProtocolError) Is(target error) bool {
	return target == ErrMalformedResponse
}

// TransientNetworkError means the request could not be completed at all
// (dial failure, timeout, cancelled context).
type TransientNetworkError struct {
	Op  string
	Err error
}

func (e *TransientNetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientNetworkError) Unwrap() error { return e.Err }

func (e *TransientNetworkError) Is(target error) bool {
	return target == ErrUnavailable
}

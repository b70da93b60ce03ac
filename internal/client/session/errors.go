package session

import "errors"

var (
	ErrEmptyToken        = errors.New("session: empty token")
	ErrNilIdentity       = errors.New("session: nil identity")
	ErrNoSession         = errors.New("session: no active session")
	ErrMalformedIdentity = errors.New("session: malformed identity")
)

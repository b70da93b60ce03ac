// Package client is the client side of the dashboard backend API.
//
// # Overview
//
//  1. Client is the transport contract the auth service depends on:
//     Login, Register, Logout and the IsConfigured probe.
//  2. HTTPClient implements it over JSON/HTTP, and also exposes the
//     watch-list endpoints, which take the caller's credential header.
//
// # Error Handling
//
// Failures are typed so callers can tell them apart with errors.As, and
// each type also matches a sentinel with errors.Is:
//
//   - *AuthenticationError  -> ErrUnauthorized      (backend said no)
//   - *ProtocolError        -> ErrMalformedResponse (2xx with a bad body)
//   - *TransientNetworkError-> ErrUnavailable       (request never completed)
//
// Every request carries a fresh X-Request-ID.
package client

package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means no token is present; no request was issued.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrSessionExpired means the portal returned 401. The client has already
	// cleared the session; the caller routes the user back to login.
	ErrSessionExpired = errors.New("session expired")

	// ErrFeatureUnavailable means an optional endpoint returned 404 — the
	// portal deployment simply doesn't have the feature yet.
	ErrFeatureUnavailable = errors.New("feature not available on this portal")
)

// RequestError reports a non-2xx response outside the 401/404 special cases.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed (%d): %s", e.Status, e.Message)
}

// NetworkError wraps a transport failure; no response was received and the
// session was not touched.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("could not reach the portal: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ValidationError is a client-side rejection; it never reaches the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

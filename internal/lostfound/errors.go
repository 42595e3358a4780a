package lostfound

import (
	"fmt"
	"net/http"
)

// AuthError reports a missing, expired, or rejected credential. When the
// credential is missing or expired no request was sent.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("not authenticated: %s: %v", e.Reason, e.Err)
	}
	return "not authenticated: " + e.Reason
}

func (e *AuthError) Unwrap() error { return e.Err }

// NetworkError reports a request that could not complete.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError reports a non-success response from the API.
type ServerError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *ServerError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, msg)
}

package api

import (
	"errors"
	"fmt"
)

// ErrEmptyQuery is returned before any request is issued when the caller
// supplies a blank ticker or query string.
var ErrEmptyQuery = errors.New("query must not be empty")

// ErrNotAuthenticated indicates the backend rejected the request because the
// session is missing or expired. Raised on a 401 status and on non-JSON
// responses, which the backend produces when it redirects to its login page.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrStreamClosed indicates an event stream ended before its terminal
// event arrived.
var ErrStreamClosed = errors.New("stream closed before completion")

// ServerError is an application-level failure: the backend answered with
// success:false and a human-readable message. The message is untrusted text
// and must be escaped before rendering into markup.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("backend: %s", e.Message)
}

// AsServerError unwraps err into a *ServerError if one is in its chain.
func AsServerError(err error) (*ServerError, bool) {
	var se *ServerError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

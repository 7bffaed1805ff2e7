package gateway

import (
	"errors"
	"fmt"
)

// Sentinel errors for gateway-reported conditions. Callers match them with
// errors.Is; the wrapped message carries the server-supplied detail.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

// TransportError wraps a network-level failure: the request never produced a
// usable HTTP response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RemoteError is a non-2xx gateway response that maps to no sentinel. It keeps
// the status code and the server's detail message, falling back to a generic
// description when the body carried none.
type RemoteError struct {
	Op     string
	Status int
	Detail string
}

func (e *RemoteError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("gateway %s: %s (status %d)", e.Op, e.Detail, e.Status)
	}
	return fmt.Sprintf("gateway %s: request failed with status %d", e.Op, e.Status)
}

package rpc

import "fmt"

// TransportError reports a failure to obtain a well-formed JSON-RPC response:
// a network-level error, or an HTTP response with a non-200 status. For
// non-200 responses Body carries the raw response body verbatim.
type TransportError struct {
	StatusCode int    // zero when the request never produced a response
	Body       string // raw response body for non-200 responses
	Err        error  // underlying cause for network-level failures
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport error: %v", e.Err)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Error reports a JSON-RPC error object returned by the server in an
// otherwise successful (HTTP 200) response.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Package rpc implements the JSON-RPC 2.0 over HTTP transport used to talk
// to a boxlet sandbox server.
//
// The rpc package owns the wire format only: it builds request envelopes,
// attaches authentication headers, and classifies failures into transport
// errors (network or non-200 responses) and server errors (well-formed
// responses carrying an error object). It performs no retries and enforces
// no timeout of its own.
package rpc

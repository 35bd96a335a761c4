package odoo

import (
	"errors"
	"fmt"
	"strings"
)

// Common client errors.
var (
	// ErrAuthenticationFailed indicates that the login call was rejected by
	// the server (wrong database, username or API key).
	ErrAuthenticationFailed = errors.New("odoo: authentication failed")

	// ErrNotConnected indicates that an operation was attempted on a client
	// whose session was never established.
	ErrNotConnected = errors.New("odoo: client is not connected")

	// ErrTransport wraps any HTTP-level failure reaching the server:
	// connection errors, timeouts and non-2xx responses.
	ErrTransport = errors.New("odoo: transport failure")

	// ErrInvalidResponse is returned when the server reply is not a valid
	// JSON-RPC response or the result has an unexpected shape.
	ErrInvalidResponse = errors.New("odoo: invalid RPC response")

	// ErrRecordNotFound indicates that a lookup matched no records.
	ErrRecordNotFound = errors.New("odoo: record not found")
)

// RPCError is a structured error reported by the Odoo server itself,
// distinct from transport failures. Message carries the top-level JSON-RPC
// error message; DataMessage carries the server-side detail (usually the
// Python exception text), which is what operators actually need to see.
type RPCError struct {
	Code        int
	Message     string
	DataMessage string
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	if e.DataMessage != "" {
		return fmt.Sprintf("odoo: server error: %s - %s", e.Message, e.DataMessage)
	}
	return fmt.Sprintf("odoo: server error: %s", e.Message)
}

// Detail returns the most specific message the server provided.
func (e *RPCError) Detail() string {
	if e.DataMessage != "" {
		return e.DataMessage
	}
	return e.Message
}

// IsMissingModel reports whether the server error looks like an access to a
// model that is not installed in this database. Schema probing relies on
// this to fall back between ERP versions instead of failing hard.
func IsMissingModel(err error) bool {
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		return false
	}
	msg := strings.ToLower(rpcErr.Detail())
	for _, marker := range []string{
		"does not exist",
		"no model named",
		"not found in registry",
		"invalid model",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

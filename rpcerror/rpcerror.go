// Package rpcerror defines the closed error taxonomy shared between the
// registry call path and the numeric status codes that cross the boundary.
package rpcerror

import (
	"errors"
	"fmt"
)

// Kind identifies one failure class. The set is closed: each kind maps to
// exactly one boundary status code, and codes are never reused across kinds.
type Kind int

const (
	// UnknownMethod means no handler is registered under the requested name.
	UnknownMethod Kind = iota

	// NotFound is reported by a handler when a requested resource is missing.
	NotFound

	// ParseError covers malformed input: undecodable payloads, bad method
	// names, and null required pointers at the boundary.
	ParseError

	// SerializationError means a handler failed to encode its output.
	SerializationError

	// Internal covers unexpected failures inside a handler or the boundary.
	Internal

	// TooLarge means the input payload exceeded the boundary's size cap.
	// It is raised before dispatch; handlers never see oversize input.
	TooLarge
)

func (k Kind) String() string {
	switch k {
	case UnknownMethod:
		return "unknown method"
	case NotFound:
		return "not found"
	case ParseError:
		return "parse error"
	case SerializationError:
		return "serialization error"
	case Internal:
		return "internal error"
	case TooLarge:
		return "input too large"
	default:
		return fmt.Sprintf("rpcerror.Kind(%d)", int(k))
	}
}

// Error pairs a Kind with a human-readable context string. The context is a
// diagnostics side channel only: the boundary discards it when collapsing
// the error to a status code, so callers needing detail must rely on logs.
type Error struct {
	Kind    Kind
	Context string
}

func (e *Error) Error() string {
	if e.Context == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Context)
}

// New builds an Error of the given kind with a formatted context string.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Context: fmt.Sprintf(format, args...)}
}

// NewUnknownMethod reports that no handler is registered under method.
func NewUnknownMethod(method string) *Error {
	return New(UnknownMethod, "%s", method)
}

// NewNotFound reports a missing resource, e.g. an unknown entity id.
func NewNotFound(resource string) *Error {
	return New(NotFound, "%s", resource)
}

// NewParseError reports undecodable input.
func NewParseError(reason string) *Error {
	return New(ParseError, "%s", reason)
}

// NewSerializationError reports a failure to encode handler output.
func NewSerializationError(reason string) *Error {
	return New(SerializationError, "%s", reason)
}

// NewInternal reports an unexpected failure.
func NewInternal(reason string) *Error {
	return New(Internal, "%s", reason)
}

// NewTooLarge reports an input payload over the boundary's size cap.
func NewTooLarge(size, limit int) *Error {
	return New(TooLarge, "input is %d bytes, limit is %d", size, limit)
}

// KindOf extracts the taxonomy kind from err, unwrapping as needed. The
// second return is false when err carries no kind; the boundary maps such
// errors to Internal.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

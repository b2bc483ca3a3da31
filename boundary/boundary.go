// Package boundary exposes the three operations a foreign caller uses to
// drive the runtime: initialize, call, release. It validates every
// boundary-crossing argument in a fixed order, collapses the internal error
// taxonomy to numeric status codes, and owns the allocator that result
// buffers are handed off from.
//
// Ownership contract: on a successful Call the result is copied into a buffer
// owned by the boundary allocator, and ownership of that buffer transfers to
// the caller. The caller must Release it exactly once, only after the Call
// returned, and never touch it afterwards. The boundary performs no tracking
// or double-release detection beyond ignoring unknown handles.
package boundary

import (
	"unicode/utf8"

	"github.com/rrpc-dev/rrpc-go/internal/arena"
	"github.com/rrpc-dev/rrpc-go/registry"
	"github.com/rrpc-dev/rrpc-go/rpcerror"
	"github.com/rrpc-dev/rrpc-go/runtime"
)

// Status is the numeric result of a boundary operation. The table is fixed;
// foreign callers depend on the exact values.
type Status int32

const (
	// StatusSuccess reports a completed call; output slots are written.
	StatusSuccess Status = 0

	// StatusNotInitialized reports a call issued before Initialize. It is a
	// usage-order violation by the caller, distinct from every
	// taxonomy-derived code.
	StatusNotInitialized Status = 1

	// StatusUnknownMethod reports that no handler holds the requested name.
	StatusUnknownMethod Status = 2

	// StatusParseError reports a bad method name or a null required pointer.
	StatusParseError Status = 3

	// StatusNotFound relays a handler-reported missing resource.
	StatusNotFound Status = 4

	// StatusSerialization relays a handler-reported encoding failure.
	StatusSerialization Status = 5

	// StatusTooLarge reports input over MaxInputSize, detected before
	// dispatch.
	StatusTooLarge Status = 6

	// StatusInternal reports null output slots, allocation failure, or a
	// handler error outside the taxonomy.
	StatusInternal Status = 99
)

// MaxInputSize caps call payloads at 10 MiB, enforced before dispatch.
const MaxInputSize = 10 * 1024 * 1024

// Buffer is an opaque handle to a boundary-owned allocation. The zero value
// is the null buffer.
type Buffer = arena.Handle

// allocations is the boundary-designated allocator. Every buffer written to
// a Call output slot comes from here, and Release is its paired consumer.
var allocations = arena.New(arena.DefaultLimit)

// StatusOf collapses an error from the call path to its status code,
// discarding the context string. Errors outside the taxonomy map to
// StatusInternal.
func StatusOf(err error) Status {
	kind, ok := rpcerror.KindOf(err)
	if !ok {
		return StatusInternal
	}
	switch kind {
	case rpcerror.UnknownMethod:
		return StatusUnknownMethod
	case rpcerror.NotFound:
		return StatusNotFound
	case rpcerror.ParseError:
		return StatusParseError
	case rpcerror.SerializationError:
		return StatusSerialization
	case rpcerror.TooLarge:
		return StatusTooLarge
	default:
		return StatusInternal
	}
}

// Initialize constructs the process-wide runtime on first use and always
// reports success. Repeated calls are no-ops that keep existing
// registrations.
func Initialize() Status {
	runtime.Initialize()
	return StatusSuccess
}

// Call invokes the handler registered under method with input.
//
// Arguments are validated in a fixed order callers depend on: nil method
// name (parse error), input size cap, nil output slots (internal), runtime
// initialization, then method-name UTF-8 validity. The native surface's
// "non-null length with null input pointer" check is unrepresentable with Go
// slices; the wasmhost surface enforces it. Dispatch and result allocation
// happen under the runtime's lock, serialized with every other call and
// registration.
//
// On success a copy of the handler's result is allocated from the boundary
// allocator, its handle and length are written to the output slots, and
// ownership transfers to the caller.
func Call(method []byte, input []byte, outBuf *Buffer, outLen *uint64) Status {
	if method == nil {
		return StatusParseError
	}
	if len(input) > MaxInputSize {
		return StatusTooLarge
	}
	if outBuf == nil || outLen == nil {
		return StatusInternal
	}
	state, ok := runtime.Current()
	if !ok {
		return StatusNotInitialized
	}
	if !utf8.Valid(method) {
		return StatusParseError
	}

	status := StatusInternal
	state.Locked(func(reg *registry.Registry) {
		result, err := reg.Call(string(method), input)
		if err != nil {
			status = StatusOf(err)
			return
		}
		handle, ok := allocations.Allocate(result)
		if !ok {
			status = StatusInternal
			return
		}
		*outBuf = handle
		*outLen = uint64(len(result))
		status = StatusSuccess
	})
	return status
}

// Bytes dereferences a transferred buffer. It is a read accessor on the
// allocator, not a second transfer: the buffer belongs to the caller until
// Release.
func Bytes(buf Buffer) ([]byte, bool) {
	return allocations.Bytes(buf)
}

// Release returns a transferred buffer to the boundary allocator. A null
// buffer is a no-op. Per contract the caller releases each buffer exactly
// once, only after the Call that produced it returned success.
func Release(buf Buffer, length uint64) {
	if buf == 0 {
		return
	}
	_ = length // the allocator knows the real size; length is the caller's echo
	allocations.Release(buf)
}

// Package registry holds the name-to-handler mapping the boundary dispatches
// through.
package registry

import (
	"sort"

	"github.com/rrpc-dev/rrpc-go/rpcerror"
)

// Handler is the capability stored under a method name: input bytes in,
// output bytes or a typed error out. Once registered a handler is treated as
// immutable and must be safe to invoke from any goroutine; the runtime's lock
// serializes invocations.
type Handler func(input []byte) ([]byte, error)

// Registry maps method names to handlers. It performs no locking of its own:
// callers hold the runtime state's lock for the duration of every method.
type Registry struct {
	handlers map[string]Handler
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register inserts handler under name. Re-registering a name replaces the
// previous handler atomically; there is no error and no merge.
func (r *Registry) Register(name string, handler Handler) {
	r.handlers[name] = handler
}

// Call resolves name and invokes its handler with input. The handler's result
// or error is relayed unchanged, with no wrapping and no retry. An
// unregistered name fails with UnknownMethod.
func (r *Registry) Call(name string, input []byte) ([]byte, error) {
	handler, ok := r.handlers[name]
	if !ok {
		return nil, rpcerror.NewUnknownMethod(name)
	}
	return handler(input)
}

// HasMethod reports whether a handler is registered under name.
func (r *Registry) HasMethod(name string) bool {
	_, ok := r.handlers[name]
	return ok
}

// Methods returns all registered names, sorted for stable iteration.
func (r *Registry) Methods() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

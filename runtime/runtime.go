// Package runtime owns the process-wide state behind the boundary: a single
// registry guarded by one mutual-exclusion lock.
//
// The state is created lazily by the first Initialize call and lives until
// process exit; there is no de-initialize. Every boundary call and every
// registration serializes on the same lock, so handler execution time bounds
// the throughput of all concurrent callers. The lock is not reentrant: a
// handler that calls back into the same runtime deadlocks.
package runtime

import (
	"sync"
	"sync/atomic"

	"github.com/rrpc-dev/rrpc-go/registry"
)

// State wraps the registry behind the lock all boundary calls serialize on.
type State struct {
	mu  sync.Mutex
	reg *registry.Registry
}

var (
	initOnce sync.Once
	global   atomic.Pointer[State]
)

// Initialize constructs the process-wide state on first call and returns it.
// Every later call, concurrent or sequential, observes the already
// initialized state and performs no work; existing registrations survive
// repeated calls.
func Initialize() *State {
	initOnce.Do(func() {
		global.Store(&State{reg: registry.New()})
	})
	return global.Load()
}

// Current returns the process-wide state, or false before the first
// Initialize.
func Current() (*State, bool) {
	s := global.Load()
	return s, s != nil
}

// Register binds handler under name, holding the lock for the duration.
// Re-registering a name replaces the previous handler.
func (s *State) Register(name string, handler registry.Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reg.Register(name, handler)
}

// Call resolves and executes the handler registered under method. The lock
// spans lookup through handler execution; the handler must not re-enter the
// runtime.
func (s *State) Call(method string, input []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.Call(method, input)
}

// Locked runs fn while holding the runtime's lock. The boundary uses this to
// keep registry dispatch and result-buffer allocation inside one critical
// section. fn must not re-enter the runtime.
func (s *State) Locked(fn func(reg *registry.Registry)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.reg)
}

// HasMethod reports whether a handler is registered under name.
func (s *State) HasMethod(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.HasMethod(name)
}

// Methods returns all registered names, sorted.
func (s *State) Methods() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.Methods()
}

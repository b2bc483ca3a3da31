package runtime

// The state under test is process-wide, so ordering matters: the
// pre-initialization assertions run first in this file, and everything below
// them may assume an initialized runtime.

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rrpc-dev/rrpc-go/registry"
	"github.com/rrpc-dev/rrpc-go/rpcerror"
)

func TestCurrentBeforeInitialize(t *testing.T) {
	s, ok := Current()
	assert.False(t, ok)
	assert.Nil(t, s)
}

func TestInitializeIdempotent(t *testing.T) {
	s1 := Initialize()
	require.NotNil(t, s1)

	s1.Register("keep", func([]byte) ([]byte, error) { return nil, nil })

	s2 := Initialize()
	assert.Same(t, s1, s2)
	assert.True(t, s2.HasMethod("keep"), "re-initialize must not clear registrations")
}

func TestConcurrentInitialize(t *testing.T) {
	const n = 16
	states := make([]*State, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			states[i] = Initialize()
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		assert.Same(t, states[0], states[i])
	}
}

func TestCurrentAfterInitialize(t *testing.T) {
	s, ok := Current()
	require.True(t, ok)
	assert.Same(t, Initialize(), s)
}

func TestCallDispatches(t *testing.T) {
	s := Initialize()
	s.Register("double", func(input []byte) ([]byte, error) {
		return append(input, input...), nil
	})

	out, err := s.Call("double", []byte("ab"))
	require.NoError(t, err)
	assert.Equal(t, []byte("abab"), out)
}

func TestCallUnknownMethod(t *testing.T) {
	s := Initialize()

	_, err := s.Call("nope", nil)
	kind, ok := rpcerror.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, rpcerror.UnknownMethod, kind)
}

func TestCallSerializesHandlers(t *testing.T) {
	s := Initialize()

	// The counter is deliberately unsynchronized: the runtime's lock is the
	// only thing keeping these increments ordered, and the race detector
	// fails this test if it ever stops doing so.
	count := 0
	s.Register("count", func([]byte) ([]byte, error) {
		count++
		return nil, nil
	})

	const n = 64
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Call("count", nil)
		}()
	}
	wg.Wait()

	assert.Equal(t, n, count)
}

func TestLocked(t *testing.T) {
	s := Initialize()

	var methods []string
	s.Locked(func(reg *registry.Registry) {
		reg.Register("inside", func([]byte) ([]byte, error) { return nil, nil })
		methods = reg.Methods()
	})

	assert.Contains(t, methods, "inside")
	assert.True(t, s.HasMethod("inside"))
}

package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rrpc-dev/rrpc-go/rpcerror"
)

func TestRegisterAndCall(t *testing.T) {
	r := New()
	r.Register("echo", func(input []byte) ([]byte, error) {
		return input, nil
	})

	out, err := r.Call("echo", []byte("test"))
	require.NoError(t, err)
	assert.Equal(t, []byte("test"), out)
}

func TestCallUnknownMethod(t *testing.T) {
	r := New()

	_, err := r.Call("missing", []byte("test"))
	require.Error(t, err)

	kind, ok := rpcerror.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, rpcerror.UnknownMethod, kind)
	assert.Contains(t, err.Error(), "missing")
}

func TestCallRelaysHandlerError(t *testing.T) {
	r := New()
	want := rpcerror.NewNotFound("node 7")
	r.Register("lookup", func(input []byte) ([]byte, error) {
		return nil, want
	})

	_, err := r.Call("lookup", nil)
	assert.Same(t, want, err.(*rpcerror.Error))
}

func TestRegisterOverwrites(t *testing.T) {
	r := New()
	r.Register("m", func([]byte) ([]byte, error) { return []byte("old"), nil })
	r.Register("m", func([]byte) ([]byte, error) { return []byte("new"), nil })

	out, err := r.Call("m", nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), out)
	assert.Len(t, r.Methods(), 1)
}

func TestHasMethod(t *testing.T) {
	r := New()
	r.Register("present", func([]byte) ([]byte, error) { return nil, nil })

	assert.True(t, r.HasMethod("present"))
	assert.False(t, r.HasMethod("absent"))
}

func TestMethodsSorted(t *testing.T) {
	r := New()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		r.Register(name, func([]byte) ([]byte, error) { return nil, nil })
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.Methods())
}

func TestMethodsEmpty(t *testing.T) {
	assert.Empty(t, New().Methods())
}

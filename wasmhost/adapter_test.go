package wasmhost

// The runtime behind the boundary is process-wide, so ordering matters: the
// pre-initialization assertion runs first in this file, and everything below
// it may assume an initialized runtime.

import (
	"context"
	"encoding/binary"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rrpc-dev/rrpc-go/boundary"
	"github.com/rrpc-dev/rrpc-go/runtime"
)

// fakeGuest emulates guest linear memory with a bump allocator, so the call
// path is testable without a compiled wasm module.
type fakeGuest struct {
	mem       []byte
	allocNext uint32
	failAlloc bool
	deallocs  [][2]uint32
}

func newFakeGuest() *fakeGuest {
	return &fakeGuest{mem: make([]byte, 64*1024), allocNext: 4096}
}

func (g *fakeGuest) Read(offset, count uint32) ([]byte, bool) {
	if uint64(offset)+uint64(count) > uint64(len(g.mem)) {
		return nil, false
	}
	return g.mem[offset : offset+count], true
}

func (g *fakeGuest) Write(offset uint32, data []byte) bool {
	if uint64(offset)+uint64(len(data)) > uint64(len(g.mem)) {
		return false
	}
	copy(g.mem[offset:], data)
	return true
}

func (g *fakeGuest) WriteUint32(offset uint32, v uint32) bool {
	if uint64(offset)+4 > uint64(len(g.mem)) {
		return false
	}
	binary.LittleEndian.PutUint32(g.mem[offset:], v)
	return true
}

func (g *fakeGuest) Allocate(ctx context.Context, size uint32) (uint32, error) {
	if g.failAlloc {
		return 0, fmt.Errorf("out of guest memory")
	}
	ptr := g.allocNext
	g.allocNext += size
	return ptr, nil
}

func (g *fakeGuest) Deallocate(ctx context.Context, ptr, size uint32) error {
	g.deallocs = append(g.deallocs, [2]uint32{ptr, size})
	return nil
}

// Guest memory layout used by the tests.
const (
	methodOff = 8
	inputOff  = 512
	outPtrOff = 1024
	outLenOff = 1028
)

func (g *fakeGuest) placeMethod(name string) uint32 {
	copy(g.mem[methodOff:], name)
	g.mem[methodOff+len(name)] = 0
	return methodOff
}

func (g *fakeGuest) placeInput(data []byte) (uint32, uint32) {
	copy(g.mem[inputOff:], data)
	return inputOff, uint32(len(data))
}

func (g *fakeGuest) output(t *testing.T) []byte {
	t.Helper()
	ptr := binary.LittleEndian.Uint32(g.mem[outPtrOff:])
	length := binary.LittleEndian.Uint32(g.mem[outLenOff:])
	out, ok := g.Read(ptr, length)
	require.True(t, ok)
	return slices.Clone(out)
}

func TestCallBeforeInitialize(t *testing.T) {
	g := newFakeGuest()
	method := g.placeMethod("echo")

	status := call(context.Background(), g, defaultAdapterConfig(), method, 0, 0, outPtrOff, outLenOff)
	assert.Equal(t, boundary.StatusNotInitialized, status)
}

func TestValidationPrecedesInitialization(t *testing.T) {
	// All argument checks fire before the runtime is consulted, so they are
	// observable on an uninitialized runtime too.
	g := newFakeGuest()
	ctx := context.Background()
	cfg := defaultAdapterConfig()
	method := g.placeMethod("echo")

	assert.Equal(t, boundary.StatusParseError, call(ctx, g, cfg, 0, 0, 0, outPtrOff, outLenOff), "null method pointer")
	assert.Equal(t, boundary.StatusParseError, call(ctx, g, cfg, method, 0, 5, outPtrOff, outLenOff), "null input pointer with non-zero length")
	assert.Equal(t, boundary.StatusTooLarge, call(ctx, g, cfg, method, inputOff, boundary.MaxInputSize+1, outPtrOff, outLenOff))
	assert.Equal(t, boundary.StatusInternal, call(ctx, g, cfg, method, 0, 0, 0, outLenOff), "null output buffer slot")
	assert.Equal(t, boundary.StatusInternal, call(ctx, g, cfg, method, 0, 0, outPtrOff, 0), "null output length slot")
}

func TestInit(t *testing.T) {
	assert.Equal(t, boundary.StatusSuccess, boundary.Initialize())

	state, ok := runtime.Current()
	require.True(t, ok)
	state.Register("echo", func(input []byte) ([]byte, error) {
		return input, nil
	})
	state.Register("reverse", func(input []byte) ([]byte, error) {
		out := slices.Clone(input)
		slices.Reverse(out)
		return out, nil
	})
}

func TestCallEcho(t *testing.T) {
	g := newFakeGuest()
	method := g.placeMethod("echo")
	inPtr, inLen := g.placeInput([]byte("Hello, rRPC!"))

	status := call(context.Background(), g, defaultAdapterConfig(), method, inPtr, inLen, outPtrOff, outLenOff)
	require.Equal(t, boundary.StatusSuccess, status)
	assert.Equal(t, []byte("Hello, rRPC!"), g.output(t))
}

func TestCallReverse(t *testing.T) {
	g := newFakeGuest()
	method := g.placeMethod("reverse")
	inPtr, inLen := g.placeInput([]byte("abc"))

	status := call(context.Background(), g, defaultAdapterConfig(), method, inPtr, inLen, outPtrOff, outLenOff)
	require.Equal(t, boundary.StatusSuccess, status)
	assert.Equal(t, []byte("cba"), g.output(t))
}

func TestCallEmptyInput(t *testing.T) {
	g := newFakeGuest()
	method := g.placeMethod("echo")

	// A null input pointer is fine when the declared length is zero.
	status := call(context.Background(), g, defaultAdapterConfig(), method, 0, 0, outPtrOff, outLenOff)
	require.Equal(t, boundary.StatusSuccess, status)
	assert.Empty(t, g.output(t))
}

func TestCallUnknownMethod(t *testing.T) {
	g := newFakeGuest()
	method := g.placeMethod("missing")

	status := call(context.Background(), g, defaultAdapterConfig(), method, 0, 0, outPtrOff, outLenOff)
	assert.Equal(t, boundary.StatusUnknownMethod, status)
}

func TestCallInvalidUTF8Method(t *testing.T) {
	g := newFakeGuest()
	copy(g.mem[methodOff:], []byte{0xff, 0xfe, 0x00})

	status := call(context.Background(), g, defaultAdapterConfig(), methodOff, 0, 0, outPtrOff, outLenOff)
	assert.Equal(t, boundary.StatusParseError, status)
}

func TestCallUnterminatedMethod(t *testing.T) {
	g := newFakeGuest()
	cfg := defaultAdapterConfig()
	cfg.MaxMethodNameLen = 4
	copy(g.mem[methodOff:], "echo-but-longer")

	status := call(context.Background(), g, cfg, methodOff, 0, 0, outPtrOff, outLenOff)
	assert.Equal(t, boundary.StatusParseError, status)
}

func TestCallGuestAllocationFailure(t *testing.T) {
	g := newFakeGuest()
	g.failAlloc = true
	method := g.placeMethod("echo")
	inPtr, inLen := g.placeInput([]byte("x"))

	status := call(context.Background(), g, defaultAdapterConfig(), method, inPtr, inLen, outPtrOff, outLenOff)
	assert.Equal(t, boundary.StatusInternal, status)
}

func TestFree(t *testing.T) {
	g := newFakeGuest()

	free(context.Background(), g, 0, 16)
	assert.Empty(t, g.deallocs, "null pointer release is a no-op")

	free(context.Background(), g, 4096, 16)
	assert.Equal(t, [][2]uint32{{4096, 16}}, g.deallocs)
}

func TestDefaultAdapterConfig(t *testing.T) {
	cfg := defaultAdapterConfig()

	if cfg.ModuleName != DefaultModuleName {
		t.Errorf("ModuleName = %q, want %q", cfg.ModuleName, DefaultModuleName)
	}
	if cfg.MaxMethodNameLen != DefaultMaxMethodNameLen {
		t.Errorf("MaxMethodNameLen = %d, want %d", cfg.MaxMethodNameLen, DefaultMaxMethodNameLen)
	}
}

func TestAdapterOptions(t *testing.T) {
	cfg := defaultAdapterConfig()
	WithModuleName("custom_host")(&cfg)
	WithMaxMethodNameLen(64)(&cfg)

	if cfg.ModuleName != "custom_host" {
		t.Errorf("ModuleName = %q, want %q", cfg.ModuleName, "custom_host")
	}
	if cfg.MaxMethodNameLen != 64 {
		t.Errorf("MaxMethodNameLen = %d, want 64", cfg.MaxMethodNameLen)
	}

	WithMaxMethodNameLen(0)(&cfg)
	if cfg.MaxMethodNameLen != 64 {
		t.Errorf("zero MaxMethodNameLen must be ignored, got %d", cfg.MaxMethodNameLen)
	}
}

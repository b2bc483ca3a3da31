package wasmhost

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/rrpc-dev/rrpc-go/boundary"
	"github.com/rrpc-dev/rrpc-go/registry"
	"github.com/rrpc-dev/rrpc-go/runtime"
)

// DefaultModuleName is the host module name guests import from.
const DefaultModuleName = "rrpc_host"

// DefaultMaxMethodNameLen bounds the NUL-terminated method name scan. An
// unterminated name within this many bytes is a parse error.
const DefaultMaxMethodNameLen = 1024

// AdapterConfig holds configuration for the host module.
type AdapterConfig struct {
	// ModuleName is the host module name (default: "rrpc_host").
	ModuleName string

	// MaxMethodNameLen bounds the method-name scan in guest memory.
	MaxMethodNameLen uint32
}

// AdapterOption configures the adapter.
type AdapterOption func(*AdapterConfig)

// WithModuleName sets the host module name.
func WithModuleName(name string) AdapterOption {
	return func(c *AdapterConfig) {
		c.ModuleName = name
	}
}

// WithMaxMethodNameLen sets the method-name scan bound.
func WithMaxMethodNameLen(n uint32) AdapterOption {
	return func(c *AdapterConfig) {
		if n > 0 {
			c.MaxMethodNameLen = n
		}
	}
}

func defaultAdapterConfig() AdapterConfig {
	return AdapterConfig{
		ModuleName:       DefaultModuleName,
		MaxMethodNameLen: DefaultMaxMethodNameLen,
	}
}

// Register instantiates the host module on r, exporting rrpc_init, rrpc_call
// and rrpc_free to guests.
func Register(ctx context.Context, r wazero.Runtime, opts ...AdapterOption) error {
	cfg := defaultAdapterConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	builder := r.NewHostModuleBuilder(cfg.ModuleName)

	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
			stack[0] = statusResult(boundary.Initialize())
		}), nil, []api.ValueType{api.ValueTypeI32}).
		Export("rrpc_init")

	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
			methodPtr := uint32(stack[0])
			inPtr := uint32(stack[1])
			inLen := uint32(stack[2])
			outPtr := uint32(stack[3])
			outLen := uint32(stack[4])
			status := call(ctx, wazeroGuest{mod}, cfg, methodPtr, inPtr, inLen, outPtr, outLen)
			stack[0] = statusResult(status)
		}), []api.ValueType{api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32}, []api.ValueType{api.ValueTypeI32}).
		Export("rrpc_call")

	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
			free(ctx, wazeroGuest{mod}, uint32(stack[0]), uint32(stack[1]))
		}), []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, nil).
		Export("rrpc_free")

	if _, err := builder.Instantiate(ctx); err != nil {
		return fmt.Errorf("instantiate host module %q: %w", cfg.ModuleName, err)
	}
	return nil
}

func statusResult(s boundary.Status) uint64 {
	return uint64(uint32(s))
}

// guest abstracts the slice of the wazero API the call path touches, so the
// validation order is unit-testable without a compiled guest module.
type guest interface {
	Read(offset, count uint32) ([]byte, bool)
	Write(offset uint32, data []byte) bool
	WriteUint32(offset uint32, v uint32) bool
	Allocate(ctx context.Context, size uint32) (uint32, error)
	Deallocate(ctx context.Context, ptr, size uint32) error
}

type wazeroGuest struct {
	mod api.Module
}

func (g wazeroGuest) Read(offset, count uint32) ([]byte, bool) {
	return g.mod.Memory().Read(offset, count)
}

func (g wazeroGuest) Write(offset uint32, data []byte) bool {
	return g.mod.Memory().Write(offset, data)
}

func (g wazeroGuest) WriteUint32(offset uint32, v uint32) bool {
	return g.mod.Memory().WriteUint32Le(offset, v)
}

func (g wazeroGuest) Allocate(ctx context.Context, size uint32) (uint32, error) {
	fn := g.mod.ExportedFunction("allocate")
	if fn == nil {
		return 0, fmt.Errorf("guest module missing 'allocate' export")
	}
	results, err := fn.Call(ctx, uint64(size))
	if err != nil {
		return 0, fmt.Errorf("guest allocate: %w", err)
	}
	return uint32(results[0]), nil
}

func (g wazeroGuest) Deallocate(ctx context.Context, ptr, size uint32) error {
	fn := g.mod.ExportedFunction("deallocate")
	if fn == nil {
		return fmt.Errorf("guest module missing 'deallocate' export")
	}
	if _, err := fn.Call(ctx, uint64(ptr), uint64(size)); err != nil {
		return fmt.Errorf("guest deallocate: %w", err)
	}
	return nil
}

// call runs one boundary invocation against guest memory. The checks run in
// the order foreign callers depend on; see the package comment.
func call(ctx context.Context, g guest, cfg AdapterConfig, methodPtr, inPtr, inLen, outPtr, outLen uint32) boundary.Status {
	if methodPtr == 0 {
		return boundary.StatusParseError
	}
	if inLen > 0 && inPtr == 0 {
		return boundary.StatusParseError
	}
	if inLen > boundary.MaxInputSize {
		return boundary.StatusTooLarge
	}
	if outPtr == 0 || outLen == 0 {
		return boundary.StatusInternal
	}
	state, ok := runtime.Current()
	if !ok {
		return boundary.StatusNotInitialized
	}
	method, ok := readMethodName(g, methodPtr, cfg.MaxMethodNameLen)
	if !ok {
		return boundary.StatusParseError
	}

	var input []byte
	if inLen > 0 {
		input, ok = g.Read(inPtr, inLen)
		if !ok {
			slog.ErrorContext(ctx, "wasmhost: failed to read input from guest memory", "method", method, "len", inLen)
			return boundary.StatusInternal
		}
	}

	status := boundary.StatusInternal
	state.Locked(func(reg *registry.Registry) {
		result, err := reg.Call(method, input)
		if err != nil {
			status = boundary.StatusOf(err)
			return
		}
		ptr, err := g.Allocate(ctx, uint32(len(result)))
		if err != nil {
			slog.ErrorContext(ctx, "wasmhost: guest allocation failed", "method", method, "error", err)
			status = boundary.StatusInternal
			return
		}
		if len(result) > 0 && !g.Write(ptr, result) {
			slog.ErrorContext(ctx, "wasmhost: failed to write result to guest memory", "method", method)
			status = boundary.StatusInternal
			return
		}
		if !g.WriteUint32(outPtr, ptr) || !g.WriteUint32(outLen, uint32(len(result))) {
			slog.ErrorContext(ctx, "wasmhost: failed to write output slots", "method", method)
			status = boundary.StatusInternal
			return
		}
		status = boundary.StatusSuccess
	})
	return status
}

// free releases a transferred buffer through the guest's deallocator. A null
// pointer is a no-op, matching the boundary release contract.
func free(ctx context.Context, g guest, ptr, length uint32) {
	if ptr == 0 {
		return
	}
	if err := g.Deallocate(ctx, ptr, length); err != nil {
		slog.ErrorContext(ctx, "wasmhost: release failed", "error", err)
	}
}

// readMethodName scans a NUL-terminated UTF-8 method name from guest memory.
// Unterminated, unreadable, or non-UTF-8 names fail the scan.
func readMethodName(g guest, ptr, max uint32) (string, bool) {
	name := make([]byte, 0, 32)
	for i := uint32(0); i < max; i++ {
		b, ok := g.Read(ptr+i, 1)
		if !ok {
			return "", false
		}
		if b[0] == 0 {
			if !utf8.Valid(name) {
				return "", false
			}
			return string(name), true
		}
		name = append(name, b[0])
	}
	return "", false
}

// Package wasmhost exposes the boundary to WebAssembly guests through the
// wazero runtime.
//
// The native build of the original surface is a C export table; the wazero
// rendering keeps the identical contract. A host module (default name
// "rrpc_host") exports:
//
//	rrpc_init() -> i32
//	rrpc_call(method_ptr, in_ptr, in_len, out_ptr, out_len i32) -> i32
//	rrpc_free(ptr, len i32)
//
// Pointers are guest linear-memory offsets with 0 as null. The method name is
// NUL-terminated UTF-8 in guest memory. On success the result is copied into
// guest memory obtained from the guest's exported "allocate" function, and
// its offset and length are written little-endian into the two output slots;
// rrpc_free releases that memory through the guest's exported "deallocate",
// so the two sides of the handoff always use the same allocator pair.
//
// Validation order and status codes match the boundary package exactly,
// including the check the Go-level surface cannot express: a null input
// pointer with a non-zero declared length is a parse error.
//
// # Usage
//
//	r := wazero.NewRuntime(ctx)
//	err := wasmhost.Register(ctx, r, wasmhost.WithModuleName("rrpc_host"))
package wasmhost

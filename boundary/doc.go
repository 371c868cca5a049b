// Package boundary exposes handle-backed values to callers that can only
// pass integers: a foreign function interface, a WebAssembly guest, or a
// scripting bridge.
//
// Every entry point takes and returns plain addresses (uint64), indexes and
// element values. None of them return errors. A call on a null, empty,
// stale or mistyped address returns the zero value for its result type and
// records the failure on the boundary's zap logger:
//
//	null_pointer, no_value   -> warn
//	everything else          -> error
//
// Element access with an index out of range is a programming error and
// panics, as it does on buffer.Buffer.
//
// Foreign memory is reached through a valuebox.Memory supplied per call, so
// the same Boundary can serve native callers (valuebox.NativeMemory) and
// WebAssembly guests (wasmhost) at once.
//
// Buffer entry points are grouped per element type:
//
//	b := boundary.New(boundary.DefaultOptions())
//	u8 := b.U8()
//	addr := u8.CreateWith(0, 16)
//	u8.Set(addr, 0, 0xFF)
//	b.ARGBToRGBA(addr)
//	u8.Drop(addr)
//
// Strings and ranges work the same way through b.Strings() and b.Ranges().
package boundary

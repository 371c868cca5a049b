// Package valuebox lets a Go library hand out opaque handles to values it owns,
// so that a caller on the other side of an untyped boundary (cgo, a
// WebAssembly guest) can hold, pass around and relinquish them without seeing
// their representation.
//
// # Architecture Overview
//
//	valuebox/         Root package with the foreign Memory interface
//	├── errors/       Structured error kinds shared by every layer
//	├── handle/       Handle table and scoped box access (borrow/take/release)
//	├── buffer/       Owned or borrowed contiguous element buffers
//	├── pixel/        In-place, chunked pixel format conversion
//	├── text/         Strings with char/byte/UTF-16 coordinate mapping
//	├── boundary/     Address-based entry points with sentinel returns
//	├── wasmhost/     The boundary exported as a WebAssembly host module
//	└── cmd/valuebox/ CLI: run guests, convert pixel files, inspect leaks
//
// # Quick Start
//
// Expose buffers to a WebAssembly guest:
//
//	b := boundary.New(boundary.DefaultOptions())
//	defer b.Close()
//
//	rt := wazero.NewRuntime(ctx)
//	defer rt.Close(ctx)
//
//	if _, err := wasmhost.Build(ctx, rt, b); err != nil {
//	    log.Fatal(err)
//	}
//	// instantiate a guest that imports "valuebox"
//
// Or drive the same surface from Go:
//
//	u8 := b.U8()
//	addr := u8.CreateWith(0, 4)
//	u8.Set(addr, 0, 0xFF)
//	b.ARGBToRGBA(addr)
//	u8.Drop(addr)
//
// # Ownership Model
//
// Every handle is owned by exactly one caller between creation and release.
// The library never destroys a handle implicitly: a handle that is never
// released leaks. Boundary entry points never panic on bad addresses; they
// return a zero value and log the failure. Out-of-bounds element access is a
// programming error and panics.
//
// # Thread Safety
//
// The handle table is safe for concurrent use, a single handle is not. Only
// pixel conversion runs in parallel internally, and it joins all workers
// before returning.
package valuebox

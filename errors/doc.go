// Package errors provides structured error types for the valuebox library.
//
// Errors are categorized by Phase (which layer raised them) and Kind (what went
// wrong). The kinds mirror the failure modes of handle access across an untyped
// boundary: a null address, an emptied handle, a destination that is too small,
// an I/O failure, or an opaque wrapped failure. A few additional kinds cover
// stale addresses, type confusion and misaligned foreign memory.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseHandle, errors.KindNoValue).
//		Address(addr).
//		TypeName("buffer.Buffer[uint8]").
//		Detail("value was taken").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NullPointer(errors.PhaseHandle, "text.Value")
//	err := errors.SizeMismatch(errors.PhaseBuffer, 10, 5)
//
// The package sentinels match on kind alone, so callers can test any layer's
// error with the standard library:
//
//	if stderrors.Is(err, errors.ErrNoValue) { ... }
package errors

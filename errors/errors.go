package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Phase indicates which layer raised the error
type Phase string

const (
	PhaseHandle    Phase = "handle"    // handle table and box access
	PhaseBuffer    Phase = "buffer"    // buffer construction and copies
	PhaseTransform Phase = "transform" // bulk pixel conversion
	PhaseString    Phase = "string"    // string construction and indexing
	PhaseBoundary  Phase = "boundary"  // address-based entry points
	PhaseHost      Phase = "host"      // WebAssembly host module
	PhaseConfig    Phase = "config"    // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindNullPointer  Kind = "null_pointer"
	KindNoValue      Kind = "no_value"
	KindSizeMismatch Kind = "size_mismatch"
	KindIO           Kind = "io"
	KindOther        Kind = "other"
	KindTypeMismatch Kind = "type_mismatch"
	KindStaleHandle  Kind = "stale_handle"
	KindOutOfBounds  Kind = "out_of_bounds"
	KindMisaligned   Kind = "misaligned"
	KindInvalidInput Kind = "invalid_input"
)

// Sentinels for kind-only matching with errors.Is.
var (
	ErrNullPointer  = &Error{Kind: KindNullPointer}
	ErrNoValue      = &Error{Kind: KindNoValue}
	ErrSizeMismatch = &Error{Kind: KindSizeMismatch}
	ErrTypeMismatch = &Error{Kind: KindTypeMismatch}
	ErrStaleHandle  = &Error{Kind: KindStaleHandle}
	ErrOutOfBounds  = &Error{Kind: KindOutOfBounds}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	TypeName string
	Detail   string
	Address  uint64
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Address != 0 {
		fmt.Fprintf(&b, " at %#x", e.Address)
	}

	if e.TypeName != "" {
		b.WriteString(": type ")
		b.WriteString(e.TypeName)
	}

	if e.Detail != "" {
		if e.TypeName != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target without a phase matches on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// KindOf returns the kind of the first *Error in err's chain.
// Errors from outside the module are reported as KindOther.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindOther
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Address sets the handle address the error refers to
func (b *Builder) Address(addr uint64) *Builder {
	b.err.Address = addr
	return b
}

// TypeName sets the Go type name of the boxed value
func (b *Builder) TypeName(t string) *Builder {
	b.err.TypeName = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string) *Builder {
	b.err.Detail = msg
	return b
}

// Detailf sets a formatted detail message
func (b *Builder) Detailf(format string, args ...any) *Builder {
	b.err.Detail = fmt.Sprintf(format, args...)
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NullPointer creates an error for a null handle address
func NullPointer(phase Phase, typeName string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindNullPointer,
		TypeName: typeName,
		Detail:   "the pointer to the box is null",
	}
}

// NoValue creates an error for a handle that is populated-but-empty
func NoValue(phase Phase, addr uint64, typeName string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindNoValue,
		Address:  addr,
		TypeName: typeName,
		Detail:   "there is no value in the box",
	}
}

// StaleHandle creates an error for an address whose slot was released or never issued
func StaleHandle(phase Phase, addr uint64) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindStaleHandle,
		Address: addr,
		Detail:  "address does not denote a live handle",
	}
}

// TypeMismatch creates an error for resolving a handle as the wrong type
func TypeMismatch(phase Phase, addr uint64, want, got string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		Address:  addr,
		TypeName: want,
		Detail:   fmt.Sprintf("handle holds %s", got),
	}
}

// SizeMismatch creates an error for a destination that cannot hold the source
func SizeMismatch(phase Phase, srcLen, dstLen int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindSizeMismatch,
		Detail: fmt.Sprintf("the source (len = %d) does not fit into destination (len = %d)", srcLen, dstLen),
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// Misaligned creates an error for foreign memory that cannot be viewed as the element type
func Misaligned(phase Phase, typeName string, offset uintptr, align uintptr) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindMisaligned,
		TypeName: typeName,
		Detail:   fmt.Sprintf("offset %#x is not aligned to %d", offset, align),
		Value:    offset,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// IO wraps an I/O failure
func IO(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIO,
		Detail: detail,
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

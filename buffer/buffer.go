package buffer

import (
	"reflect"
	"unsafe"

	"github.com/wippyai/valuebox/errors"
)

// Buffer is a contiguous sequence of E that either owns its storage or views
// memory owned by someone else. A view is never grown, shrunk or released by
// the buffer; an owned buffer controls its allocation exclusively.
type Buffer[E any] struct {
	data  []E
	owned bool
}

// New returns an empty owned buffer. Its data pointer is non-nil even though
// it has no elements.
func New[E any]() Buffer[E] {
	return Buffer[E]{data: make([]E, 0), owned: true}
}

// FromSlice takes ownership of s, trimming spare capacity.
func FromSlice[E any](s []E) Buffer[E] {
	return Buffer[E]{data: fit(s), owned: true}
}

// Filled returns an owned buffer holding count copies of element.
func Filled[E any](element E, count int) Buffer[E] {
	data := make([]E, count)
	for i := range data {
		data[i] = element
	}
	return Buffer[E]{data: data, owned: true}
}

// FromCopy copies s into a new owned buffer.
func FromCopy[E any](s []E) Buffer[E] {
	data := make([]E, len(s))
	copy(data, s)
	return Buffer[E]{data: data, owned: true}
}

// FromView wraps memory owned by the caller. The caller must keep it alive
// and must not mutate it concurrently with the buffer's users.
func FromView[E any](view []E) Buffer[E] {
	return Buffer[E]{data: view[:len(view):len(view)], owned: false}
}

// FromPointer wraps count elements at ptr as a view. A nil ptr yields an
// empty view with a nil data pointer.
func FromPointer[E any](ptr *E, count int) Buffer[E] {
	if ptr == nil || count <= 0 {
		return Buffer[E]{}
	}
	return FromView(unsafe.Slice(ptr, count))
}

// ViewBytes reinterprets foreign bytes as a view of E. The bytes must be
// aligned for E and hold a whole number of elements.
func ViewBytes[E any](b []byte) (Buffer[E], error) {
	size := unsafe.Sizeof(*new(E))
	align := unsafe.Alignof(*new(E))
	if size == 0 {
		return Buffer[E]{}, errors.InvalidInput(errors.PhaseBuffer, "zero-sized element type")
	}
	if len(b) == 0 {
		return FromView([]E{}), nil
	}
	ptr := unsafe.Pointer(unsafe.SliceData(b))
	if off := uintptr(ptr) % align; off != 0 {
		return Buffer[E]{}, errors.Misaligned(errors.PhaseBuffer, typeName[E](), uintptr(ptr), align)
	}
	if uintptr(len(b))%size != 0 {
		return Buffer[E]{}, errors.New(errors.PhaseBuffer, errors.KindMisaligned).
			TypeName(typeName[E]()).
			Detailf("%d bytes is not a multiple of element size %d", len(b), size).
			Build()
	}
	return FromView(unsafe.Slice((*E)(ptr), uintptr(len(b))/size)), nil
}

// ByteSize returns the number of bytes count elements of E occupy.
func ByteSize[E any](count int) int {
	return int(unsafe.Sizeof(*new(E))) * count
}

func fit[E any](s []E) []E {
	if s == nil {
		return make([]E, 0)
	}
	if cap(s) != len(s) {
		out := make([]E, len(s))
		copy(out, s)
		return out
	}
	return s
}

func typeName[E any]() string {
	return reflect.TypeFor[E]().String()
}

// Set replaces the contents with s, taking ownership of it.
func (b *Buffer[E]) Set(s []E) {
	b.data = fit(s)
	b.owned = true
}

// SetCopy replaces the contents with a copy of s.
func (b *Buffer[E]) SetCopy(s []E) {
	data := make([]E, len(s))
	copy(data, s)
	b.Set(data)
}

// SetView replaces the contents with a view of caller memory.
func (b *Buffer[E]) SetView(view []E) {
	b.data = view[:len(view):len(view)]
	b.owned = false
}

// Len returns the number of elements.
func (b *Buffer[E]) Len() int {
	return len(b.data)
}

// Cap returns the number of allocated elements. Views report their length.
func (b *Buffer[E]) Cap() int {
	return cap(b.data)
}

// Owned reports whether the buffer controls its storage.
func (b *Buffer[E]) Owned() bool {
	return b.owned
}

// Data returns the address of the first element, or nil once the storage
// has been handed over or dropped.
func (b *Buffer[E]) Data() unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(b.data))
}

// Slice returns the live elements. The slice aliases the buffer.
func (b *Buffer[E]) Slice() []E {
	return b.data
}

// At returns the element at index. It panics if index is out of range.
func (b *Buffer[E]) At(index int) E {
	b.check(index)
	return b.data[index]
}

// Put stores value at index. It panics if index is out of range.
func (b *Buffer[E]) Put(index int, value E) {
	b.check(index)
	b.data[index] = value
}

func (b *Buffer[E]) check(index int) {
	if index < 0 || index >= len(b.data) {
		panic(errors.OutOfBounds(errors.PhaseBuffer, index, len(b.data)))
	}
}

// CopyInto copies all elements into the start of dst.
// The buffers must not overlap.
func (b *Buffer[E]) CopyInto(dst *Buffer[E]) error {
	if b.data == nil {
		return errors.New(errors.PhaseBuffer, errors.KindNullPointer).
			TypeName(typeName[E]()).Detail("the source data must not be nil").Build()
	}
	if dst.data == nil {
		return errors.New(errors.PhaseBuffer, errors.KindNullPointer).
			TypeName(typeName[E]()).Detail("the destination data must not be nil").Build()
	}
	if len(b.data) > len(dst.data) {
		return errors.SizeMismatch(errors.PhaseBuffer, len(b.data), len(dst.data))
	}
	copy(dst.data, b.data)
	return nil
}

// CopyIntoSlice copies all elements into the start of dst.
func (b *Buffer[E]) CopyIntoSlice(dst []E) error {
	if b.data == nil {
		return errors.New(errors.PhaseBuffer, errors.KindNullPointer).
			TypeName(typeName[E]()).Detail("the source data must not be nil").Build()
	}
	if len(b.data) > len(dst) {
		return errors.SizeMismatch(errors.PhaseBuffer, len(b.data), len(dst))
	}
	copy(dst, b.data)
	return nil
}

// CopyIntoRaw copies all elements to dst, which the caller asserts holds
// length elements.
func (b *Buffer[E]) CopyIntoRaw(dst unsafe.Pointer, length int) error {
	if dst == nil {
		return errors.New(errors.PhaseBuffer, errors.KindNullPointer).
			TypeName(typeName[E]()).Detail("the destination data must not be nil").Build()
	}
	if len(b.data) > length {
		return errors.SizeMismatch(errors.PhaseBuffer, len(b.data), length)
	}
	return b.CopyIntoSlice(unsafe.Slice((*E)(dst), length))
}

// IntoSlice hands the contents over as a slice. An owned buffer gives up its
// storage and is left empty and unowned; a view is copied and left intact.
func (b *Buffer[E]) IntoSlice() []E {
	if !b.owned {
		out := make([]E, len(b.data))
		copy(out, b.data)
		return out
	}
	out := b.data
	b.data = nil
	b.owned = false
	return out
}

// Clone returns an owned copy, whether b owns its storage or not.
func (b *Buffer[E]) Clone() Buffer[E] {
	return FromCopy(b.data)
}

// Drop releases owned storage, scrubbing it first. Views only forget the
// foreign memory.
func (b *Buffer[E]) Drop() {
	if b.owned {
		clear(b.data)
	}
	b.data = nil
	b.owned = false
}

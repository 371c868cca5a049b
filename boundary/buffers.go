package boundary

import (
	"unsafe"

	"github.com/wippyai/valuebox"
	"github.com/wippyai/valuebox/buffer"
	"github.com/wippyai/valuebox/errors"
	"github.com/wippyai/valuebox/handle"
)

// Buffers is the boundary surface for handles holding a buffer.Buffer[E].
// One instance exists per element type.
type Buffers[E any] struct {
	b    *Boundary
	name string
}

func newBuffers[E any](b *Boundary, name string) *Buffers[E] {
	return &Buffers[E]{b: b, name: name}
}

// Name returns the element type name used in operation names.
func (s *Buffers[E]) Name() string {
	return s.name
}

func (s *Buffers[E]) op(name string) string {
	return s.name + "_buffer_" + name
}

func (s *Buffers[E]) with(op string, addr uint64, fn func(*buffer.Buffer[E])) bool {
	_, err := handle.With(s.b.table, handle.Address(addr), func(buf *buffer.Buffer[E]) struct{} {
		fn(buf)
		return struct{}{}
	})
	if err != nil {
		s.b.fail(s.op(op), addr, err)
		return false
	}
	return true
}

// Create returns a handle to an empty owned buffer.
func (s *Buffers[E]) Create() uint64 {
	return uint64(handle.New(s.b.table, buffer.New[E]()))
}

// CreateWith returns a handle to an owned buffer of count copies of value.
func (s *Buffers[E]) CreateWith(value E, count int) uint64 {
	if count < 0 {
		s.b.fail(s.op("create_with"), 0, errors.InvalidInput(errors.PhaseBoundary, "negative element count"))
		return 0
	}
	return uint64(handle.New(s.b.table, buffer.Filled(value, count)))
}

// CreateFromSlice returns a handle to an owned buffer that takes over data.
func (s *Buffers[E]) CreateFromSlice(data []E) uint64 {
	return uint64(handle.New(s.b.table, buffer.FromSlice(data)))
}

// CreateFromView returns a handle to a view of count elements at ptr in mem.
// The memory stays owned by the caller and is never freed by the handle.
func (s *Buffers[E]) CreateFromView(mem valuebox.Memory, ptr uint64, count int) uint64 {
	view, err := s.view(mem, ptr, count)
	if err != nil {
		s.b.fail(s.op("create_from_view"), ptr, err)
		return 0
	}
	return uint64(handle.New(s.b.table, view))
}

func (s *Buffers[E]) view(mem valuebox.Memory, ptr uint64, count int) (buffer.Buffer[E], error) {
	if ptr == 0 {
		return buffer.Buffer[E]{}, errors.NullPointer(errors.PhaseBoundary, s.name)
	}
	if count < 0 {
		return buffer.Buffer[E]{}, errors.InvalidInput(errors.PhaseBoundary, "negative element count")
	}
	size := uint64(buffer.ByteSize[E](count))
	raw, ok := mem.Slice(ptr, size)
	if !ok {
		return buffer.Buffer[E]{}, errors.New(errors.PhaseBoundary, errors.KindOutOfBounds).
			Address(ptr).
			TypeName(s.name).
			Detailf("%d bytes are not addressable", size).
			Build()
	}
	return buffer.ViewBytes[E](raw)
}

// Drop releases the buffer handle at addr. Owned storage is scrubbed;
// viewed memory is left alone.
func (s *Buffers[E]) Drop(addr uint64) bool {
	if err := handle.Release[buffer.Buffer[E]](s.b.table, handle.Address(addr)); err != nil {
		s.b.fail(s.op("drop"), addr, err)
		return false
	}
	return true
}

// Len returns the element count, or 0.
func (s *Buffers[E]) Len(addr uint64) int {
	var n int
	s.with("get_length", addr, func(buf *buffer.Buffer[E]) { n = buf.Len() })
	return n
}

// Cap returns the allocated element count, or 0.
func (s *Buffers[E]) Cap(addr uint64) int {
	var n int
	s.with("get_capacity", addr, func(buf *buffer.Buffer[E]) { n = buf.Cap() })
	return n
}

// ByteSize returns the number of bytes count elements occupy, or 0 for a
// negative count.
func (s *Buffers[E]) ByteSize(count int) int {
	if count < 0 {
		s.b.fail(s.op("byte_size"), 0, errors.InvalidInput(errors.PhaseBoundary, "negative element count"))
		return 0
	}
	return buffer.ByteSize[E](count)
}

// Data returns the in-process address of the first element, or nil.
func (s *Buffers[E]) Data(addr uint64) unsafe.Pointer {
	var p unsafe.Pointer
	s.with("get_data", addr, func(buf *buffer.Buffer[E]) { p = buf.Data() })
	return p
}

// DataAddress returns the address of the first element as seen from mem,
// or 0 if the buffer does not live in mem.
func (s *Buffers[E]) DataAddress(mem valuebox.Memory, addr uint64) uint64 {
	p := s.Data(addr)
	if p == nil {
		return 0
	}
	a, ok := mem.Address(p)
	if !ok {
		return 0
	}
	return a
}

// Owned reports whether the buffer at addr owns its storage.
func (s *Buffers[E]) Owned(addr uint64) bool {
	var owned bool
	s.with("is_owned", addr, func(buf *buffer.Buffer[E]) { owned = buf.Owned() })
	return owned
}

// Get returns the element at index, or the zero value if addr does not
// resolve. An index out of range panics.
func (s *Buffers[E]) Get(addr uint64, index int) E {
	var v E
	s.with("get", addr, func(buf *buffer.Buffer[E]) { v = buf.At(index) })
	return v
}

// Set stores value at index. An index out of range panics.
func (s *Buffers[E]) Set(addr uint64, index int, value E) {
	s.with("set", addr, func(buf *buffer.Buffer[E]) { buf.Put(index, value) })
}

// Replace installs data as the new owned content of the buffer at addr.
func (s *Buffers[E]) Replace(addr uint64, data []E) bool {
	return s.with("set_all", addr, func(buf *buffer.Buffer[E]) { buf.Set(data) })
}

// CopyInto copies the buffer at src into the start of the buffer at dst.
func (s *Buffers[E]) CopyInto(src, dst uint64) bool {
	_, err := handle.With2(s.b.table, handle.Address(src), handle.Address(dst),
		func(from, to *buffer.Buffer[E]) (struct{}, error) {
			return struct{}{}, from.CopyInto(to)
		})
	if err != nil {
		s.b.fail(s.op("copy_into"), src, err)
		return false
	}
	return true
}

// CopyIntoRaw copies the buffer at src to length elements at dst in mem.
func (s *Buffers[E]) CopyIntoRaw(mem valuebox.Memory, src uint64, dst uint64, length int) bool {
	_, err := handle.WithErr(s.b.table, handle.Address(src), func(from *buffer.Buffer[E]) (struct{}, error) {
		target, err := s.view(mem, dst, length)
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, from.CopyIntoRaw(target.Data(), target.Len())
	})
	if err != nil {
		s.b.fail(s.op("copy_into_raw"), src, err)
		return false
	}
	return true
}

// Clone returns a handle to an owned copy of the buffer at addr.
func (s *Buffers[E]) Clone(addr uint64) uint64 {
	c, err := handle.Clone[buffer.Buffer[E]](s.b.table, handle.Address(addr))
	if err != nil {
		s.b.fail(s.op("clone"), addr, err)
		return 0
	}
	return uint64(handle.New(s.b.table, c))
}

// Contents returns a copy of the elements at addr, or nil.
func (s *Buffers[E]) Contents(addr uint64) []E {
	var out []E
	s.with("contents", addr, func(buf *buffer.Buffer[E]) {
		c := buf.Clone()
		out = c.IntoSlice()
	})
	return out
}

// Take empties the handle at addr and returns its elements. The handle
// stays valid and must still be dropped.
func (s *Buffers[E]) Take(addr uint64) []E {
	buf, err := handle.Take[buffer.Buffer[E]](s.b.table, handle.Address(addr))
	if err != nil {
		s.b.fail(s.op("take"), addr, err)
		return nil
	}
	return buf.IntoSlice()
}

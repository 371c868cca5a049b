package boundary

import (
	"unsafe"

	"github.com/wippyai/valuebox"
	"github.com/wippyai/valuebox/errors"
	"github.com/wippyai/valuebox/handle"
	"github.com/wippyai/valuebox/text"
)

// Strings is the boundary surface for handles holding a text.Value.
type Strings struct {
	b *Boundary
}

func (s Strings) read(mem valuebox.Memory, ptr uint64, length uint64) ([]byte, error) {
	if ptr == 0 {
		return nil, errors.NullPointer(errors.PhaseBoundary, "string")
	}
	data, ok := mem.Slice(ptr, length)
	if !ok {
		return nil, errors.New(errors.PhaseBoundary, errors.KindOutOfBounds).
			Address(ptr).
			Detailf("%d bytes are not addressable", length).
			Build()
	}
	return data, nil
}

func (s Strings) create(op string, ptr uint64, v text.Value, err error) uint64 {
	if err != nil {
		s.b.fail(op, ptr, err)
		return 0
	}
	return uint64(handle.New(s.b.table, v))
}

// CreateFromString returns a handle to a copy of str.
func (s Strings) CreateFromString(str string) uint64 {
	return uint64(handle.New(s.b.table, text.FromString(str)))
}

// CreateFromBytes copies length bytes at ptr, one code point per byte.
func (s Strings) CreateFromBytes(mem valuebox.Memory, ptr uint64, length int) uint64 {
	const op = "string_create_from_bytes"
	if length < 0 {
		return s.create(op, ptr, text.Value{}, errors.InvalidInput(errors.PhaseBoundary, "negative length"))
	}
	data, err := s.read(mem, ptr, uint64(length))
	if err != nil {
		return s.create(op, ptr, text.Value{}, err)
	}
	return s.create(op, ptr, text.FromBytes(data), nil)
}

// CreateFromWide copies count little-endian 32-bit code points at ptr.
func (s Strings) CreateFromWide(mem valuebox.Memory, ptr uint64, count int) uint64 {
	const op = "string_create_from_wide"
	if count < 0 {
		return s.create(op, ptr, text.Value{}, errors.InvalidInput(errors.PhaseBoundary, "negative length"))
	}
	data, err := s.read(mem, ptr, uint64(count)*4)
	if err != nil {
		return s.create(op, ptr, text.Value{}, err)
	}
	v, err := text.FromWideBytes(data)
	return s.create(op, ptr, v, err)
}

// CreateFromUTF8NulTerminated copies length bytes of UTF-8 at ptr. The byte
// at ptr+length must be zero.
func (s Strings) CreateFromUTF8NulTerminated(mem valuebox.Memory, ptr uint64, length int) uint64 {
	const op = "string_create_from_utf8_nul_terminated"
	if length < 0 {
		return s.create(op, ptr, text.Value{}, errors.InvalidInput(errors.PhaseBoundary, "negative length"))
	}
	data, err := s.read(mem, ptr, uint64(length)+1)
	if err != nil {
		return s.create(op, ptr, text.Value{}, err)
	}
	v, err := text.FromUTF8NulTerminated(data, length)
	return s.create(op, ptr, v, err)
}

// Drop releases the string handle at addr.
func (s Strings) Drop(addr uint64) bool {
	if err := handle.Release[text.Value](s.b.table, handle.Address(addr)); err != nil {
		s.b.fail("string_drop", addr, err)
		return false
	}
	return true
}

func withString[R any](s Strings, op string, addr uint64, fn func(*text.Value) R) R {
	r, err := handle.With(s.b.table, handle.Address(addr), fn)
	if err != nil {
		s.b.fail(op, addr, err)
	}
	return r
}

// Len returns the UTF-8 length in bytes, or 0.
func (s Strings) Len(addr uint64) int {
	return withString(s, "string_get_length", addr, (*text.Value).Len)
}

// CharCount returns the number of code points, or 0.
func (s Strings) CharCount(addr uint64) int {
	return withString(s, "string_get_char_count", addr, (*text.Value).CharCount)
}

// DataPointer returns the in-process address of the UTF-8 data, or nil.
func (s Strings) DataPointer(addr uint64) unsafe.Pointer {
	return withString(s, "string_get_data_pointer", addr, (*text.Value).Pointer)
}

// DataAddress returns the address of the UTF-8 data as seen from mem, or 0
// if the data does not live in mem.
func (s Strings) DataAddress(mem valuebox.Memory, addr uint64) uint64 {
	p := s.DataPointer(addr)
	if p == nil {
		return 0
	}
	a, ok := mem.Address(p)
	if !ok {
		return 0
	}
	return a
}

// CopyIntoRaw copies the UTF-8 data at addr to dst in mem, which holds
// length bytes. It returns the number of bytes written, or 0.
func (s Strings) CopyIntoRaw(mem valuebox.Memory, addr uint64, dst uint64, length int) int {
	n, err := handle.WithErr(s.b.table, handle.Address(addr), func(v *text.Value) (int, error) {
		if v.Len() > length {
			return 0, errors.SizeMismatch(errors.PhaseBoundary, v.Len(), length)
		}
		if v.Len() == 0 {
			return 0, nil
		}
		target, err := s.read(mem, dst, uint64(v.Len()))
		if err != nil {
			return 0, err
		}
		return copy(target, v.String()), nil
	})
	if err != nil {
		s.b.fail("string_copy_into_raw", addr, err)
		return 0
	}
	return n
}

// Value returns a copy of the text at addr, or "".
func (s Strings) Value(addr uint64) string {
	return withString(s, "string_get_value", addr, (*text.Value).String)
}

// Set replaces the text at addr.
func (s Strings) Set(addr uint64, str string) bool {
	_, err := handle.With(s.b.table, handle.Address(addr), func(v *text.Value) struct{} {
		v.Set(str)
		return struct{}{}
	})
	if err != nil {
		s.b.fail("string_set", addr, err)
		return false
	}
	return true
}

// CharIndexToByteRange stores the byte span of the index-th code point in
// the range handle out.
func (s Strings) CharIndexToByteRange(addr uint64, index int, out uint64) bool {
	return s.query("string_char_index_to_byte_range", addr, out, func(v *text.Value) text.Range {
		return v.CharIndexToByteRange(index)
	})
}

// CharIndexToUTF16Range stores the UTF-16 span of the index-th code point in
// the range handle out.
func (s Strings) CharIndexToUTF16Range(addr uint64, index int, out uint64) bool {
	return s.query("string_char_index_to_utf16_range", addr, out, func(v *text.Value) text.Range {
		return v.CharIndexToUTF16Range(index)
	})
}

func (s Strings) query(op string, addr, out uint64, fn func(*text.Value) text.Range) bool {
	_, err := handle.With2(s.b.table, handle.Address(addr), handle.Address(out),
		func(v *text.Value, r *text.Range) (struct{}, error) {
			*r = fn(v)
			return struct{}{}, nil
		})
	if err != nil {
		s.b.fail(op, addr, err)
		return false
	}
	return true
}

// UTF16PositionToCharIndex returns the index of the first code point at or
// past UTF-16 offset pos, or 0 if addr does not resolve.
func (s Strings) UTF16PositionToCharIndex(addr uint64, pos int) int {
	return withString(s, "string_utf16_position_to_char_index", addr, func(v *text.Value) int {
		return v.UTF16PositionToCharIndex(pos)
	})
}

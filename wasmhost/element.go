package wasmhost

import (
	"math"

	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"
)

// Element describes how one buffer element crosses the host boundary.
type Element struct {
	Type  wit.Type
	Name  string
	Size  uint32
	Align uint32
	Core  api.ValueType
}

// elementOf derives the canonical ABI layout and flat core type of a
// primitive WIT type.
func elementOf(t wit.Type) Element {
	switch t.(type) {
	case wit.U8:
		return Element{Type: t, Name: "u8", Size: 1, Align: 1, Core: api.ValueTypeI32}
	case wit.U32:
		return Element{Type: t, Name: "u32", Size: 4, Align: 4, Core: api.ValueTypeI32}
	case wit.F32:
		return Element{Type: t, Name: "f32", Size: 4, Align: 4, Core: api.ValueTypeF32}
	default:
		panic("wasmhost: unsupported element type")
	}
}

// codec moves values of E through a uint64 stack slot.
type codec[E any] struct {
	encode func(E) uint64
	decode func(uint64) E
	elem   Element
}

var (
	u8Codec = codec[uint8]{
		elem:   elementOf(wit.U8{}),
		encode: func(v uint8) uint64 { return api.EncodeU32(uint32(v)) },
		decode: func(s uint64) uint8 { return uint8(api.DecodeU32(s)) },
	}
	u32Codec = codec[uint32]{
		elem:   elementOf(wit.U32{}),
		encode: api.EncodeU32,
		decode: api.DecodeU32,
	}
	f32Codec = codec[float32]{
		elem:   elementOf(wit.F32{}),
		encode: api.EncodeF32,
		decode: api.DecodeF32,
	}
)

// Elements lists the element types with buffer functions.
func Elements() []Element {
	return []Element{u8Codec.elem, u32Codec.elem, f32Codec.elem}
}

// lengthResult clamps a Go length into an i32 result.
func lengthResult(n int) uint64 {
	if n > math.MaxInt32 {
		n = math.MaxInt32
	}
	return api.EncodeU32(uint32(n))
}

func boolResult(ok bool) uint64 {
	if ok {
		return 1
	}
	return 0
}

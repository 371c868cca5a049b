package wasmhost

import (
	"context"
	"fmt"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/valuebox/boundary"
	"github.com/wippyai/valuebox/errors"
	"github.com/wippyai/valuebox/pixel"
)

// ModuleName is the import module guests use for the boundary functions.
const ModuleName = "valuebox"

const (
	i32 = api.ValueTypeI32
	i64 = api.ValueTypeI64
)

// Signature is the core WebAssembly type of an exported host function.
type Signature struct {
	Name    string
	Params  []api.ValueType
	Results []api.ValueType
}

func (s Signature) String() string {
	return fmt.Sprintf("%s(%s) -> (%s)", s.Name, typeNames(s.Params), typeNames(s.Results))
}

func typeNames(types []api.ValueType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = api.ValueTypeName(t)
	}
	return strings.Join(names, ", ")
}

type hostFunc struct {
	handler api.GoModuleFunc
	Signature
}

func fn(name string, params, results []api.ValueType, handler api.GoModuleFunc) hostFunc {
	return hostFunc{Signature: Signature{Name: name, Params: params, Results: results}, handler: handler}
}

// Build instantiates the host module in rt. Guest modules instantiated
// afterwards can import the functions listed by Functions from ModuleName.
func Build(ctx context.Context, rt wazero.Runtime, b *boundary.Boundary) (api.Module, error) {
	funcs := hostFuncs(b)

	builder := rt.NewHostModuleBuilder(ModuleName)
	for _, f := range funcs {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(f.handler, f.Params, f.Results).
			Export(f.Name)
	}

	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseHost, errors.KindOther, err, "instantiate host module "+ModuleName)
	}
	Logger().Debug("host module instantiated",
		zap.String("module", ModuleName),
		zap.Int("functions", len(funcs)))
	return mod, nil
}

// Functions lists the exported host functions in export order.
func Functions() []Signature {
	funcs := hostFuncs(nil)
	sigs := make([]Signature, len(funcs))
	for i, f := range funcs {
		sigs[i] = f.Signature
	}
	return sigs
}

func hostFuncs(b *boundary.Boundary) []hostFunc {
	var funcs []hostFunc
	funcs = append(funcs, handleFuncs(b)...)
	funcs = append(funcs, bufferFuncs(b, u8Codec, (*boundary.Boundary).U8)...)
	funcs = append(funcs, bufferFuncs(b, u32Codec, (*boundary.Boundary).U32)...)
	funcs = append(funcs, bufferFuncs(b, f32Codec, (*boundary.Boundary).F32)...)
	funcs = append(funcs, pixelFuncs(b)...)
	funcs = append(funcs, stringFuncs(b)...)
	funcs = append(funcs, rangeFuncs(b)...)
	return funcs
}

func handleFuncs(b *boundary.Boundary) []hostFunc {
	return []hostFunc{
		fn("is_valid", []api.ValueType{i64}, []api.ValueType{i32},
			func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = boolResult(b.IsValid(stack[0]))
			}),
		fn("release", []api.ValueType{i64}, []api.ValueType{i32},
			func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = boolResult(b.Release(stack[0]))
			}),
		fn("live_count", nil, []api.ValueType{i32},
			func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = lengthResult(b.Table().Len())
			}),
	}
}

func bufferFuncs[E any](b *boundary.Boundary, c codec[E], pick func(*boundary.Boundary) *boundary.Buffers[E]) []hostFunc {
	prefix := c.elem.Name + "_buffer_"
	value := c.elem.Core
	buffers := func() *boundary.Buffers[E] { return pick(b) }

	return []hostFunc{
		fn(prefix+"create", nil, []api.ValueType{i64},
			func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = buffers().Create()
			}),
		fn(prefix+"create_with", []api.ValueType{value, i32}, []api.ValueType{i64},
			func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = buffers().CreateWith(c.decode(stack[0]), int(api.DecodeU32(stack[1])))
			}),
		fn(prefix+"create_from_view", []api.ValueType{i32, i32}, []api.ValueType{i64},
			func(_ context.Context, mod api.Module, stack []uint64) {
				ptr, count := uint64(api.DecodeU32(stack[0])), int(api.DecodeU32(stack[1]))
				stack[0] = buffers().CreateFromView(callerMemory(mod), ptr, count)
			}),
		fn(prefix+"drop", []api.ValueType{i64}, []api.ValueType{i32},
			func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = boolResult(buffers().Drop(stack[0]))
			}),
		fn(prefix+"get_length", []api.ValueType{i64}, []api.ValueType{i32},
			func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = lengthResult(buffers().Len(stack[0]))
			}),
		fn(prefix+"get_capacity", []api.ValueType{i64}, []api.ValueType{i32},
			func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = lengthResult(buffers().Cap(stack[0]))
			}),
		fn(prefix+"byte_size", []api.ValueType{i32}, []api.ValueType{i32},
			func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = lengthResult(buffers().ByteSize(int(int32(api.DecodeU32(stack[0])))))
			}),
		fn(prefix+"get_data", []api.ValueType{i64}, []api.ValueType{i32},
			func(_ context.Context, mod api.Module, stack []uint64) {
				stack[0] = buffers().DataAddress(callerMemory(mod), stack[0])
			}),
		fn(prefix+"get", []api.ValueType{i64, i32}, []api.ValueType{value},
			func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = c.encode(buffers().Get(stack[0], int(api.DecodeU32(stack[1]))))
			}),
		fn(prefix+"set", []api.ValueType{i64, i32, value}, nil,
			func(_ context.Context, _ api.Module, stack []uint64) {
				buffers().Set(stack[0], int(api.DecodeU32(stack[1])), c.decode(stack[2]))
			}),
		fn(prefix+"copy_into", []api.ValueType{i64, i64}, []api.ValueType{i32},
			func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = boolResult(buffers().CopyInto(stack[0], stack[1]))
			}),
		fn(prefix+"copy_into_raw", []api.ValueType{i64, i32, i32}, []api.ValueType{i32},
			func(_ context.Context, mod api.Module, stack []uint64) {
				dst, length := uint64(api.DecodeU32(stack[1])), int(api.DecodeU32(stack[2]))
				stack[0] = boolResult(buffers().CopyIntoRaw(callerMemory(mod), stack[0], dst, length))
			}),
		fn(prefix+"clone", []api.ValueType{i64}, []api.ValueType{i64},
			func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = buffers().Clone(stack[0])
			}),
	}
}

func pixelFuncs(b *boundary.Boundary) []hostFunc {
	funcs := make([]hostFunc, 0, len(pixel.Formats()))
	for _, format := range pixel.Formats() {
		name := "u8_buffer_" + strings.ReplaceAll(string(format), "-", "_")
		funcs = append(funcs, fn(name, []api.ValueType{i64}, []api.ValueType{i32},
			func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = boolResult(b.ConvertPixels(stack[0], format))
			}))
	}
	return funcs
}

func stringFuncs(b *boundary.Boundary) []hostFunc {
	create := func(name string, build func(boundary.Strings, *GuestMemory, uint64, int) uint64) hostFunc {
		return fn(name, []api.ValueType{i32, i32}, []api.ValueType{i64},
			func(_ context.Context, mod api.Module, stack []uint64) {
				ptr, n := uint64(api.DecodeU32(stack[0])), int(api.DecodeU32(stack[1]))
				stack[0] = build(b.Strings(), callerMemory(mod), ptr, n)
			})
	}
	query := func(name string, run func(boundary.Strings, uint64) int) hostFunc {
		return fn(name, []api.ValueType{i64}, []api.ValueType{i32},
			func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = lengthResult(run(b.Strings(), stack[0]))
			})
	}
	span := func(name string, run func(boundary.Strings, uint64, int, uint64) bool) hostFunc {
		return fn(name, []api.ValueType{i64, i32, i64}, []api.ValueType{i32},
			func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = boolResult(run(b.Strings(), stack[0], int(api.DecodeU32(stack[1])), stack[2]))
			})
	}

	return []hostFunc{
		create("string_create_from_bytes", func(s boundary.Strings, m *GuestMemory, p uint64, n int) uint64 {
			return s.CreateFromBytes(m, p, n)
		}),
		create("string_create_from_wide", func(s boundary.Strings, m *GuestMemory, p uint64, n int) uint64 {
			return s.CreateFromWide(m, p, n)
		}),
		create("string_create_from_utf8_nul_terminated", func(s boundary.Strings, m *GuestMemory, p uint64, n int) uint64 {
			return s.CreateFromUTF8NulTerminated(m, p, n)
		}),
		fn("string_drop", []api.ValueType{i64}, []api.ValueType{i32},
			func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = boolResult(b.Strings().Drop(stack[0]))
			}),
		query("string_get_length", boundary.Strings.Len),
		query("string_get_char_count", boundary.Strings.CharCount),
		fn("string_get_data_pointer", []api.ValueType{i64}, []api.ValueType{i32},
			func(_ context.Context, mod api.Module, stack []uint64) {
				stack[0] = b.Strings().DataAddress(callerMemory(mod), stack[0])
			}),
		fn("string_copy_into_raw", []api.ValueType{i64, i32, i32}, []api.ValueType{i32},
			func(_ context.Context, mod api.Module, stack []uint64) {
				dst, length := uint64(api.DecodeU32(stack[1])), int(api.DecodeU32(stack[2]))
				stack[0] = lengthResult(b.Strings().CopyIntoRaw(callerMemory(mod), stack[0], dst, length))
			}),
		span("string_char_index_to_byte_range", boundary.Strings.CharIndexToByteRange),
		span("string_char_index_to_utf16_range", boundary.Strings.CharIndexToUTF16Range),
		fn("string_utf16_position_to_char_index", []api.ValueType{i64, i32}, []api.ValueType{i32},
			func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = lengthResult(b.Strings().UTF16PositionToCharIndex(stack[0], int(api.DecodeU32(stack[1]))))
			}),
	}
}

func rangeFuncs(b *boundary.Boundary) []hostFunc {
	set := func(name string, run func(boundary.Ranges, uint64, int) bool) hostFunc {
		return fn(name, []api.ValueType{i64, i32}, []api.ValueType{i32},
			func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = boolResult(run(b.Ranges(), stack[0], int(api.DecodeU32(stack[1]))))
			})
	}
	get := func(name string, run func(boundary.Ranges, uint64) int) hostFunc {
		return fn(name, []api.ValueType{i64}, []api.ValueType{i32},
			func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = lengthResult(run(b.Ranges(), stack[0]))
			})
	}

	return []hostFunc{
		fn("range_create", []api.ValueType{i32, i32}, []api.ValueType{i64},
			func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = b.Ranges().Create(int(api.DecodeU32(stack[0])), int(api.DecodeU32(stack[1])))
			}),
		fn("range_drop", []api.ValueType{i64}, []api.ValueType{i32},
			func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = boolResult(b.Ranges().Drop(stack[0]))
			}),
		get("range_get_start", boundary.Ranges.Start),
		get("range_get_end", boundary.Ranges.End),
		set("range_set_start", boundary.Ranges.SetStart),
		set("range_set_end", boundary.Ranges.SetEnd),
	}
}

package boundary

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/valuebox"
)

func TestBuffers_CreateAndAccess(t *testing.T) {
	b, logs := newObserved(t)
	u32 := b.U32()

	addr := u32.CreateWith(5, 4)
	require.Equal(t, 4, u32.Len(addr))
	require.GreaterOrEqual(t, u32.Cap(addr), 4)
	require.True(t, u32.Owned(addr))
	require.NotNil(t, u32.Data(addr))

	u32.Set(addr, 2, 42)
	require.Equal(t, uint32(42), u32.Get(addr, 2))
	require.Equal(t, []uint32{5, 5, 42, 5}, u32.Contents(addr))
	require.Empty(t, failures(logs))
}

func TestBuffers_EmptyHasData(t *testing.T) {
	b, _ := newObserved(t)
	f32 := b.F32()

	addr := f32.Create()
	require.Zero(t, f32.Len(addr))
	require.Zero(t, f32.Cap(addr))
	require.NotNil(t, f32.Data(addr), "empty owned buffers keep a placeholder address")
}

func TestBuffers_NullAddressDefaults(t *testing.T) {
	b, logs := newObserved(t)
	u8 := b.U8()

	require.Zero(t, u8.Len(0))
	require.Zero(t, u8.Cap(0))
	require.Nil(t, u8.Data(0))
	require.Zero(t, u8.Get(0, 0))
	u8.Set(0, 0, 1)
	require.False(t, u8.Drop(0))
	require.False(t, u8.CopyInto(0, 0))
	require.Nil(t, u8.Contents(0))

	entries := failures(logs)
	require.Len(t, entries, 8)
	for _, e := range entries {
		require.Equal(t, zapcore.WarnLevel, e.Level)
		require.Equal(t, "null_pointer", e.ContextMap()["kind"])
	}
	require.Equal(t, "u8_buffer_get_length", entries[0].ContextMap()["op"])
}

func TestBuffers_OutOfRangePanics(t *testing.T) {
	b, _ := newObserved(t)
	u8 := b.U8()
	addr := u8.CreateWith(0, 2)

	require.Panics(t, func() { u8.Get(addr, 2) })
	require.Panics(t, func() { u8.Set(addr, -1, 0) })
}

func TestBuffers_CopyInto(t *testing.T) {
	b, logs := newObserved(t)
	u8 := b.U8()

	src := u8.CreateFromSlice([]byte{1, 2, 3})
	dst := u8.CreateWith(0, 5)
	require.True(t, u8.CopyInto(src, dst))
	require.Equal(t, []byte{1, 2, 3, 0, 0}, u8.Contents(dst))

	small := u8.CreateWith(9, 2)
	require.False(t, u8.CopyInto(src, small))
	require.Equal(t, []byte{9, 9}, u8.Contents(small), "failed copy must not write")

	entries := failures(logs)
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	require.Equal(t, "size_mismatch", entries[0].ContextMap()["kind"])
}

func TestBuffers_CopyIntoRaw(t *testing.T) {
	b, logs := newObserved(t)
	u32 := b.U32()
	mem := valuebox.NativeMemory{}

	src := u32.CreateFromSlice([]uint32{7, 8})
	target := make([]uint32, 3)

	require.True(t, u32.CopyIntoRaw(mem, src, addressOf(target), len(target)))
	require.Equal(t, []uint32{7, 8, 0}, target)

	require.False(t, u32.CopyIntoRaw(mem, src, addressOf(target), 1))
	require.False(t, u32.CopyIntoRaw(mem, src, 0, 3))
	runtime.KeepAlive(target)

	entries := failures(logs)
	require.Len(t, entries, 2)
	require.Equal(t, "size_mismatch", entries[0].ContextMap()["kind"])
	require.Equal(t, "null_pointer", entries[1].ContextMap()["kind"])
}

func TestBuffers_CreateFromViewNull(t *testing.T) {
	b, logs := newObserved(t)
	require.Zero(t, b.U8().CreateFromView(valuebox.NativeMemory{}, 0, 4))
	require.Len(t, failures(logs), 1)
}

func TestBuffers_Clone(t *testing.T) {
	b, _ := newObserved(t)
	u8 := b.U8()
	canary := []byte{1, 2, 3}

	view := u8.CreateFromView(valuebox.NativeMemory{}, addressOf(canary), len(canary))
	clone := u8.Clone(view)
	require.NotZero(t, clone)
	require.True(t, u8.Owned(clone))

	u8.Set(clone, 0, 50)
	require.Equal(t, byte(1), canary[0], "clone must not alias the view")
	runtime.KeepAlive(canary)
}

func TestBuffers_TakeAndReplace(t *testing.T) {
	b, logs := newObserved(t)
	u8 := b.U8()

	addr := u8.CreateFromSlice([]byte{4, 5})
	require.Equal(t, []byte{4, 5}, u8.Take(addr))
	require.Zero(t, u8.Len(addr))

	entries := failures(logs)
	require.Len(t, entries, 1)
	require.Equal(t, "no_value", entries[0].ContextMap()["kind"])
	require.Equal(t, zapcore.WarnLevel, entries[0].Level)

	require.False(t, u8.Replace(addr, []byte{1}), "Replace edits a populated buffer only")
	require.True(t, u8.Drop(addr), "an emptied handle can still be released")
}

func TestBuffers_ReplaceContents(t *testing.T) {
	b, _ := newObserved(t)
	u8 := b.U8()

	addr := u8.CreateWith(1, 1)
	require.True(t, u8.Replace(addr, []byte{9, 8, 7}))
	require.Equal(t, []byte{9, 8, 7}, u8.Contents(addr))
}

func TestBuffers_TypeMismatch(t *testing.T) {
	b, logs := newObserved(t)
	addr := b.F32().CreateWith(1.5, 2)

	require.Zero(t, b.U32().Len(addr))
	require.False(t, b.U32().Drop(addr))
	require.Equal(t, 2, b.F32().Len(addr), "mistyped drop leaves the handle alive")

	for _, e := range failures(logs) {
		require.Equal(t, "type_mismatch", e.ContextMap()["kind"])
	}
}

func TestBuffers_ByteSize(t *testing.T) {
	b, logs := newObserved(t)

	require.Equal(t, 7, b.U8().ByteSize(7))
	require.Equal(t, 28, b.U32().ByteSize(7))
	require.Equal(t, 28, b.F32().ByteSize(7))
	require.Zero(t, b.F32().ByteSize(0))
	require.Empty(t, failures(logs))

	require.Zero(t, b.U32().ByteSize(-1))
	entries := failures(logs)
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	require.Equal(t, "u32_buffer_byte_size", entries[0].ContextMap()["op"])
	require.Equal(t, "invalid_input", entries[0].ContextMap()["kind"])
}

package boundary

import (
	"encoding/binary"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wippyai/valuebox"
	"github.com/wippyai/valuebox/text"
)

func TestStrings_FromBytes(t *testing.T) {
	b, logs := newObserved(t)
	s := b.Strings()
	data := []byte("hello")

	addr := s.CreateFromBytes(valuebox.NativeMemory{}, addressOf(data), len(data))
	require.NotZero(t, addr)
	require.Equal(t, 5, s.Len(addr))
	require.Equal(t, 5, s.CharCount(addr))
	require.Equal(t, "hello", s.Value(addr))
	require.NotNil(t, s.DataPointer(addr))

	out := b.Ranges().Create(0, 0)
	require.True(t, s.CharIndexToByteRange(addr, 0, out))
	r, ok := b.Ranges().Get(out)
	require.True(t, ok)
	require.Equal(t, text.Range{Start: 0, End: 1}, r)

	require.True(t, s.Drop(addr))
	require.Empty(t, failures(logs))
	runtime.KeepAlive(data)
}

func TestStrings_FromWide(t *testing.T) {
	b, _ := newObserved(t)
	s := b.Strings()

	runes := []uint32{1087, 1088, 1080, 1074, 1077, 1090}
	raw := make([]byte, 4*len(runes))
	for i, r := range runes {
		binary.LittleEndian.PutUint32(raw[i*4:], r)
	}

	addr := s.CreateFromWide(valuebox.NativeMemory{}, addressOf(raw), len(runes))
	require.Equal(t, "привет", s.Value(addr))
	require.Equal(t, 12, s.Len(addr))
	require.Equal(t, 6, s.CharCount(addr))
	runtime.KeepAlive(raw)
}

func TestStrings_FromUTF8NulTerminated(t *testing.T) {
	b, logs := newObserved(t)
	s := b.Strings()
	mem := valuebox.NativeMemory{}

	good := []byte("💖\x00")
	addr := s.CreateFromUTF8NulTerminated(mem, addressOf(good), 4)
	require.Equal(t, 4, s.Len(addr))
	require.Equal(t, 1, s.CharCount(addr))

	bad := []byte("abc!")
	require.Zero(t, s.CreateFromUTF8NulTerminated(mem, addressOf(bad), 3))
	require.Zero(t, s.CreateFromUTF8NulTerminated(mem, 0, 3))
	runtime.KeepAlive(good)
	runtime.KeepAlive(bad)

	entries := failures(logs)
	require.Len(t, entries, 2)
	require.Equal(t, "invalid_input", entries[0].ContextMap()["kind"])
	require.Equal(t, "null_pointer", entries[1].ContextMap()["kind"])
}

func TestStrings_UTF16Queries(t *testing.T) {
	b, _ := newObserved(t)
	s := b.Strings()
	ranges := b.Ranges()

	addr := s.CreateFromString("h💖i")
	out := ranges.Create(0, 0)

	require.True(t, s.CharIndexToUTF16Range(addr, 1, out))
	require.Equal(t, 1, ranges.Start(out))
	require.Equal(t, 3, ranges.End(out))

	require.True(t, s.CharIndexToByteRange(addr, 10, out))
	require.Equal(t, 6, ranges.Start(out))
	require.Equal(t, 6, ranges.End(out))

	require.Equal(t, 2, s.UTF16PositionToCharIndex(addr, 3))
	require.Equal(t, 3, s.UTF16PositionToCharIndex(addr, 4))
}

func TestStrings_QueryFailures(t *testing.T) {
	b, logs := newObserved(t)
	s := b.Strings()
	addr := s.CreateFromString("abc")

	require.False(t, s.CharIndexToByteRange(addr, 0, 0), "null out handle")
	require.False(t, s.CharIndexToByteRange(0, 0, b.Ranges().Create(0, 0)))
	require.False(t, s.CharIndexToUTF16Range(addr, 0, addr), "out handle holds a string")
	require.Zero(t, s.UTF16PositionToCharIndex(0, 1))

	kinds := []string{}
	for _, e := range failures(logs) {
		kinds = append(kinds, e.ContextMap()["kind"].(string))
	}
	require.Equal(t, []string{"null_pointer", "null_pointer", "type_mismatch", "null_pointer"}, kinds)
}

func TestStrings_Set(t *testing.T) {
	b, _ := newObserved(t)
	s := b.Strings()

	addr := s.CreateFromString("old")
	require.True(t, s.Set(addr, "brand new"))
	require.Equal(t, "brand new", s.Value(addr))
	require.False(t, s.Set(0, "x"))
}

func TestRanges(t *testing.T) {
	b, logs := newObserved(t)
	ranges := b.Ranges()

	addr := ranges.Create(2, 4)
	require.Equal(t, 2, ranges.Start(addr))
	require.Equal(t, 4, ranges.End(addr))

	require.True(t, ranges.SetStart(addr, 1))
	require.True(t, ranges.SetEnd(addr, 9))
	r, ok := ranges.Get(addr)
	require.True(t, ok)
	require.Equal(t, text.Range{Start: 1, End: 9}, r)

	require.True(t, ranges.Drop(addr))
	require.Zero(t, ranges.Start(addr))
	require.False(t, ranges.SetEnd(addr, 1))
	require.Len(t, failures(logs), 2)
}

func TestStrings_CopyIntoRaw(t *testing.T) {
	b, logs := newObserved(t)
	s := b.Strings()
	mem := valuebox.NativeMemory{}

	addr := s.CreateFromString("héllo")
	dst := make([]byte, 8)
	require.Equal(t, 6, s.CopyIntoRaw(mem, addr, addressOf(dst), len(dst)))
	require.Equal(t, "héllo", string(dst[:6]))

	require.Zero(t, s.CopyIntoRaw(mem, addr, addressOf(dst), 3))
	runtime.KeepAlive(dst)

	entries := failures(logs)
	require.Len(t, entries, 1)
	require.Equal(t, "size_mismatch", entries[0].ContextMap()["kind"])
}

func TestStrings_DataAddressOutsideMemory(t *testing.T) {
	b, _ := newObserved(t)
	s := b.Strings()
	addr := s.CreateFromString("abc")

	require.NotZero(t, s.DataAddress(valuebox.NativeMemory{}, addr))
	require.Zero(t, s.DataAddress(valuebox.NativeMemory{}, 0))
}

func TestStrings_NegativeLength(t *testing.T) {
	b, logs := newObserved(t)
	s := b.Strings()
	mem := valuebox.NativeMemory{}
	data := []byte("abcd")

	require.Zero(t, s.CreateFromBytes(mem, addressOf(data), -1))
	require.Zero(t, s.CreateFromWide(mem, addressOf(data), -1))
	require.Zero(t, s.CreateFromUTF8NulTerminated(mem, addressOf(data), -1))
	require.Empty(t, b.Live())

	entries := failures(logs)
	require.Len(t, entries, 3)
	for _, e := range entries {
		require.Equal(t, "invalid_input", e.ContextMap()["kind"])
	}
	require.Equal(t, "string_create_from_bytes", entries[0].ContextMap()["op"])
	require.Equal(t, "string_create_from_wide", entries[1].ContextMap()["op"])
	runtime.KeepAlive(data)
}

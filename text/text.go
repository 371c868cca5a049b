package text

import (
	"encoding/binary"
	"fmt"
	"slices"
	"unicode/utf8"
	"unsafe"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"

	"github.com/wippyai/valuebox/errors"
)

// Origin tells which representation a Value was built from.
type Origin uint8

const (
	OriginText Origin = iota
	OriginBytes
	OriginWide
)

func (o Origin) String() string {
	switch o {
	case OriginText:
		return "text"
	case OriginBytes:
		return "bytes"
	case OriginWide:
		return "wide"
	default:
		return fmt.Sprintf("Origin(%d)", o)
	}
}

// Value owns one textual origin and the UTF-8 text decoded from it.
// All indexing queries run over the decoded text.
type Value struct {
	text   string
	bytes  []byte
	wide   []uint32
	origin Origin
}

// FromString builds a Value from Go text. Invalid UTF-8 is replaced.
func FromString(s string) Value {
	return Value{text: decodeUTF8([]byte(s)), origin: OriginText}
}

// FromBytes treats every byte as one code point (ISO 8859-1).
func FromBytes(b []byte) Value {
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		// Latin-1 maps every byte, the decoder cannot fail.
		decoded = []byte(string(utf8.RuneError))
	}
	return Value{
		text:   string(decoded),
		bytes:  slices.Clone(b),
		origin: OriginBytes,
	}
}

// FromUTF8NulTerminated builds a Value from the first length bytes of data,
// which must be followed by a zero byte. Invalid sequences are replaced.
func FromUTF8NulTerminated(data []byte, length int) (Value, error) {
	if length < 0 || length >= len(data) {
		return Value{}, errors.InvalidInput(errors.PhaseString,
			fmt.Sprintf("no terminator after %d bytes (have %d)", length, len(data)))
	}
	if data[length] != 0 {
		return Value{}, errors.InvalidInput(errors.PhaseString,
			fmt.Sprintf("byte %d is 0x%02x, want terminator", length, data[length]))
	}
	return Value{text: decodeUTF8(data[:length]), origin: OriginText}, nil
}

// FromWide builds a Value from 32-bit code points. Surrogates and values
// above U+10FFFF become U+FFFD.
func FromWide(units []uint32) Value {
	buf := make([]byte, 0, len(units))
	for _, u := range units {
		r := rune(u)
		if u > utf8.MaxRune || !utf8.ValidRune(r) {
			r = utf8.RuneError
		}
		buf = utf8.AppendRune(buf, r)
	}
	return Value{
		text:   string(buf),
		wide:   slices.Clone(units),
		origin: OriginWide,
	}
}

// FromWideBytes builds a Value from little-endian UTF-32 bytes.
func FromWideBytes(b []byte) (Value, error) {
	if len(b)%4 != 0 {
		return Value{}, errors.InvalidInput(errors.PhaseString,
			fmt.Sprintf("wide data length %d is not a multiple of 4", len(b)))
	}
	decoded, err := utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM).NewDecoder().Bytes(b)
	if err != nil {
		return Value{}, errors.Wrap(errors.PhaseString, errors.KindInvalidInput, err, "decode wide data")
	}
	units := make([]uint32, len(b)/4)
	for i := range units {
		units[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return Value{text: string(decoded), wide: units, origin: OriginWide}, nil
}

func decodeUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	decoded, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return string(utf8.RuneError)
	}
	return string(decoded)
}

// Set replaces the content with s; the origin becomes text.
func (v *Value) Set(s string) {
	*v = FromString(s)
}

// Origin reports which representation built v.
func (v *Value) Origin() Origin {
	return v.origin
}

// OriginBytes returns the raw bytes v was built from, if any.
func (v *Value) OriginBytes() ([]byte, bool) {
	return v.bytes, v.origin == OriginBytes
}

// OriginWide returns the code points v was built from, if any.
func (v *Value) OriginWide() ([]uint32, bool) {
	return v.wide, v.origin == OriginWide
}

// String returns the decoded text.
func (v *Value) String() string {
	return v.text
}

// Bytes returns a copy of the decoded text.
func (v *Value) Bytes() []byte {
	return []byte(v.text)
}

// Len returns the decoded text length in bytes.
func (v *Value) Len() int {
	return len(v.text)
}

// CharCount returns the number of code points.
func (v *Value) CharCount() int {
	return utf8.RuneCountInString(v.text)
}

// Pointer returns the address of the decoded text, nil when empty.
// It stays valid until v is modified.
func (v *Value) Pointer() unsafe.Pointer {
	if len(v.text) == 0 {
		return nil
	}
	return unsafe.Pointer(unsafe.StringData(v.text))
}

// Clone returns an independent copy of v.
func (v Value) Clone() Value {
	return Value{
		text:   v.text,
		bytes:  slices.Clone(v.bytes),
		wide:   slices.Clone(v.wide),
		origin: v.origin,
	}
}

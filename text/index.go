package text

import (
	"unicode/utf16"
	"unicode/utf8"
)

// Range is a half-open span [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns End - Start, or 0 for an inverted range.
func (r Range) Len() int {
	return max(r.End-r.Start, 0)
}

// Empty reports whether the range covers nothing.
func (r Range) Empty() bool {
	return r.Len() == 0
}

// CharIndexToByteRange returns the byte span of the i-th code point.
// Past the last code point the result is the empty range at the end.
func (v *Value) CharIndexToByteRange(i int) Range {
	pos, n := 0, 0
	for pos < len(v.text) {
		_, size := utf8.DecodeRuneInString(v.text[pos:])
		if n == i {
			return Range{Start: pos, End: pos + size}
		}
		pos += size
		n++
	}
	return Range{Start: len(v.text), End: len(v.text)}
}

// CharIndexToUTF16Range returns the UTF-16 code unit span of the i-th code
// point. Past the last code point the result is the empty range at the end.
func (v *Value) CharIndexToUTF16Range(i int) Range {
	offset, n := 0, 0
	for _, r := range v.text {
		width := utf16Width(r)
		if n == i {
			return Range{Start: offset, End: offset + width}
		}
		offset += width
		n++
	}
	return Range{Start: offset, End: offset}
}

// UTF16PositionToCharIndex returns the index of the first code point whose
// UTF-16 offset is at or past u, or CharCount if there is none.
func (v *Value) UTF16PositionToCharIndex(u int) int {
	offset, n := 0, 0
	for _, r := range v.text {
		if offset >= u {
			return n
		}
		offset += utf16Width(r)
		n++
	}
	return n
}

// UTF16Len returns the text length in UTF-16 code units.
func (v *Value) UTF16Len() int {
	total := 0
	for _, r := range v.text {
		total += utf16Width(r)
	}
	return total
}

func utf16Width(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}

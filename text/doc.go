// Package text holds strings that arrive over the boundary and maps between
// code point indexes, UTF-8 byte offsets and UTF-16 code unit offsets.
//
// A Value is built from one of three origins:
//
//   - raw bytes, one code point per byte (ISO 8859-1)
//   - UTF-8 text, optionally zero-terminated
//   - 32-bit code points, or their little-endian byte encoding
//
// Whatever the origin, the Value keeps a decoded UTF-8 copy and every query
// scans it. Nothing is indexed ahead of time, so each query is O(n).
//
// Example:
//
//	v := text.FromString("h💖i")
//	v.CharIndexToByteRange(1)     // {1 5}
//	v.CharIndexToUTF16Range(1)    // {1 3}
//	v.UTF16PositionToCharIndex(3) // 2
package text

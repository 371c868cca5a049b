// Package pixel converts 32-bit pixel formats in place.
//
// Data is read as little-endian 32-bit words, one per pixel. Small inputs are
// converted on the calling goroutine; inputs above Options.Threshold words are
// split into Options.Chunks contiguous, disjoint ranges that are converted
// concurrently and joined before Convert returns, so callers never observe a
// partially converted buffer. Inputs whose length is not a multiple of four
// bytes are skipped entirely rather than partially converted.
package pixel

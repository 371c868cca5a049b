package pixel

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"golang.org/x/sync/errgroup"

	"github.com/wippyai/valuebox/buffer"
	"github.com/wippyai/valuebox/errors"
)

const (
	// DefaultThreshold is the word count above which conversion runs in parallel.
	DefaultThreshold = 512
	// DefaultChunks is the number of disjoint ranges a parallel conversion uses.
	DefaultChunks = 16

	wordSize = 4
)

// Converter maps one pixel, read as a little-endian 32-bit word.
type Converter func(uint32) uint32

// Options controls when and how conversion is split across workers.
type Options struct {
	// Threshold is the word count above which conversion runs in parallel.
	Threshold int `toml:"threshold"`
	// Chunks is the number of contiguous ranges, each handled by one worker.
	Chunks int `toml:"chunks"`
}

// DefaultOptions returns the conversion defaults.
func DefaultOptions() Options {
	return Options{
		Threshold: DefaultThreshold,
		Chunks:    DefaultChunks,
	}
}

// Validate checks that the options describe a usable split.
func (o Options) Validate() error {
	if o.Threshold < 0 {
		return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("pixel threshold must not be negative, got %d", o.Threshold))
	}
	if o.Chunks < 1 {
		return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("pixel chunks must be at least 1, got %d", o.Chunks))
	}
	return nil
}

// ARGBToRGBA moves alpha from the first byte to the last.
func ARGBToRGBA(argb uint32) uint32 {
	return bits.RotateLeft32(argb, -8)
}

// BGRAToARGB reverses the byte order.
func BGRAToARGB(bgra uint32) uint32 {
	return bits.ReverseBytes32(bgra)
}

// RGBAToARGB moves alpha from the last byte to the first.
func RGBAToARGB(rgba uint32) uint32 {
	return bits.RotateLeft32(rgba, 8)
}

// Convert applies fn in place to every 4-byte pixel of data and reports
// whether it did. Data whose length is not a multiple of 4 is left untouched.
// Above opts.Threshold words the work is split into opts.Chunks disjoint
// ranges converted concurrently; Convert returns after all of them finish.
func Convert(data []byte, fn Converter, opts Options) bool {
	if len(data)%wordSize != 0 {
		return false
	}
	words := len(data) / wordSize
	if words == 0 {
		return true
	}

	chunks := opts.Chunks
	if words <= opts.Threshold || chunks <= 1 {
		convertRange(data, fn)
		return true
	}

	perChunk := words / chunks
	if words%chunks != 0 {
		perChunk++
	}

	var g errgroup.Group
	g.SetLimit(chunks)
	for start := 0; start < words; start += perChunk {
		end := min(start+perChunk, words)
		part := data[start*wordSize : end*wordSize]
		g.Go(func() error {
			convertRange(part, fn)
			return nil
		})
	}
	_ = g.Wait()
	return true
}

func convertRange(data []byte, fn Converter) {
	for i := 0; i+wordSize <= len(data); i += wordSize {
		w := binary.LittleEndian.Uint32(data[i:])
		binary.LittleEndian.PutUint32(data[i:], fn(w))
	}
}

// ConvertBuffer converts the bytes of b in place, see Convert.
func ConvertBuffer(b *buffer.Buffer[byte], fn Converter, opts Options) bool {
	return Convert(b.Slice(), fn, opts)
}

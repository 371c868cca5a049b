package boundary

import (
	"go.uber.org/zap"

	"github.com/wippyai/valuebox/buffer"
	"github.com/wippyai/valuebox/errors"
	"github.com/wippyai/valuebox/handle"
	"github.com/wippyai/valuebox/pixel"
)

// Options configures a Boundary.
type Options struct {
	// Logger receives failed calls and handle lifecycle events.
	// Nil means the package logger.
	Logger *zap.Logger
	Pixel  pixel.Options
}

// DefaultOptions returns the default boundary configuration.
func DefaultOptions() Options {
	return Options{Pixel: pixel.DefaultOptions()}
}

// Boundary exposes handles to a caller that only sees integer addresses.
// No entry point returns an error: failures yield a zero value and are
// logged, NullPointer and NoValue at warn level and everything else at error.
type Boundary struct {
	table  *handle.Table
	log    *zap.Logger
	events *eventLogger
	u8     *Buffers[uint8]
	u32    *Buffers[uint32]
	f32    *Buffers[float32]
	pixel  pixel.Options
}

// New creates a Boundary with its own handle table.
func New(opts Options) *Boundary {
	log := opts.Logger
	if log == nil {
		log = Logger()
	}
	if opts.Pixel == (pixel.Options{}) {
		opts.Pixel = pixel.DefaultOptions()
	}

	b := &Boundary{
		table:  handle.NewTable(),
		log:    log,
		events: &eventLogger{log: log},
		pixel:  opts.Pixel,
	}
	b.u8 = newBuffers[uint8](b, "u8")
	b.u32 = newBuffers[uint32](b, "u32")
	b.f32 = newBuffers[float32](b, "f32")
	b.table.Subscribe(b.events)
	return b
}

// Table returns the handle table backing b.
func (b *Boundary) Table() *handle.Table {
	return b.table
}

// U8 returns the byte buffer entry points.
func (b *Boundary) U8() *Buffers[uint8] {
	return b.u8
}

// U32 returns the 32-bit unsigned buffer entry points.
func (b *Boundary) U32() *Buffers[uint32] {
	return b.u32
}

// F32 returns the 32-bit float buffer entry points.
func (b *Boundary) F32() *Buffers[float32] {
	return b.f32
}

// Strings returns the string entry points.
func (b *Boundary) Strings() Strings {
	return Strings{b: b}
}

// Ranges returns the range entry points.
func (b *Boundary) Ranges() Ranges {
	return Ranges{b: b}
}

// IsValid reports whether addr denotes a live, populated handle of any type.
func (b *Boundary) IsValid(addr uint64) bool {
	return b.table.HasValue(handle.Address(addr))
}

// Pointer returns the in-process address of the value behind addr, or 0.
func (b *Boundary) Pointer(addr uint64) uint64 {
	if _, err := b.table.Describe(handle.Address(addr)); err != nil {
		b.fail("get_raw_address", addr, err)
		return 0
	}
	p := b.table.Pointer(handle.Address(addr))
	if p == 0 {
		b.fail("get_raw_address", addr, errors.NoValue(errors.PhaseBoundary, addr, ""))
	}
	return uint64(p)
}

// Release destroys the handle at addr whatever its type.
func (b *Boundary) Release(addr uint64) bool {
	if err := b.table.Release(handle.Address(addr)); err != nil {
		b.fail("release", addr, err)
		return false
	}
	return true
}

// Live returns a snapshot of every live handle.
func (b *Boundary) Live() []handle.Info {
	infos := make([]handle.Info, 0, b.table.Len())
	b.table.Each(func(info handle.Info) bool {
		infos = append(infos, info)
		return true
	})
	return infos
}

// Close releases every live handle. Calls made afterwards fail.
func (b *Boundary) Close() error {
	n := b.table.Len()
	if n > 0 {
		b.log.Debug("releasing live handles", zap.Int("count", n))
	}
	err := b.table.Close()
	b.table.Unsubscribe(b.events)
	return err
}

// ARGBToRGBA converts the byte buffer at addr in place.
func (b *Boundary) ARGBToRGBA(addr uint64) bool {
	return b.ConvertPixels(addr, pixel.FormatARGBToRGBA)
}

// BGRAToARGB converts the byte buffer at addr in place.
func (b *Boundary) BGRAToARGB(addr uint64) bool {
	return b.ConvertPixels(addr, pixel.FormatBGRAToARGB)
}

// RGBAToARGB converts the byte buffer at addr in place.
func (b *Boundary) RGBAToARGB(addr uint64) bool {
	return b.ConvertPixels(addr, pixel.FormatRGBAToARGB)
}

// ConvertPixels applies format to the byte buffer at addr. It reports whether
// the handle resolved; a length that is not a whole number of pixels leaves
// the buffer untouched without failing.
func (b *Boundary) ConvertPixels(addr uint64, format pixel.Format) bool {
	op := string(format)
	fn := format.Converter()
	if fn == nil {
		b.fail(op, addr, errors.InvalidInput(errors.PhaseTransform, "unknown pixel conversion "+op))
		return false
	}
	converted, err := handle.With(b.table, handle.Address(addr), func(buf *buffer.Buffer[uint8]) bool {
		return pixel.ConvertBuffer(buf, fn, b.pixel)
	})
	if err != nil {
		b.fail(op, addr, err)
		return false
	}
	if !converted {
		b.log.Debug("pixel conversion skipped",
			zap.String("op", op),
			zap.Uint64("address", addr),
			zap.String("reason", "length is not a multiple of 4"))
	}
	return true
}

// fail records a failed boundary call on the side channel.
func (b *Boundary) fail(op string, addr uint64, err error) {
	kind := errors.KindOf(err)
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("kind", string(kind)),
		zap.Uint64("address", addr),
		zap.Error(err),
	}
	switch kind {
	case errors.KindNullPointer, errors.KindNoValue:
		b.log.Warn("boundary call failed", fields...)
	default:
		b.log.Error("boundary call failed", fields...)
	}
}

type eventLogger struct {
	log *zap.Logger
}

func (l *eventLogger) OnHandleEvent(e handle.Event) {
	l.log.Debug("handle "+e.Type.String(),
		zap.String("type", e.TypeName),
		zap.Uint64("address", uint64(e.Address)))
}

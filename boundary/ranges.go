package boundary

import (
	"github.com/wippyai/valuebox/handle"
	"github.com/wippyai/valuebox/text"
)

// Ranges is the boundary surface for handles holding a text.Range. Range
// handles receive the results of string span queries.
type Ranges struct {
	b *Boundary
}

// Create returns a handle to the range [start, end).
func (r Ranges) Create(start, end int) uint64 {
	return uint64(handle.New(r.b.table, text.Range{Start: start, End: end}))
}

// Drop releases the range handle at addr.
func (r Ranges) Drop(addr uint64) bool {
	if err := handle.Release[text.Range](r.b.table, handle.Address(addr)); err != nil {
		r.b.fail("range_drop", addr, err)
		return false
	}
	return true
}

// Get returns the range at addr.
func (r Ranges) Get(addr uint64) (text.Range, bool) {
	v, err := handle.Clone[text.Range](r.b.table, handle.Address(addr))
	if err != nil {
		r.b.fail("range_get", addr, err)
		return text.Range{}, false
	}
	return v, true
}

// Start returns the range start, or 0.
func (r Ranges) Start(addr uint64) int {
	v, _ := r.Get(addr)
	return v.Start
}

// End returns the range end, or 0.
func (r Ranges) End(addr uint64) int {
	v, _ := r.Get(addr)
	return v.End
}

// SetStart updates the range start.
func (r Ranges) SetStart(addr uint64, start int) bool {
	return r.update("range_set_start", addr, func(v *text.Range) { v.Start = start })
}

// SetEnd updates the range end.
func (r Ranges) SetEnd(addr uint64, end int) bool {
	return r.update("range_set_end", addr, func(v *text.Range) { v.End = end })
}

func (r Ranges) update(op string, addr uint64, fn func(*text.Range)) bool {
	_, err := handle.With(r.b.table, handle.Address(addr), func(v *text.Range) struct{} {
		fn(v)
		return struct{}{}
	})
	if err != nil {
		r.b.fail(op, addr, err)
		return false
	}
	return true
}

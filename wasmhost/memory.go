package wasmhost

import (
	"math"
	"unsafe"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/valuebox"
)

// GuestMemory adapts a guest's linear memory to valuebox.Memory. Addresses
// are offsets into the memory. Slices alias the memory until the guest grows
// it, so buffer views over guest memory must be dropped before memory.grow.
type GuestMemory struct {
	Mem api.Memory
}

var _ valuebox.Memory = (*GuestMemory)(nil)

// WrapMemory returns nil for a module without memory.
func WrapMemory(mem api.Memory) *GuestMemory {
	if mem == nil {
		return nil
	}
	return &GuestMemory{Mem: mem}
}

// Slice implements valuebox.Memory.
func (m *GuestMemory) Slice(addr uint64, length uint64) ([]byte, bool) {
	if m == nil || m.Mem == nil || addr > math.MaxUint32 || length > math.MaxUint32 {
		return nil, false
	}
	return m.Mem.Read(uint32(addr), uint32(length))
}

// Address implements valuebox.Memory. It maps p back to an offset when p
// points into the current memory.
func (m *GuestMemory) Address(p unsafe.Pointer) (uint64, bool) {
	if m == nil || m.Mem == nil || p == nil {
		return 0, false
	}
	size := m.Mem.Size()
	if size == 0 {
		return 0, false
	}
	all, ok := m.Mem.Read(0, size)
	if !ok {
		return 0, false
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(all)))
	ptr := uintptr(p)
	if ptr < base || ptr >= base+uintptr(size) {
		return 0, false
	}
	return uint64(ptr - base), true
}

// callerMemory returns the linear memory of the module making a host call.
// A guest without memory gets a GuestMemory that rejects every address.
func callerMemory(mod api.Module) *GuestMemory {
	if mod == nil {
		return &GuestMemory{}
	}
	return &GuestMemory{Mem: mod.Memory()}
}

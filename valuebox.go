package valuebox

import "unsafe"

// Memory resolves foreign addresses handed over by a boundary caller.
// Slices returned by Slice alias the foreign memory: writes through them are
// visible to the foreign side and no copy is made.
type Memory interface {
	// Slice returns length bytes starting at addr, or false if the range is
	// not addressable.
	Slice(addr uint64, length uint64) ([]byte, bool)

	// Address maps an in-process pointer back to a foreign address, or false
	// if the pointer does not lie inside this memory.
	Address(p unsafe.Pointer) (uint64, bool)
}

// NativeMemory treats addresses as raw process pointers, as handed over by
// cgo callers. It performs no validation beyond rejecting null.
type NativeMemory struct{}

// Slice implements Memory.
func (NativeMemory) Slice(addr uint64, length uint64) ([]byte, bool) {
	if addr == 0 {
		return nil, false
	}
	if length == 0 {
		return []byte{}, true
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), length), true //nolint:govet // foreign address
}

// Address implements Memory.
func (NativeMemory) Address(p unsafe.Pointer) (uint64, bool) {
	if p == nil {
		return 0, false
	}
	return uint64(uintptr(p)), true
}

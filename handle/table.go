package handle

import (
	"sync"

	"github.com/wippyai/valuebox/errors"
)

// Table maps addresses to boxed values with generation tracking and
// observer support. The table itself is safe for concurrent use; the value
// behind any single address is not, see the package documentation.
type Table struct {
	entries   []entry
	freeList  []uint32
	observers []Observer
	mu        sync.RWMutex
	obsMu     sync.RWMutex
	closed    bool
}

type entry struct {
	box  cell
	gen  uint32
	live bool
}

// NewTable creates an empty handle table.
func NewTable() *Table {
	return &Table{
		entries:  make([]entry, 0, 64),
		freeList: make([]uint32, 0, 16),
	}
}

// insert stores a box and returns its address, or Null once the table is closed.
func (t *Table) insert(c cell) Address {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return Null
	}

	var addr Address
	if n := len(t.freeList); n > 0 {
		slot := t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		e := &t.entries[slot]
		e.box = c
		e.live = true
		addr = makeAddress(slot, e.gen)
	} else {
		slot := uint32(len(t.entries))
		t.entries = append(t.entries, entry{box: c, live: true})
		addr = makeAddress(slot, 0)
	}
	t.mu.Unlock()

	t.notify(Event{Type: EventCreated, Address: addr, TypeName: c.typeName()})
	return addr
}

// lookup resolves an address to its box without transferring ownership.
func (t *Table) lookup(addr Address, phase errors.Phase) (cell, error) {
	slot, ok := addr.slot()
	if !ok {
		return nil, errors.NullPointer(phase, "")
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if int(slot) >= len(t.entries) {
		return nil, errors.StaleHandle(phase, uint64(addr))
	}
	e := t.entries[slot]
	if !e.live || e.gen != addr.generation() {
		return nil, errors.StaleHandle(phase, uint64(addr))
	}
	return e.box, nil
}

// remove unlinks an address from the table and bumps the slot generation so
// the address can never resolve again.
func (t *Table) remove(addr Address) (cell, error) {
	slot, ok := addr.slot()
	if !ok {
		return nil, errors.NullPointer(errors.PhaseHandle, "")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if int(slot) >= len(t.entries) {
		return nil, errors.StaleHandle(errors.PhaseHandle, uint64(addr))
	}
	e := &t.entries[slot]
	if !e.live || e.gen != addr.generation() {
		return nil, errors.StaleHandle(errors.PhaseHandle, uint64(addr))
	}

	c := e.box
	e.box = nil
	e.live = false
	e.gen++
	t.freeList = append(t.freeList, slot)
	return c, nil
}

// Release destroys the handle at addr and drops its value if populated.
// After Release the address is invalid for every operation.
func (t *Table) Release(addr Address) error {
	c, err := t.remove(addr)
	if err != nil {
		return err
	}
	c.drop()
	t.notify(Event{Type: EventReleased, Address: addr, TypeName: c.typeName()})
	return nil
}

// HasValue reports whether addr denotes a live, populated handle.
func (t *Table) HasValue(addr Address) bool {
	c, err := t.lookup(addr, errors.PhaseHandle)
	if err != nil {
		return false
	}
	return c.hasValue()
}

// Pointer returns the in-process address of the value held by addr,
// or 0 if the handle is invalid or empty.
func (t *Table) Pointer(addr Address) uintptr {
	c, err := t.lookup(addr, errors.PhaseHandle)
	if err != nil {
		return 0
	}
	return c.pointer()
}

// Describe returns the lifecycle information of a live handle.
func (t *Table) Describe(addr Address) (Info, error) {
	c, err := t.lookup(addr, errors.PhaseHandle)
	if err != nil {
		return Info{}, err
	}
	return Info{Address: addr, TypeName: c.typeName(), Populated: c.hasValue()}, nil
}

// Len returns the number of live handles.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	count := 0
	for _, e := range t.entries {
		if e.live {
			count++
		}
	}
	return count
}

// Each iterates over all live handles.
func (t *Table) Each(fn func(Info) bool) {
	t.mu.RLock()
	infos := make([]Info, 0, len(t.entries))
	for i, e := range t.entries {
		if e.live {
			infos = append(infos, Info{
				Address:   makeAddress(uint32(i), e.gen),
				TypeName:  e.box.typeName(),
				Populated: e.box.hasValue(),
			})
		}
	}
	t.mu.RUnlock()

	for _, info := range infos {
		if !fn(info) {
			return
		}
	}
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Clear releases every live handle but keeps the table usable.
func (t *Table) Clear() {
	var addrs []Address
	t.Each(func(info Info) bool {
		addrs = append(addrs, info.Address)
		return true
	})
	for _, addr := range addrs {
		_ = t.Release(addr)
	}
}

// Close releases every live handle and stops accepting new ones.
func (t *Table) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	t.Clear()
	return nil
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnHandleEvent(e)
	}
}

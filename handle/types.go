package handle

// Address is the opaque identity of a handle at the boundary.
// The low 32 bits hold the slot index plus one, the high 32 bits the slot
// generation. Address 0 is reserved and always null.
type Address uint64

// Null is the address every entry point must tolerate.
const Null Address = 0

func makeAddress(slot, gen uint32) Address {
	return Address(uint64(gen)<<32 | uint64(slot+1))
}

func (a Address) slot() (uint32, bool) {
	lo := uint32(a)
	if lo == 0 {
		return 0, false
	}
	return lo - 1, true
}

func (a Address) generation() uint32 {
	return uint32(a >> 32)
}

// IsNull reports whether the address is the null address.
func (a Address) IsNull() bool {
	return a == Null
}

// EventType identifies a handle lifecycle notification.
type EventType uint8

const (
	EventCreated EventType = iota
	EventTaken
	EventReplaced
	EventReleased
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventTaken:
		return "taken"
	case EventReplaced:
		return "replaced"
	case EventReleased:
		return "released"
	default:
		return "unknown"
	}
}

// Event represents a handle lifecycle event.
type Event struct {
	TypeName string
	Address  Address
	Type     EventType
}

// Observer receives notifications about handle lifecycle events.
type Observer interface {
	OnHandleEvent(Event)
}

// Info describes a live handle without exposing its value.
type Info struct {
	TypeName  string
	Address   Address
	Populated bool
}

// Dropper is optionally implemented by boxed values that need cleanup when
// their handle is released. Values removed with Take or Replace are not dropped.
type Dropper interface {
	Drop()
}

// Cloner is optionally implemented by boxed values that need a deep copy.
// Values that do not implement it are copied by assignment.
type Cloner[T any] interface {
	Clone() T
}

// cell is the type-erased view of a *Box[T] stored in the table.
type cell interface {
	typeName() string
	hasValue() bool
	pointer() uintptr
	drop()
}

package handle

import (
	"reflect"
	"unsafe"

	"github.com/wippyai/valuebox/errors"
)

// Box owns zero or one value of T. A box is populated from creation until
// its value is taken, and may be repopulated with Replace.
type Box[T any] struct {
	value   T
	present bool
}

func (b *Box[T]) typeName() string {
	return typeNameOf[T]()
}

func (b *Box[T]) hasValue() bool {
	return b.present
}

func (b *Box[T]) pointer() uintptr {
	if !b.present {
		return 0
	}
	return uintptr(unsafe.Pointer(&b.value))
}

func (b *Box[T]) drop() {
	if !b.present {
		return
	}
	if d, ok := any(&b.value).(Dropper); ok {
		d.Drop()
	} else if d, ok := any(b.value).(Dropper); ok {
		d.Drop()
	}
	var zero T
	b.value = zero
	b.present = false
}

func (b *Box[T]) take() T {
	v := b.value
	var zero T
	b.value = zero
	b.present = false
	return v
}

func typeNameOf[T any]() string {
	return reflect.TypeFor[T]().String()
}

// New moves value into a fresh handle and returns its address.
// It returns Null only when the table has been closed.
func New[T any](t *Table, value T) Address {
	return t.insert(&Box[T]{value: value, present: true})
}

// NewEmpty creates a handle that holds no value yet.
func NewEmpty[T any](t *Table) Address {
	return t.insert(&Box[T]{})
}

// resolve reconstructs the box behind addr for the duration of one
// operation. It never destroys anything: only Release does.
func resolve[T any](t *Table, addr Address) (*Box[T], error) {
	if addr.IsNull() {
		return nil, errors.NullPointer(errors.PhaseHandle, typeNameOf[T]())
	}
	c, err := t.lookup(addr, errors.PhaseHandle)
	if err != nil {
		return nil, err
	}
	b, ok := c.(*Box[T])
	if !ok {
		return nil, errors.TypeMismatch(errors.PhaseHandle, uint64(addr), typeNameOf[T](), c.typeName())
	}
	return b, nil
}

func resolvePopulated[T any](t *Table, addr Address) (*Box[T], error) {
	b, err := resolve[T](t, addr)
	if err != nil {
		return nil, err
	}
	if !b.present {
		return nil, errors.NoValue(errors.PhaseHandle, uint64(addr), typeNameOf[T]())
	}
	return b, nil
}

// With evaluates fn with a reference to the boxed value. The reference must
// not outlive fn.
func With[T, R any](t *Table, addr Address, fn func(*T) R) (R, error) {
	b, err := resolvePopulated[T](t, addr)
	if err != nil {
		var zero R
		return zero, err
	}
	return fn(&b.value), nil
}

// WithErr is With for operations that can fail on their own.
func WithErr[T, R any](t *Table, addr Address, fn func(*T) (R, error)) (R, error) {
	b, err := resolvePopulated[T](t, addr)
	if err != nil {
		var zero R
		return zero, err
	}
	return fn(&b.value)
}

// With2 evaluates fn with references to two boxed values. Both addresses are
// resolved before fn runs; a failure on either leaves both untouched.
func With2[A, B, R any](t *Table, a, b Address, fn func(*A, *B) (R, error)) (R, error) {
	var zero R
	ba, err := resolvePopulated[A](t, a)
	if err != nil {
		return zero, err
	}
	bb, err := resolvePopulated[B](t, b)
	if err != nil {
		return zero, err
	}
	return fn(&ba.value, &bb.value)
}

// Ref is a non-scoped borrow of a handle. It stays valid until the handle is
// taken, replaced or released; callers must not hold it across other
// operations on the same address.
type Ref[T any] struct {
	box  *Box[T]
	addr Address
}

// Borrow resolves addr without transferring ownership.
func Borrow[T any](t *Table, addr Address) (Ref[T], error) {
	b, err := resolvePopulated[T](t, addr)
	if err != nil {
		return Ref[T]{}, err
	}
	return Ref[T]{box: b, addr: addr}, nil
}

// Value returns a pointer to the borrowed value, or nil if the box was emptied.
func (r Ref[T]) Value() *T {
	if r.box == nil || !r.box.present {
		return nil
	}
	return &r.box.value
}

// Address returns the borrowed handle's address.
func (r Ref[T]) Address() Address {
	return r.addr
}

// Replace installs value and returns the previous one, if any.
func (r Ref[T]) Replace(value T) (T, bool) {
	var prev T
	had := r.box.present
	if had {
		prev = r.box.take()
	}
	r.box.value = value
	r.box.present = true
	return prev, had
}

// Take empties the box and returns its value.
func (r Ref[T]) Take() (T, bool) {
	if !r.box.present {
		var zero T
		return zero, false
	}
	return r.box.take(), true
}

// Clone returns a copy of the boxed value and leaves the handle unchanged.
func Clone[T any](t *Table, addr Address) (T, error) {
	b, err := resolvePopulated[T](t, addr)
	if err != nil {
		var zero T
		return zero, err
	}
	if c, ok := any(b.value).(Cloner[T]); ok {
		return c.Clone(), nil
	}
	if c, ok := any(&b.value).(Cloner[T]); ok {
		return c.Clone(), nil
	}
	return b.value, nil
}

// Take removes and returns the boxed value. The handle stays valid but empty.
func Take[T any](t *Table, addr Address) (T, error) {
	b, err := resolvePopulated[T](t, addr)
	if err != nil {
		var zero T
		return zero, err
	}
	v := b.take()
	t.notify(Event{Type: EventTaken, Address: addr, TypeName: b.typeName()})
	return v, nil
}

// Replace installs value, returning the previous value and whether there was one.
// It repopulates handles that were emptied by Take.
func Replace[T any](t *Table, addr Address, value T) (T, bool, error) {
	b, err := resolve[T](t, addr)
	if err != nil {
		var zero T
		return zero, false, err
	}
	prev, had := Ref[T]{box: b, addr: addr}.Replace(value)
	t.notify(Event{Type: EventReplaced, Address: addr, TypeName: b.typeName()})
	return prev, had, nil
}

// Release destroys the handle after checking it holds a T.
func Release[T any](t *Table, addr Address) error {
	if _, err := resolve[T](t, addr); err != nil {
		return err
	}
	return t.Release(addr)
}

// HasValue reports whether addr denotes a populated handle of T.
func HasValue[T any](t *Table, addr Address) bool {
	_, err := resolvePopulated[T](t, addr)
	return err == nil
}

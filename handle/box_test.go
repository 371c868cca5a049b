package handle

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/valuebox/errors"
)

type point struct {
	X, Y int
}

type tags struct {
	names []string
}

func (t tags) Clone() tags {
	return tags{names: append([]string(nil), t.names...)}
}

func TestBox_BorrowIsRepeatable(t *testing.T) {
	table := NewTable()
	h := New(table, point{X: 1, Y: 2})

	for i := 0; i < 3; i++ {
		got, err := With(table, h, func(p *point) point { return *p })
		if err != nil {
			t.Fatalf("With #%d: %v", i, err)
		}
		if got != (point{X: 1, Y: 2}) {
			t.Fatalf("With #%d = %+v", i, got)
		}
	}
	if !HasValue[point](table, h) {
		t.Fatal("borrowing must not change the handle")
	}
}

func TestBox_WithMutates(t *testing.T) {
	table := NewTable()
	h := New(table, point{X: 1})

	if _, err := With(table, h, func(p *point) struct{} {
		p.X = 42
		return struct{}{}
	}); err != nil {
		t.Fatal(err)
	}

	got, _ := Clone[point](table, h)
	if got.X != 42 {
		t.Fatalf("mutation not visible, got %+v", got)
	}
}

func TestBox_NullAddress(t *testing.T) {
	table := NewTable()

	_, err := With(table, Null, func(p *point) int { return p.X })
	if !stderrors.Is(err, errors.ErrNullPointer) {
		t.Fatalf("With: expected null pointer, got %v", err)
	}
	_, err = Take[point](table, Null)
	if !stderrors.Is(err, errors.ErrNullPointer) {
		t.Fatalf("Take: expected null pointer, got %v", err)
	}
	_, err = Clone[point](table, Null)
	if !stderrors.Is(err, errors.ErrNullPointer) {
		t.Fatalf("Clone: expected null pointer, got %v", err)
	}
	if err := Release[point](table, Null); !stderrors.Is(err, errors.ErrNullPointer) {
		t.Fatalf("Release: expected null pointer, got %v", err)
	}
	var e *errors.Error
	if !stderrors.As(err, &e) || e.TypeName != "handle.point" {
		t.Fatalf("expected typed error naming handle.point, got %v", err)
	}
}

func TestBox_TakeThenBorrow(t *testing.T) {
	table := NewTable()
	h := New(table, point{X: 7})

	v, err := Take[point](table, h)
	if err != nil {
		t.Fatal(err)
	}
	if v.X != 7 {
		t.Fatalf("Take returned %+v", v)
	}

	_, err = With(table, h, func(p *point) int { return p.X })
	if !stderrors.Is(err, errors.ErrNoValue) {
		t.Fatalf("With after Take: expected no value, got %v", err)
	}
	_, err = Take[point](table, h)
	if !stderrors.Is(err, errors.ErrNoValue) {
		t.Fatalf("second Take: expected no value, got %v", err)
	}
	_, err = Clone[point](table, h)
	if !stderrors.Is(err, errors.ErrNoValue) {
		t.Fatalf("Clone after Take: expected no value, got %v", err)
	}
	if table.Len() != 1 {
		t.Fatal("Take must not free the handle")
	}
}

func TestBox_TakeReplaceBorrow(t *testing.T) {
	table := NewTable()
	h := New(table, point{X: 1})

	if _, err := Take[point](table, h); err != nil {
		t.Fatal(err)
	}
	prev, had, err := Replace(table, h, point{X: 2})
	if err != nil {
		t.Fatal(err)
	}
	if had {
		t.Fatalf("Replace on empty handle returned previous %+v", prev)
	}

	got, err := With(table, h, func(p *point) int { return p.X })
	if err != nil || got != 2 {
		t.Fatalf("With after Replace = %d, %v", got, err)
	}

	prev, had, err = Replace(table, h, point{X: 3})
	if err != nil || !had || prev.X != 2 {
		t.Fatalf("Replace = %+v, %v, %v", prev, had, err)
	}
}

func TestBox_NewEmpty(t *testing.T) {
	table := NewTable()
	h := NewEmpty[point](table)

	if HasValue[point](table, h) {
		t.Fatal("empty handle reports a value")
	}
	_, err := With(table, h, func(p *point) int { return p.X })
	if !stderrors.Is(err, errors.ErrNoValue) {
		t.Fatalf("expected no value, got %v", err)
	}
	if table.Pointer(h) != 0 {
		t.Fatal("empty handle must have a zero pointer")
	}
	if err := Release[point](table, h); err != nil {
		t.Fatalf("releasing an empty handle: %v", err)
	}
}

func TestBox_TypeMismatch(t *testing.T) {
	table := NewTable()
	h := New(table, "text")

	_, err := With(table, h, func(p *point) int { return p.X })
	if !stderrors.Is(err, errors.ErrTypeMismatch) {
		t.Fatalf("expected type mismatch, got %v", err)
	}
	if err := Release[point](table, h); !stderrors.Is(err, errors.ErrTypeMismatch) {
		t.Fatalf("typed release of wrong type: %v", err)
	}
	if table.Len() != 1 {
		t.Fatal("typed release of wrong type must not free the handle")
	}
}

func TestBox_CloneUsesCloner(t *testing.T) {
	table := NewTable()
	h := New(table, tags{names: []string{"a"}})

	c, err := Clone[tags](table, h)
	if err != nil {
		t.Fatal(err)
	}
	c.names[0] = "changed"

	orig, _ := With(table, h, func(t *tags) string { return t.names[0] })
	if orig != "a" {
		t.Fatalf("Clone shared storage with the handle: %q", orig)
	}
}

func TestBox_With2(t *testing.T) {
	table := NewTable()
	a := New(table, 3)
	b := New(table, point{X: 4})

	sum, err := With2(table, a, b, func(n *int, p *point) (int, error) {
		return *n + p.X, nil
	})
	if err != nil || sum != 7 {
		t.Fatalf("With2 = %d, %v", sum, err)
	}

	_, err = With2(table, a, Null, func(n *int, p *point) (int, error) {
		t.Fatal("fn must not run when an address fails")
		return 0, nil
	})
	if !stderrors.Is(err, errors.ErrNullPointer) {
		t.Fatalf("expected null pointer, got %v", err)
	}
}

func TestBox_WithErr(t *testing.T) {
	table := NewTable()
	h := New(table, 5)
	want := errors.SizeMismatch(errors.PhaseBuffer, 5, 1)

	_, err := WithErr(table, h, func(v *int) (int, error) { return 0, want })
	if !stderrors.Is(err, errors.ErrSizeMismatch) {
		t.Fatalf("WithErr should return fn's error, got %v", err)
	}
}

func TestBox_Ref(t *testing.T) {
	table := NewTable()
	h := New(table, point{X: 1})

	ref, err := Borrow[point](table, h)
	if err != nil {
		t.Fatal(err)
	}
	if ref.Address() != h {
		t.Fatal("Ref address mismatch")
	}
	ref.Value().Y = 9

	prev, had := ref.Replace(point{X: 5})
	if !had || prev.Y != 9 {
		t.Fatalf("Ref.Replace = %+v, %v", prev, had)
	}

	v, ok := ref.Take()
	if !ok || v.X != 5 {
		t.Fatalf("Ref.Take = %+v, %v", v, ok)
	}
	if ref.Value() != nil {
		t.Fatal("Ref.Value should be nil after Take")
	}
	if _, ok := ref.Take(); ok {
		t.Fatal("second Ref.Take should report no value")
	}
	if _, err := Borrow[point](table, h); !stderrors.Is(err, errors.ErrNoValue) {
		t.Fatalf("Borrow of emptied handle: %v", err)
	}
}

func TestBox_ReleaseDropsOnlyPopulated(t *testing.T) {
	table := NewTable()
	drops := 0

	h := New(table, &dropCounter{drops: &drops})
	if err := Release[*dropCounter](table, h); err != nil {
		t.Fatal(err)
	}
	if drops != 1 {
		t.Fatalf("expected value to be dropped once, got %d", drops)
	}

	h = New(table, &dropCounter{drops: &drops})
	v, err := Take[*dropCounter](table, h)
	if err != nil {
		t.Fatal(err)
	}
	if err := table.Release(h); err != nil {
		t.Fatal(err)
	}
	if drops != 1 {
		t.Fatalf("taken value must not be dropped on release, got %d drops", drops)
	}
	v.Drop()
	if drops != 2 {
		t.Fatal("caller owns the taken value")
	}
}

func TestBox_Pointer(t *testing.T) {
	table := NewTable()
	h := New(table, point{X: 8})

	p := table.Pointer(h)
	if p == 0 {
		t.Fatal("populated handle must have a pointer")
	}
	ref, _ := Borrow[point](table, h)
	if got := ref.Value(); got.X != 8 {
		t.Fatal("borrowed value mismatch")
	}
}

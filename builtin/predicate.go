package builtin

import (
	"slices"

	"github.com/ichiban/horn/term"
	"github.com/ichiban/horn/unify"
)

func numbers(x, y term.Term) (term.Number, term.Number, bool) {
	n, ok := x.(term.Number)
	if !ok {
		return 0, 0, false
	}
	m, ok := y.(term.Number)
	return n, m, ok
}

// LessThan succeeds iff x and y are numbers and x < y.
func LessThan(x, y term.Term) bool {
	n, m, ok := numbers(x, y)
	return ok && n < m
}

// GreaterThan succeeds iff x and y are numbers and x > y.
func GreaterThan(x, y term.Term) bool {
	n, m, ok := numbers(x, y)
	return ok && n > m
}

// LessThanOrEqual succeeds iff x and y are numbers and x =< y.
func LessThanOrEqual(x, y term.Term) bool {
	n, m, ok := numbers(x, y)
	return ok && n <= m
}

// GreaterThanOrEqual succeeds iff x and y are numbers and x >= y.
func GreaterThanOrEqual(x, y term.Term) bool {
	n, m, ok := numbers(x, y)
	return ok && n >= m
}

// Identical succeeds iff x and y are structurally equal.
func Identical(x, y term.Term) bool {
	return term.Equal(x, y)
}

// NotIdentical succeeds iff x and y are not structurally equal.
func NotIdentical(x, y term.Term) bool {
	return !term.Equal(x, y)
}

// Before succeeds iff x precedes y in the standard order.
func Before(x, y term.Term) bool {
	return term.Compare(x, y) < 0
}

// After succeeds iff x follows y in the standard order.
func After(x, y term.Term) bool {
	return term.Compare(x, y) > 0
}

// NotAfter succeeds iff x precedes or equals y in the standard order.
func NotAfter(x, y term.Term) bool {
	return term.Compare(x, y) <= 0
}

// NotBefore succeeds iff x follows or equals y in the standard order.
func NotBefore(x, y term.Term) bool {
	return term.Compare(x, y) >= 0
}

// NotUnifiable succeeds iff x and y don't unify.
func NotUnifiable(x, y term.Term) bool {
	return !unify.CarryOut(x, y).Succeeded
}

// TypeVar checks if t is a variable.
func TypeVar(t term.Term) bool {
	_, ok := t.(term.Variable)
	return ok
}

// TypeNonVar checks if t is not a variable.
func TypeNonVar(t term.Term) bool {
	return !TypeVar(t)
}

// TypeAtom checks if t is an atom.
func TypeAtom(t term.Term) bool {
	_, ok := t.(term.Atom)
	return ok
}

// TypeNumber checks if t is a number.
func TypeNumber(t term.Term) bool {
	_, ok := t.(term.Number)
	return ok
}

// TypeAtomic checks if t is an atom or a number.
func TypeAtomic(t term.Term) bool {
	return TypeAtom(t) || TypeNumber(t)
}

// TypeCompound checks if t is a compound.
func TypeCompound(t term.Term) bool {
	_, ok := t.(*term.Compound)
	return ok
}

// TypeCallable checks if t is an atom or a compound.
func TypeCallable(t term.Term) bool {
	return TypeAtom(t) || TypeCompound(t)
}

// TypeList checks if t is a proper list.
func TypeList(t term.Term) bool {
	_, ok := term.Slice(t)
	return ok
}

// TypeGround checks if t contains no variables.
func TypeGround(t term.Term) bool {
	return term.Ground(t)
}

// MSort sorts the elements of a proper list in the standard order.
func MSort(list term.Term) (term.Term, bool) {
	ts, ok := term.Slice(list)
	if !ok {
		return nil, false
	}
	slices.SortStableFunc(ts, term.Compare)
	return term.List(ts...), true
}

// Sort sorts the elements of a proper list in the standard order and removes duplicates.
func Sort(list term.Term) (term.Term, bool) {
	ts, ok := term.Slice(list)
	if !ok {
		return nil, false
	}
	slices.SortStableFunc(ts, term.Compare)
	ts = slices.CompactFunc(ts, term.Equal)
	return term.List(ts...), true
}

// Length returns the number of the elements of a proper list.
func Length(list term.Term) (term.Term, bool) {
	ts, ok := term.Slice(list)
	if !ok {
		return nil, false
	}
	return term.Number(len(ts)), true
}

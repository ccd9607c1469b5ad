package term

import (
	"cmp"
	"strings"
)

// Compare compares t and u in the standard order of terms and returns -1, 0, or 1.
// Variable < Number < Atom < Compound. Variables are ordered by name, numbers by value, atoms alphabetically,
// and compounds by arity, then name, then arguments from left to right.
func Compare(t, u Term) int {
	if d := cmp.Compare(t.kind(), u.kind()); d != 0 {
		return d
	}
	switch t := t.(type) {
	case Variable:
		return compareVariables(t, u.(Variable))
	case Number:
		return cmp.Compare(t, u.(Number))
	case Atom:
		return strings.Compare(string(t), string(u.(Atom)))
	case *Compound:
		u := u.(*Compound)
		if d := cmp.Compare(t.functor.Arity, u.functor.Arity); d != 0 {
			return d
		}
		if d := strings.Compare(string(t.functor.Name), string(u.functor.Name)); d != 0 {
			return d
		}
		for i := range t.args {
			if d := Compare(t.args[i], u.args[i]); d != 0 {
				return d
			}
		}
		return 0
	default:
		return 0
	}
}

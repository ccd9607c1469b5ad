// Package term provides immutable logic terms and rules, along with value-equal containers built from them.
package term

import (
	"fmt"
	"io"
	"strings"
)

// Term is a logic term. It's one of Atom, Number, Variable, or *Compound.
type Term interface {
	fmt.Stringer
	WriteTerm(io.Writer, WriteOptions) error
	kind() kind
}

// kind is a variant tag. The order of the constants is the standard order of the variants.
type kind int8

const (
	kindVariable kind = iota
	kindNumber
	kindAtom
	kindCompound
)

// Unbound is a marker that takes the place of variables which are left unbound in a solution.
const Unbound = Atom("$unbound")

// Equal checks if t and u are structurally equal.
func Equal(t, u Term) bool {
	switch t := t.(type) {
	case *Compound:
		u, ok := u.(*Compound)
		if !ok || t.functor != u.functor {
			return false
		}
		for i := range t.args {
			if !Equal(t.args[i], u.args[i]) {
				return false
			}
		}
		return true
	default:
		return t == u
	}
}

// Variables returns the variables in t in the order of their first occurrences.
// The anonymous variable is excluded.
func Variables(ts ...Term) []Variable {
	var vs []Variable
	seen := map[Variable]struct{}{}
	var walk func(Term)
	walk = func(t Term) {
		switch t := t.(type) {
		case Variable:
			if t.Anonymous() {
				return
			}
			if _, ok := seen[t]; ok {
				return
			}
			seen[t] = struct{}{}
			vs = append(vs, t)
		case *Compound:
			for _, a := range t.args {
				walk(a)
			}
		}
	}
	for _, t := range ts {
		walk(t)
	}
	return vs
}

// Rename returns a copy of t in which every variable is replaced with f(v).
func Rename(t Term, f func(Variable) Term) Term {
	switch t := t.(type) {
	case Variable:
		return f(t)
	case *Compound:
		if !t.hasVariable() {
			return t
		}
		args := make([]Term, len(t.args))
		for i, a := range t.args {
			args[i] = Rename(a, f)
		}
		return newCompound(t.functor, args)
	default:
		return t
	}
}

// Ground checks if t contains no variables.
func Ground(t Term) bool {
	switch t := t.(type) {
	case Variable:
		return false
	case *Compound:
		return !t.hasVariable()
	default:
		return true
	}
}

func toString(t Term) string {
	var sb strings.Builder
	_ = t.WriteTerm(&sb, defaultWriteOptions)
	return sb.String()
}

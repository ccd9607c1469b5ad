// Package unify implements syntactic unification of terms without occurs-check.
package unify

import (
	"slices"

	"github.com/ichiban/horn/term"
)

// Result is an outcome of unification. Results are compared by value with Equal.
type Result struct {
	Succeeded bool
	Bindings  term.Bindings
}

// Failure is the result of unification which didn't succeed.
var Failure = Result{}

// Success returns a succeeded result with bindings b.
func Success(b term.Bindings) Result {
	return Result{Succeeded: true, Bindings: b}
}

// CarryOut unifies left and right and returns the bindings which make them syntactically identical.
// If both are variables, left is bound to right.
func CarryOut(left, right term.Term) Result {
	return Extend(term.Bindings{}, left, right)
}

// Extend unifies left and right under b and returns b extended with the new bindings.
func Extend(b term.Bindings, left, right term.Term) Result {
	b, ok := unify(b, left, right)
	if !ok {
		return Failure
	}
	return Success(b)
}

func unify(b term.Bindings, left, right term.Term) (term.Bindings, bool) {
	left, right = b.Resolve(left), b.Resolve(right)

	if v, ok := left.(term.Variable); ok {
		if w, ok := right.(term.Variable); ok && (w == v || w.Anonymous()) {
			return b, true
		}
		if v.Anonymous() {
			return b, true
		}
		return b.Bind(v, right), true
	}

	switch r := right.(type) {
	case term.Variable:
		if r.Anonymous() {
			return b, true
		}
		return b.Bind(r, left), true
	case term.Atom:
		return b, left == r
	case term.Number:
		return b, left == r
	case *term.Compound:
		l, ok := left.(*term.Compound)
		if !ok || l.Functor() != r.Functor() {
			return b, false
		}
		for i := 0; i < l.Arity(); i++ {
			b, ok = unify(b, l.Arg(i), r.Arg(i))
			if !ok {
				return b, false
			}
		}
		return b, true
	default:
		return b, false
	}
}

// IsPossible checks if left and right have the same shape ignoring variables.
// It doesn't bind anything so it's cheap enough to filter candidate rules.
func IsPossible(left, right term.Term) bool {
	switch l := left.(type) {
	case term.Variable:
		return true
	case *term.Compound:
		switch r := right.(type) {
		case term.Variable:
			return true
		case *term.Compound:
			if l.Functor() != r.Functor() {
				return false
			}
			for i := 0; i < l.Arity(); i++ {
				if !IsPossible(l.Arg(i), r.Arg(i)) {
					return false
				}
			}
			return true
		default:
			return false
		}
	default:
		if _, ok := right.(term.Variable); ok {
			return true
		}
		return left == right
	}
}

// And merges the bindings of r and o. It fails if either of them failed or they bind a variable to
// terms that don't unify.
func (r Result) And(o Result) Result {
	if !r.Succeeded || !o.Succeeded {
		return Failure
	}
	b := r.Bindings
	for v, t := range o.Bindings.All() {
		var ok bool
		b, ok = unify(b, v, t)
		if !ok {
			return Failure
		}
	}
	return Success(b)
}

// Equal checks if r and o are the same outcome with equal bindings.
func (r Result) Equal(o Result) bool {
	return r.Succeeded == o.Succeeded && r.Bindings.Equal(o.Bindings)
}

// Equivalent checks if r and o are the same outcome with bindings that agree up to renaming of variables.
// Unifying the same terms in either order gives equivalent results.
func (r Result) Equivalent(o Result) bool {
	if r.Succeeded != o.Succeeded {
		return false
	}
	if !r.Succeeded {
		return true
	}

	vs := r.variables()
	for _, v := range o.variables() {
		if !slices.Contains(vs, v) {
			vs = append(vs, v)
		}
	}

	ls, rs := make([]term.Term, len(vs)), make([]term.Term, len(vs))
	for i, v := range vs {
		ls[i], rs[i] = r.Substitute(v), o.Substitute(v)
	}
	return variant(term.List(ls...), term.List(rs...), map[term.Variable]term.Variable{}, map[term.Variable]term.Variable{})
}

// variables returns the bound variables followed by the variables in the bound terms.
func (r Result) variables() []term.Variable {
	var (
		vs []term.Variable
		ts []term.Term
	)
	for v, t := range r.Bindings.All() {
		vs = append(vs, v)
		ts = append(ts, t)
	}
	for _, v := range term.Variables(ts...) {
		if !slices.Contains(vs, v) {
			vs = append(vs, v)
		}
	}
	return vs
}

// variant checks if t and u are equal with a one-to-one renaming of variables, recorded in fw and bw.
func variant(t, u term.Term, fw, bw map[term.Variable]term.Variable) bool {
	switch t := t.(type) {
	case term.Variable:
		v, ok := u.(term.Variable)
		if !ok {
			return false
		}
		if w, ok := fw[t]; ok {
			return w == v
		}
		if w, ok := bw[v]; ok {
			return w == t
		}
		fw[t], bw[v] = v, t
		return true
	case *term.Compound:
		c, ok := u.(*term.Compound)
		if !ok || t.Functor() != c.Functor() {
			return false
		}
		for i := 0; i < t.Arity(); i++ {
			if !variant(t.Arg(i), c.Arg(i), fw, bw) {
				return false
			}
		}
		return true
	default:
		return term.Equal(t, u)
	}
}

// Converse returns a result in which the bindings between two variables are flipped.
// When more than one variable is bound to the same variable, only the last of them survives the flip.
// Use Equivalent to compare results of unification in either order.
func (r Result) Converse() Result {
	if !r.Succeeded {
		return r
	}
	var b term.Bindings
	for v, t := range r.Bindings.All() {
		if w, ok := t.(term.Variable); ok {
			b = b.Bind(w, v)
			continue
		}
		b = b.Bind(v, t)
	}
	return Success(b)
}

// Substitute replaces the variables in t with the terms they're bound to.
func (r Result) Substitute(t term.Term) term.Term {
	return r.Bindings.Simplify(t)
}

func (r Result) String() string {
	if !r.Succeeded {
		return "false"
	}
	return r.Bindings.String()
}

package term

import (
	"iter"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/ichiban/horn/internal/rbtree"
)

// Bindings is an immutable map from variables to terms compared by value.
// Bind returns a new Bindings and leaves the receiver intact. The zero value is an empty Bindings.
type Bindings struct {
	m rbtree.Map[Variable, Term]
}

// NewBindings returns a Bindings which consists of the pairs in m.
func NewBindings(m map[Variable]Term) Bindings {
	var b Bindings
	for v, t := range m {
		b = b.Bind(v, t)
	}
	return b
}

// Len returns the number of bound variables.
func (b Bindings) Len() int {
	return b.m.Len()
}

// Lookup returns the term v is directly bound to.
func (b Bindings) Lookup(v Variable) (Term, bool) {
	return b.m.Get(v)
}

// Bind returns a new Bindings in which v is bound to t.
func (b Bindings) Bind(v Variable, t Term) Bindings {
	m := b.m
	if m.Len() == 0 {
		m = rbtree.New[Variable, Term](compareVariables)
	}
	return Bindings{m: m.Set(v, t)}
}

// All iterates over the pairs in the standard order of the variables.
func (b Bindings) All() iter.Seq2[Variable, Term] {
	return b.m.All()
}

// Map returns the pairs as a Go map.
func (b Bindings) Map() map[Variable]Term {
	m := make(map[Variable]Term, b.Len())
	for v, t := range b.All() {
		m[v] = t
	}
	return m
}

// Resolve follows the variable chain and returns the first non-variable term or the last free variable.
func (b Bindings) Resolve(t Term) Term {
	var stop []Variable
	for {
		v, ok := t.(Variable)
		if !ok || slices.Contains(stop, v) {
			return t
		}
		ref, ok := b.Lookup(v)
		if !ok {
			return v
		}
		stop = append(stop, v)
		t = ref
	}
}

// Simplify replaces as many variables in t as possible with the terms they're bound to.
// A variable which is bound to a term containing itself is left as is where it recurs.
func (b Bindings) Simplify(t Term) Term {
	if b.Len() == 0 {
		return t
	}
	return b.simplify(t, nil)
}

func (b Bindings) simplify(t Term, visiting []Variable) Term {
	switch t := t.(type) {
	case Variable:
		if slices.Contains(visiting, t) {
			return t
		}
		ref, ok := b.Lookup(t)
		if !ok {
			return t
		}
		return b.simplify(ref, append(visiting, t))
	case *Compound:
		if !t.hasVariable() {
			return t
		}
		var args []Term
		for i, a := range t.args {
			s := b.simplify(a, visiting)
			if args == nil && s == a {
				continue
			}
			if args == nil {
				args = make([]Term, len(t.args))
				copy(args, t.args[:i])
			}
			args[i] = s
		}
		if args == nil {
			return t
		}
		return newCompound(t.functor, args)
	default:
		return t
	}
}

// Equal checks if b and o have the same variables bound to structurally equal terms.
func (b Bindings) Equal(o Bindings) bool {
	if b.Len() != o.Len() {
		return false
	}
	for v, t := range b.All() {
		u, ok := o.Lookup(v)
		if !ok || !Equal(t, u) {
			return false
		}
	}
	return true
}

// Hash returns a hash of b. Equal bindings have the same hash.
func (b Bindings) Hash() uint64 {
	d := xxhash.New()
	for v, t := range b.All() {
		writeHash(d, v)
		writeHash(d, t)
	}
	return d.Sum64()
}

func (b Bindings) String() string {
	var sb strings.Builder
	ew := errWriter{w: &sb}
	ew.print("{")
	i := 0
	for v, t := range b.All() {
		if i > 0 {
			ew.print(", ")
		}
		ew.write(v, defaultWriteOptions)
		ew.print(" = ")
		ew.write(t, defaultWriteOptions)
		i++
	}
	ew.print("}")
	return sb.String()
}

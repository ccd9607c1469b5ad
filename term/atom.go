package term

import (
	"fmt"
	"io"
)

// Atom is a symbolic constant.
type Atom string

// EmptyList is the atom which terminates lists.
const EmptyList = Atom("[]")

func (a Atom) String() string {
	return toString(a)
}

// WriteTerm writes the atom into w.
func (a Atom) WriteTerm(w io.Writer, opts WriteOptions) error {
	s := string(a)
	switch {
	case opts.Quoted && a == ".":
		_, err := fmt.Fprint(w, quote(s))
		return err
	case !opts.Quoted,
		a == EmptyList, a == "!",
		unquotedAtomPattern.MatchString(s),
		graphicAtomPattern.MatchString(s):
		_, err := fmt.Fprint(w, s)
		return err
	default:
		_, err := fmt.Fprint(w, quote(s))
		return err
	}
}

func (Atom) kind() kind {
	return kindAtom
}

// Apply returns a Compound which Functor is the Atom and Args are the arguments.
func (a Atom) Apply(args ...Term) *Compound {
	return newCompound(Functor{Name: a, Arity: len(args)}, append([]Term(nil), args...))
}

package term

import (
	"errors"
	"fmt"
	"io"
)

// ErrArityMismatch is the error that NewCompound returns when the number of arguments disagrees with the arity.
var ErrArityMismatch = errors.New("arity mismatch")

// ArityMismatchError is an error that signifies a compound is built with a wrong number of arguments.
type ArityMismatchError struct {
	Functor Functor
	Args    int
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("%s: %s applied to %d arguments", ErrArityMismatch, e.Functor, e.Args)
}

// Is makes errors.Is(err, ErrArityMismatch) hold.
func (e *ArityMismatchError) Is(target error) bool {
	return target == ErrArityMismatch
}

// Functor is a name with an arity.
type Functor struct {
	Name  Atom
	Arity int
}

func (f Functor) String() string {
	return fmt.Sprintf("%s/%d", f.Name, f.Arity)
}

var consFunctor = Functor{Name: ".", Arity: 2}

// Compound is a functor applied to arguments. Compounds are immutable once built.
type Compound struct {
	functor  Functor
	args     []Term
	variable bool
}

// NewCompound returns a compound of f applied to args.
// It fails with *ArityMismatchError if the number of args disagrees with the arity of f.
func NewCompound(f Functor, args ...Term) (*Compound, error) {
	if f.Arity != len(args) {
		return nil, &ArityMismatchError{Functor: f, Args: len(args)}
	}
	return newCompound(f, append([]Term(nil), args...)), nil
}

// MustCompound is like NewCompound but panics on errors.
func MustCompound(f Functor, args ...Term) *Compound {
	c, err := NewCompound(f, args...)
	if err != nil {
		panic(err)
	}
	return c
}

func newCompound(f Functor, args []Term) *Compound {
	c := Compound{functor: f, args: args}
	for _, a := range args {
		if !Ground(a) {
			c.variable = true
			break
		}
	}
	return &c
}

// Functor returns the functor of the compound.
func (c *Compound) Functor() Functor {
	return c.functor
}

// Arity returns the number of the arguments.
func (c *Compound) Arity() int {
	return c.functor.Arity
}

// Arg returns the n-th argument.
func (c *Compound) Arg(n int) Term {
	return c.args[n]
}

// Args returns the arguments.
func (c *Compound) Args() Seq {
	return Seq{items: c.args}
}

func (c *Compound) hasVariable() bool {
	return c.variable
}

func (c *Compound) String() string {
	return toString(c)
}

func (*Compound) kind() kind {
	return kindCompound
}

// WriteTerm writes the compound into w.
func (c *Compound) WriteTerm(w io.Writer, opts WriteOptions) error {
	ew := errWriter{w: w}
	switch {
	case c.functor == consFunctor:
		c.writeList(&ew, opts)
	case c.functor.Arity == 2 && IsInfix(c.functor.Name):
		writeOperand(&ew, c.args[0], opts)
		ew.print(" ")
		ew.write(c.functor.Name, opts)
		ew.print(" ")
		writeOperand(&ew, c.args[1], opts)
	case c.functor.Arity == 0:
		ew.write(c.functor.Name, opts)
	default:
		ew.write(c.functor.Name, opts)
		ew.print("(")
		for i, a := range c.args {
			if i > 0 {
				ew.print(", ")
			}
			ew.write(a, opts)
		}
		ew.print(")")
	}
	return ew.err
}

func (c *Compound) writeList(ew *errWriter, opts WriteOptions) {
	ew.print("[")
	ew.write(c.args[0], opts)
	t := c.args[1]
	for {
		if l, ok := t.(*Compound); ok && l.functor == consFunctor {
			ew.print(", ")
			ew.write(l.args[0], opts)
			t = l.args[1]
			continue
		}
		if t == EmptyList {
			break
		}
		ew.print("|")
		ew.write(t, opts)
		break
	}
	ew.print("]")
}

func writeOperand(ew *errWriter, t Term, opts WriteOptions) {
	if c, ok := t.(*Compound); ok && c.functor.Arity == 2 && IsInfix(c.functor.Name) {
		ew.print("(")
		ew.write(c, opts)
		ew.print(")")
		return
	}
	ew.write(t, opts)
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) print(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprint(ew.w, s)
}

func (ew *errWriter) write(t Term, opts WriteOptions) {
	if ew.err != nil {
		return
	}
	ew.err = t.WriteTerm(ew.w, opts)
}

// Cons returns a list consists of a first element car and the rest cdr.
func Cons(car, cdr Term) Term {
	return newCompound(consFunctor, []Term{car, cdr})
}

// List returns a list of ts.
func List(ts ...Term) Term {
	return ListRest(EmptyList, ts...)
}

// ListRest returns a list of ts followed by rest.
func ListRest(rest Term, ts ...Term) Term {
	l := rest
	for i := len(ts) - 1; i >= 0; i-- {
		l = Cons(ts[i], l)
	}
	return l
}

// Slice returns the elements of a proper list. It returns false if t is not a proper list.
func Slice(t Term) ([]Term, bool) {
	var ts []Term
	for {
		switch l := t.(type) {
		case Atom:
			return ts, l == EmptyList
		case *Compound:
			if l.functor != consFunctor {
				return nil, false
			}
			ts = append(ts, l.args[0])
			t = l.args[1]
		default:
			return nil, false
		}
	}
}

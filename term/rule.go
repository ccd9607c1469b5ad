package term

import (
	"fmt"
	"io"
	"strings"
)

// CutFunctor is the functor of the cut goal.
var CutFunctor = Functor{Name: "!", Arity: 0}

// CallFunctor is the functor of the goal which calls the term its argument is bound to.
var CallFunctor = Functor{Name: "call", Arity: 1}

// Rule is a conclusion which holds if all the premises hold. A rule without premises is a fact.
type Rule struct {
	Conclusion *Compound
	Premises   []*Compound
}

// NewRule returns a rule.
func NewRule(conclusion *Compound, premises ...*Compound) Rule {
	return Rule{Conclusion: conclusion, Premises: premises}
}

// Fact checks if r has no premises.
func (r Rule) Fact() bool {
	return len(r.Premises) == 0
}

// HasCut checks if one of the premises is the cut.
func (r Rule) HasCut() bool {
	for _, p := range r.Premises {
		if p.functor == CutFunctor {
			return true
		}
	}
	return false
}

// Variables returns the variables in r in the order of their first occurrences.
func (r Rule) Variables() []Variable {
	ts := make([]Term, 0, len(r.Premises)+1)
	ts = append(ts, r.Conclusion)
	for _, p := range r.Premises {
		ts = append(ts, p)
	}
	return Variables(ts...)
}

// Rename returns a copy of r in which every variable v is replaced with f(v).
func (r Rule) Rename(f func(Variable) Term) Rule {
	ret := Rule{
		Conclusion: Rename(r.Conclusion, f).(*Compound),
	}
	if len(r.Premises) > 0 {
		ret.Premises = make([]*Compound, len(r.Premises))
		for i, p := range r.Premises {
			ret.Premises[i] = Rename(p, f).(*Compound)
		}
	}
	return ret
}

// Equal checks if r and s are structurally equal.
func (r Rule) Equal(s Rule) bool {
	if !Equal(r.Conclusion, s.Conclusion) || len(r.Premises) != len(s.Premises) {
		return false
	}
	for i := range r.Premises {
		if !Equal(r.Premises[i], s.Premises[i]) {
			return false
		}
	}
	return true
}

func (r Rule) String() string {
	var sb strings.Builder
	_ = r.Write(&sb, defaultWriteOptions)
	return sb.String()
}

// Write writes the rule in the source syntax, including the terminating period.
func (r Rule) Write(w io.Writer, opts WriteOptions) error {
	tw := tailWriter{w: w}
	ew := errWriter{w: &tw}
	ew.write(r.Conclusion, opts)
	for i, p := range r.Premises {
		if i == 0 {
			ew.print(" :- ")
		} else {
			ew.print(", ")
		}
		ew.write(p, opts)
	}
	// A period right after a graphic atom would be read as part of the atom.
	if strings.IndexByte(graphicChars, tw.last) >= 0 {
		ew.print(" ")
	}
	ew.print(".")
	if ew.err != nil {
		return fmt.Errorf("write %s: %w", r.Conclusion.functor, ew.err)
	}
	return nil
}

// tailWriter remembers the last byte written through it.
type tailWriter struct {
	w    io.Writer
	last byte
}

func (t *tailWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if n > 0 {
		t.last = p[n-1]
	}
	return n, err
}

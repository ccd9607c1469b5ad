// Package builtin provides the predicates which every program can use without defining them.
//
// Some are native: truth tests and evaluations backed by Go functions, and the special forms call/1 and findall/3
// which the resolution engine handles itself. The others are library rules written in the source syntax and
// consulted ahead of user rules, so that cut and backtracking work for them as for any other rule.
package builtin

import (
	_ "embed"
	"fmt"

	"github.com/ichiban/horn/syntax"
	"github.com/ichiban/horn/term"
)

//go:embed library.pl
var library string

// Kind is a way a predicate is proved.
type Kind int

const (
	// UserDefined predicates are proved by searching the rules.
	UserDefined Kind = iota
	// TruthTest predicates are evaluated directly. They never bind variables.
	TruthTest
	// Evaluation predicates compute a term from all the arguments but the last one and unify it with the last one.
	Evaluation
	// CallIndirection is the kind of call/1 which proves its argument as a goal.
	CallIndirection
	// Aggregation is the kind of findall/3 which collects all the solutions of a goal.
	Aggregation
)

func (k Kind) String() string {
	switch k {
	case UserDefined:
		return "user defined"
	case TruthTest:
		return "truth test"
	case Evaluation:
		return "evaluation"
	case CallIndirection:
		return "call indirection"
	case Aggregation:
		return "aggregation"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Predicate is an entry of a Registry.
type Predicate struct {
	Kind Kind

	// Test is the body of a TruthTest.
	Test func(args []term.Term) bool

	// Eval is the body of an Evaluation. It receives all the arguments but the last one.
	Eval func(args []term.Term) (term.Term, bool)
}

// Registry maps functors to native predicates and holds library rules.
// The zero value is a valid registry without any native predicates nor library rules.
// A Registry is safe for concurrent lookups once it's populated.
type Registry struct {
	predicates map[term.Functor]Predicate
	library    []term.Rule
}

// New creates a registry with the default native predicates and library rules.
func New() *Registry {
	var r Registry

	r.Register(term.CallFunctor, Predicate{Kind: CallIndirection})
	r.Register(term.Functor{Name: "findall", Arity: 3}, Predicate{Kind: Aggregation})

	// Control
	r.RegisterTest0("fail", func() bool { return false })
	r.RegisterTest0("false", func() bool { return false })

	// Arithmetic comparison
	r.RegisterTest2("<", LessThan)
	r.RegisterTest2(">", GreaterThan)
	r.RegisterTest2("=<", LessThanOrEqual)
	r.RegisterTest2(">=", GreaterThanOrEqual)

	// Term comparison
	r.RegisterTest2("==", Identical)
	r.RegisterTest2(`\==`, NotIdentical)
	r.RegisterTest2("@<", Before)
	r.RegisterTest2("@>", After)
	r.RegisterTest2("@=<", NotAfter)
	r.RegisterTest2("@>=", NotBefore)
	r.RegisterTest2(`\=`, NotUnifiable)

	// Type testing
	r.RegisterTest1("var", TypeVar)
	r.RegisterTest1("nonvar", TypeNonVar)
	r.RegisterTest1("atom", TypeAtom)
	r.RegisterTest1("number", TypeNumber)
	r.RegisterTest1("integer", TypeNumber)
	r.RegisterTest1("atomic", TypeAtomic)
	r.RegisterTest1("compound", TypeCompound)
	r.RegisterTest1("callable", TypeCallable)
	r.RegisterTest1("is_list", TypeList)
	r.RegisterTest1("ground", TypeGround)

	// Lists
	r.RegisterEval1("sort", Sort)
	r.RegisterEval1("msort", MSort)
	r.RegisterEval1("length", Length)

	if err := r.AddLibrary(library); err != nil {
		panic(err)
	}

	return &r
}

// Register registers a native predicate for f. It replaces the one registered for f before, if any.
func (r *Registry) Register(f term.Functor, p Predicate) {
	if r.predicates == nil {
		r.predicates = map[term.Functor]Predicate{}
	}
	r.predicates[f] = p
}

// RegisterTest0 registers a truth test of arity 0.
func (r *Registry) RegisterTest0(name term.Atom, f func() bool) {
	r.Register(term.Functor{Name: name, Arity: 0}, Predicate{Kind: TruthTest, Test: func([]term.Term) bool {
		return f()
	}})
}

// RegisterTest1 registers a truth test of arity 1.
func (r *Registry) RegisterTest1(name term.Atom, f func(term.Term) bool) {
	r.Register(term.Functor{Name: name, Arity: 1}, Predicate{Kind: TruthTest, Test: func(args []term.Term) bool {
		return f(args[0])
	}})
}

// RegisterTest2 registers a truth test of arity 2.
func (r *Registry) RegisterTest2(name term.Atom, f func(term.Term, term.Term) bool) {
	r.Register(term.Functor{Name: name, Arity: 2}, Predicate{Kind: TruthTest, Test: func(args []term.Term) bool {
		return f(args[0], args[1])
	}})
}

// RegisterEval1 registers an evaluation of arity 2 which computes the second argument from the first one.
func (r *Registry) RegisterEval1(name term.Atom, f func(term.Term) (term.Term, bool)) {
	r.Register(term.Functor{Name: name, Arity: 2}, Predicate{Kind: Evaluation, Eval: func(args []term.Term) (term.Term, bool) {
		return f(args[0])
	}})
}

// Lookup returns the predicate registered for f. If there's none, it returns a UserDefined predicate.
func (r *Registry) Lookup(f term.Functor) Predicate {
	if r == nil {
		return Predicate{Kind: UserDefined}
	}
	p, ok := r.predicates[f]
	if !ok {
		return Predicate{Kind: UserDefined}
	}
	return p
}

// Native checks if a native predicate is registered for f.
func (r *Registry) Native(f term.Functor) bool {
	return r.Lookup(f).Kind != UserDefined
}

// AddLibrary parses text as a program and appends the rules to the library rules.
func (r *Registry) AddLibrary(text string) error {
	rules, err := syntax.ParseProgram(text)
	if err != nil {
		return fmt.Errorf("library: %w", err)
	}
	r.library = append(r.library, rules...)
	return nil
}

// Library returns the library rules in the order of addition.
func (r *Registry) Library() []term.Rule {
	if r == nil {
		return nil
	}
	return append([]term.Rule(nil), r.library...)
}

// Package horn is an embeddable interpreter of Horn clauses.
//
// An Interpreter holds a program, a sequence of rules in the order of declaration, and answers queries against it.
//
//	i := horn.New()
//	if err := i.Consult(`parent(alice, bob). parent(bob, carol).`); err != nil {
//		return err
//	}
//	sols, err := i.Query(`parent(X, carol).`)
package horn

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/ichiban/horn/proof"
	"github.com/ichiban/horn/syntax"
	"github.com/ichiban/horn/term"
)

// Placeholder is the atom which is replaced by the arguments of Query.
const Placeholder = term.Atom("?")

// Interpreter is an interpreter of Horn clauses. The zero value is a valid interpreter with the default builtin
// predicates and an empty program.
type Interpreter struct {
	proof.Proof
	rules []term.Rule
}

// New creates a new interpreter.
func New(opts ...proof.Option) *Interpreter {
	return &Interpreter{Proof: *proof.New(opts...)}
}

// Consult parses text as a program and appends its rules to the program.
// If text has a syntax error, the program is left intact.
func (i *Interpreter) Consult(text string) error {
	rs, err := syntax.ParseProgram(text)
	if err != nil {
		return fmt.Errorf("consult: %w", err)
	}
	i.AddRules(rs...)
	return nil
}

// AddRules appends rules to the program.
func (i *Interpreter) AddRules(rules ...term.Rule) {
	i.rules = append(i.rules, rules...)
}

// Rules returns the program.
func (i *Interpreter) Rules() []term.Rule {
	return slices.Clone(i.rules)
}

// Query executes a query and returns *Solutions.
// Every occurrence of the atom ? in the query is replaced by the corresponding argument.
func (i *Interpreter) Query(query string, args ...interface{}) (*Solutions, error) {
	return i.QueryContext(context.Background(), query, args...)
}

// QueryContext executes a query and returns *Solutions with context.
func (i *Interpreter) QueryContext(ctx context.Context, query string, args ...interface{}) (*Solutions, error) {
	qs, err := syntax.ParseQuery(query)
	if err != nil {
		return nil, err
	}

	qs, err = fill(qs, args)
	if err != nil {
		return nil, err
	}

	return &Solutions{
		sols: i.Proof.FindContext(ctx, slices.Clip(i.rules), qs),
	}, nil
}

// ErrNoSolutions indicates there's no solutions for the query.
var ErrNoSolutions = errors.New("no solutions")

// QuerySolution executes a query for the first solution.
func (i *Interpreter) QuerySolution(query string, args ...interface{}) *Solution {
	return i.QuerySolutionContext(context.Background(), query, args...)
}

// QuerySolutionContext executes a query for the first solution with context.
func (i *Interpreter) QuerySolutionContext(ctx context.Context, query string, args ...interface{}) *Solution {
	sols, err := i.QueryContext(ctx, query, args...)
	if err != nil {
		return &Solution{err: err}
	}

	if !sols.Next() {
		if err := sols.Err(); err != nil {
			return &Solution{err: err}
		}
		return &Solution{err: ErrNoSolutions}
	}

	return &Solution{sols: sols, err: sols.Close()}
}

func fill(qs [][]*term.Compound, args []interface{}) ([][]*term.Compound, error) {
	ts := make([]term.Term, len(args))
	for i, a := range args {
		t, err := termOf(reflect.ValueOf(a))
		if err != nil {
			return nil, err
		}
		ts[i] = t
	}

	ret := make([][]*term.Compound, len(qs))
	for i, q := range qs {
		ret[i] = make([]*term.Compound, len(q))
		for j, g := range q {
			var t term.Term
			t, ts = replace(g, ts)
			ret[i][j] = t.(*term.Compound)
		}
	}
	if len(ts) > 0 {
		return nil, fmt.Errorf("too many arguments: %d left", len(ts))
	}
	return ret, nil
}

// replace replaces the placeholders in t from left to right. A placeholder without an argument is left as is.
func replace(t term.Term, args []term.Term) (term.Term, []term.Term) {
	switch t := t.(type) {
	case term.Atom:
		if t != Placeholder || len(args) == 0 {
			return t, args
		}
		return args[0], args[1:]
	case *term.Compound:
		as := t.Args().Slice()
		for i, a := range as {
			as[i], args = replace(a, args)
		}
		return term.MustCompound(t.Functor(), as...), args
	default:
		return t, args
	}
}

func termOf(o reflect.Value) (term.Term, error) {
	if !o.IsValid() {
		return nil, errors.New("can't convert to term: nil")
	}
	if t, ok := o.Interface().(term.Term); ok {
		return t, nil
	}
	switch o.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return term.Number(o.Int()), nil
	case reflect.String:
		return term.Atom(o.String()), nil
	case reflect.Array, reflect.Slice:
		l := o.Len()
		es := make([]term.Term, l)
		for i := 0; i < l; i++ {
			var err error
			es[i], err = termOf(o.Index(i))
			if err != nil {
				return nil, err
			}
		}
		return term.List(es...), nil
	default:
		return nil, fmt.Errorf("can't convert to term: %v", o)
	}
}

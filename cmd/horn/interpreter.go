package main

import (
	"github.com/sirupsen/logrus"

	"github.com/ichiban/horn"
	"github.com/ichiban/horn/builtin"
	"github.com/ichiban/horn/proof"
	"github.com/ichiban/horn/term"
)

// New creates a horn.Interpreter with some helper predicates.
func New(cfg Config, log *logrus.Logger) *horn.Interpreter {
	r := builtin.New()
	r.Register(term.Functor{Name: "version", Arity: 1}, builtin.Predicate{
		Kind: builtin.Evaluation,
		Eval: func([]term.Term) (term.Term, bool) {
			return term.Atom(Version), true
		},
	})

	i := horn.New(
		proof.WithRegistry(r),
		proof.WithMaxDepth(cfg.MaxDepth),
		proof.WithLogger(log),
	)
	if cfg.Verbose {
		i.OnCall = func(goal *term.Compound, depth int) {
			log.Printf("CALL (%d) %s", depth, goal)
		}
		i.OnExit = func(goal *term.Compound, depth int) {
			log.Printf("EXIT (%d) %s", depth, goal)
		}
		i.OnFail = func(goal *term.Compound, depth int) {
			log.Printf("FAIL (%d) %s", depth, goal)
		}
	}
	i.OnUnknown = func(f term.Functor) {
		log.Printf("UNKNOWN %s", f)
	}
	return i
}

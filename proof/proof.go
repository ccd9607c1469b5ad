// Package proof implements SLD-resolution with cut and negation as failure.
//
// The search is depth-first, tries rules in the order of declaration, and proves the leftmost goal first.
// Solutions are produced lazily: the search pauses after every solution until the next one is requested.
package proof

import (
	"context"
	"iter"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ichiban/horn/builtin"
	"github.com/ichiban/horn/term"
	"github.com/ichiban/horn/unify"
)

// DefaultMaxDepth is the depth limit of a Proof without MaxDepth.
const DefaultMaxDepth = 100_000

var defaultRegistry = sync.OnceValue(builtin.New)

// Proof finds solutions of queries against rules.
// The zero value is a valid Proof with the default builtin registry.
// A Proof can run multiple searches concurrently as long as its fields aren't modified.
type Proof struct {
	// Registry is the builtin predicates. If nil, builtin.New() is used.
	Registry *builtin.Registry

	// MaxDepth bounds the depth of the search. If 0, DefaultMaxDepth is used.
	MaxDepth int

	// Logger receives the trace of the search at debug level and warnings. If nil, the standard logger is used.
	Logger *logrus.Logger

	// OnCall is called when the search starts proving a goal.
	OnCall func(goal *term.Compound, depth int)

	// OnExit is called when a goal is proven.
	OnExit func(goal *term.Compound, depth int)

	// OnFail is called when a goal has no more proofs.
	OnFail func(goal *term.Compound, depth int)

	// OnUnknown is called when a goal refers to a predicate without rules.
	OnUnknown func(f term.Functor)
}

// Option configures a Proof.
type Option func(*Proof)

// WithRegistry sets the builtin predicates.
func WithRegistry(r *builtin.Registry) Option {
	return func(p *Proof) {
		p.Registry = r
	}
}

// WithMaxDepth sets the depth limit.
func WithMaxDepth(n int) Option {
	return func(p *Proof) {
		p.MaxDepth = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *logrus.Logger) Option {
	return func(p *Proof) {
		p.Logger = l
	}
}

// New creates a Proof.
func New(opts ...Option) *Proof {
	var p Proof
	for _, o := range opts {
		o(&p)
	}
	return &p
}

func (p *Proof) registry() *builtin.Registry {
	if p.Registry == nil {
		return defaultRegistry()
	}
	return p.Registry
}

func (p *Proof) maxDepth() int {
	if p.MaxDepth == 0 {
		return DefaultMaxDepth
	}
	return p.MaxDepth
}

func (p *Proof) logger() *logrus.Logger {
	if p.Logger == nil {
		return logrus.StandardLogger()
	}
	return p.Logger
}

// Find proves queries against rules with the zero Proof.
func Find(rules []term.Rule, queries [][]*term.Compound) *Solutions {
	var p Proof
	return p.Find(rules, queries)
}

// Find proves queries against rules. The queries are alternatives of conjunctions of goals.
// The search pauses between solutions. Close releases it promptly; otherwise it's released once the Solutions is
// garbage collected.
func (p *Proof) Find(rules []term.Rule, queries [][]*term.Compound) *Solutions {
	return p.FindContext(context.Background(), rules, queries)
}

// FindContext is like Find but stops the search with ctx.Err() once ctx is done.
func (p *Proof) FindContext(ctx context.Context, rules []term.Rule, queries [][]*term.Compound) *Solutions {
	next, stop := iter.Pull2(p.All(ctx, rules, queries))
	sols := &Solutions{
		vars: queryVariables(queries),
		next: next,
		stop: stop,
	}
	runtime.AddCleanup(sols, func(stop func()) {
		stop()
	}, stop)
	return sols
}

// All iterates over the solutions of queries against rules. Every solution is a succeeded unify.Result of which
// bindings are restricted to the variables in the queries. A variable left unbound is bound to term.Unbound.
// If the search fails with an error, it's the last element of the sequence.
func (p *Proof) All(ctx context.Context, rules []term.Rule, queries [][]*term.Compound) iter.Seq2[unify.Result, error] {
	return func(yield func(unify.Result, error) bool) {
		s := p.newSession(ctx, rules)
		vars := queryVariables(queries)

		s.log.WithField("alternatives", len(queries)).Debug("start")

		top := s.nextBarrier()
		stopped := false
		for _, q := range queries {
			halt, cut := s.solve(push(nil, top, q), term.Bindings{}, 0, func(b term.Bindings) bool {
				if !yield(answer(vars, b), nil) {
					stopped = true
					return false
				}
				return true
			})
			if halt || cut == top {
				break
			}
		}

		if s.err != nil && !stopped {
			s.log.WithError(s.err).Debug("stop")
			yield(unify.Failure, s.err)
		}
	}
}

func queryVariables(queries [][]*term.Compound) []term.Variable {
	var ts []term.Term
	for _, q := range queries {
		for _, g := range q {
			ts = append(ts, g)
		}
	}
	return term.Variables(ts...)
}

func answer(vars []term.Variable, b term.Bindings) unify.Result {
	var ret term.Bindings
	for _, v := range vars {
		t := b.Simplify(v)
		if _, ok := t.(term.Variable); ok {
			t = term.Unbound
		}
		ret = ret.Bind(v, t)
	}
	return unify.Success(ret)
}

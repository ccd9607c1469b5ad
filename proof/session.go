package proof

import (
	"context"
	"fmt"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"github.com/ichiban/horn/builtin"
	"github.com/ichiban/horn/term"
	"github.com/ichiban/horn/unify"
)

// session is the state of one search. Fresh variables and cut barriers are numbered per session so that repeated
// searches are reproducible.
type session struct {
	*Proof
	ctx      context.Context
	registry *builtin.Registry
	maxDepth int
	log      *logrus.Entry
	debug    bool
	program  map[term.Functor][]term.Rule
	fresh    uint64
	barrier  uint64
	err      error
}

func (p *Proof) newSession(ctx context.Context, rules []term.Rule) *session {
	s := session{
		Proof:    p,
		ctx:      ctx,
		registry: p.registry(),
		maxDepth: p.maxDepth(),
		log:      p.logger().WithField("session", ulid.Make().String()),
		debug:    p.logger().IsLevelEnabled(logrus.DebugLevel),
		program:  map[term.Functor][]term.Rule{},
	}

	shadowed := map[term.Functor]struct{}{}
	for _, rs := range [][]term.Rule{s.registry.Library(), rules} {
		for _, r := range rs {
			f := r.Conclusion.Functor()
			if s.registry.Native(f) {
				if _, ok := shadowed[f]; !ok {
					shadowed[f] = struct{}{}
					s.log.WithField("procedure", f).Warn("rules for a native predicate are ignored")
				}
				continue
			}
			s.program[f] = append(s.program[f], r)
		}
	}

	return &s
}

func (s *session) nextBarrier() uint64 {
	s.barrier++
	return s.barrier
}

// rename returns a copy of r with fresh variables.
func (s *session) rename(r term.Rule) term.Rule {
	s.fresh++
	n := s.fresh
	m := map[term.Variable]term.Term{}
	return r.Rename(func(v term.Variable) term.Term {
		if v.Anonymous() {
			return v
		}
		t, ok := m[v]
		if !ok {
			t = term.Variable{Name: fmt.Sprintf("%s_%d", v.Name, n), Temporary: true}
			m[v] = t
		}
		return t
	})
}

// goal is a goal to prove. A cut in it prunes the alternatives up to the expansion which owns barrier.
// An exit goal isn't proved but marks the point where term has been proven.
type goal struct {
	term    *term.Compound
	barrier uint64
	exit    bool
	depth   int
}

// goals is a conjunction of goals. It's shared among the branches of the search and never modified.
type goals struct {
	goal
	next *goals
}

func push(gs *goals, barrier uint64, ts []*term.Compound) *goals {
	for i := len(ts) - 1; i >= 0; i-- {
		gs = &goals{goal: goal{term: ts[i], barrier: barrier}, next: gs}
	}
	return gs
}

// solve proves gs under b and calls yield for every solution. It returns halt if the search has to stop because
// either yield returned false or an error occurred, and cut which is the barrier of a cut that was reached.
// A cut prunes every alternative up to the expansion that owns the barrier.
func (s *session) solve(gs *goals, b term.Bindings, depth int, yield func(term.Bindings) bool) (halt bool, cut uint64) {
	if err := s.ctx.Err(); err != nil {
		s.err = err
		return true, 0
	}
	if depth > s.maxDepth {
		s.err = fmt.Errorf("%w: %d", ErrDepthExceeded, s.maxDepth)
		return true, 0
	}

	if gs == nil {
		return !yield(b), 0
	}

	g, rest := gs.goal, gs.next
	if g.exit {
		s.trace("exit", s.OnExit, b.Simplify(g.term).(*term.Compound), g.depth)
		return s.solve(rest, b, depth+1, yield)
	}

	if g.term.Functor() == term.CutFunctor {
		h, c := s.solve(rest, b, depth+1, yield)
		if h {
			return true, 0
		}
		if c != 0 {
			return false, min(c, g.barrier)
		}
		return false, g.barrier
	}

	p := s.registry.Lookup(g.term.Functor())
	switch p.Kind {
	case builtin.UserDefined:
		return s.expand(g, rest, b, depth, yield)
	case builtin.TruthTest:
		return s.test(g, p, rest, b, depth, yield)
	case builtin.Evaluation:
		return s.evaluate(g, p, rest, b, depth, yield)
	case builtin.CallIndirection:
		return s.call(g, rest, b, depth, yield)
	case builtin.Aggregation:
		return s.findAll(g, rest, b, depth, yield)
	default:
		s.err = &InternalError{Goal: g.term, Kind: p.Kind, Reason: "unknown kind"}
		return true, 0
	}
}

// expand proves g by the rules for it in the order of declaration.
func (s *session) expand(g goal, rest *goals, b term.Bindings, depth int, yield func(term.Bindings) bool) (bool, uint64) {
	t := b.Simplify(g.term).(*term.Compound)
	s.trace("call", s.OnCall, t, depth)

	rules, ok := s.program[t.Functor()]
	if !ok {
		s.log.WithField("procedure", t.Functor()).Warn("unknown procedure")
		if s.OnUnknown != nil {
			s.OnUnknown(t.Functor())
		}
		s.trace("fail", s.OnFail, t, depth)
		return false, 0
	}

	d := s.nextBarrier()
	for _, r := range rules {
		if !unify.IsPossible(t, r.Conclusion) {
			continue
		}
		r = s.rename(r)
		res := unify.Success(b).And(unify.CarryOut(t, r.Conclusion))
		if !res.Succeeded {
			continue
		}

		next := rest
		if s.tracing() {
			next = &goals{goal: goal{term: t, exit: true, depth: depth}, next: next}
		}
		next = push(next, d, r.Premises)

		halt, cut := s.solve(next, res.Bindings, depth+1, yield)
		if halt {
			return true, 0
		}
		if cut == d {
			break
		}
		if cut != 0 {
			return false, cut
		}
	}

	s.trace("fail", s.OnFail, t, depth)
	return false, 0
}

func (s *session) test(g goal, p builtin.Predicate, rest *goals, b term.Bindings, depth int, yield func(term.Bindings) bool) (bool, uint64) {
	if p.Test == nil {
		s.err = &InternalError{Goal: g.term, Kind: p.Kind, Reason: "no test"}
		return true, 0
	}

	t := b.Simplify(g.term).(*term.Compound)
	s.trace("call", s.OnCall, t, depth)
	if !p.Test(t.Args().Slice()) {
		s.trace("fail", s.OnFail, t, depth)
		return false, 0
	}
	s.trace("exit", s.OnExit, t, depth)
	return s.solve(rest, b, depth+1, yield)
}

func (s *session) evaluate(g goal, p builtin.Predicate, rest *goals, b term.Bindings, depth int, yield func(term.Bindings) bool) (bool, uint64) {
	if p.Eval == nil || g.term.Arity() == 0 {
		s.err = &InternalError{Goal: g.term, Kind: p.Kind, Reason: "no evaluation"}
		return true, 0
	}

	t := b.Simplify(g.term).(*term.Compound)
	s.trace("call", s.OnCall, t, depth)
	args := t.Args().Slice()
	v, ok := p.Eval(args[:len(args)-1])
	if !ok {
		s.trace("fail", s.OnFail, t, depth)
		return false, 0
	}
	res := unify.Extend(b, v, args[len(args)-1])
	if !res.Succeeded {
		s.trace("fail", s.OnFail, t, depth)
		return false, 0
	}
	s.trace("exit", s.OnExit, t, depth)
	return s.solve(rest, res.Bindings, depth+1, yield)
}

// call proves the argument of g as a goal. A cut in the argument doesn't prune the alternatives outside.
func (s *session) call(g goal, rest *goals, b term.Bindings, depth int, yield func(term.Bindings) bool) (bool, uint64) {
	c, ok := s.callable(b.Resolve(g.term.Arg(0)))
	if !ok {
		return false, 0
	}

	nb := s.nextBarrier()
	halt, cut := s.solve(&goals{goal: goal{term: c, barrier: nb}, next: rest}, b, depth+1, yield)
	if cut == nb {
		cut = 0
	}
	return halt, cut
}

// findAll unifies the third argument of g with the list of the instances of the first argument for every solution
// of the second argument.
func (s *session) findAll(g goal, rest *goals, b term.Bindings, depth int, yield func(term.Bindings) bool) (bool, uint64) {
	c, ok := s.callable(b.Resolve(g.term.Arg(1)))
	if !ok {
		return false, 0
	}

	template := g.term.Arg(0)
	var instances []term.Term
	halt, _ := s.solve(&goals{goal: goal{term: c, barrier: s.nextBarrier()}}, b, depth+1, func(b term.Bindings) bool {
		instances = append(instances, b.Simplify(template))
		return true
	})
	if halt {
		return true, 0
	}

	res := unify.Extend(b, term.List(instances...), g.term.Arg(2))
	if !res.Succeeded {
		return false, 0
	}
	return s.solve(rest, res.Bindings, depth+1, yield)
}

func (s *session) callable(t term.Term) (*term.Compound, bool) {
	switch t := t.(type) {
	case term.Atom:
		return t.Apply(), true
	case *term.Compound:
		return t, true
	case term.Variable:
		s.log.WithField("variable", t).Warn("call of an unbound variable")
		return nil, false
	default:
		s.log.WithField("goal", t).Warn("call of a non-callable term")
		return nil, false
	}
}

func (s *session) tracing() bool {
	return s.debug || s.OnExit != nil
}

func (s *session) trace(port string, hook func(*term.Compound, int), goal *term.Compound, depth int) {
	if hook != nil {
		hook(goal, depth)
	}
	if s.debug {
		s.log.WithFields(logrus.Fields{
			"port":  port,
			"goal":  goal.String(),
			"depth": depth,
		}).Debug("trace")
	}
}

package proof

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"github.com/ichiban/horn/builtin"
	"github.com/ichiban/horn/syntax"
	"github.com/ichiban/horn/term"
)

const program = `
i(one).
i(two).
j(one).
j(two).
j(three).
s(X, Y) :- q(X, Y).
s(zero, zero).
`

func parse(t *testing.T, text, query string) ([]term.Rule, [][]*term.Compound) {
	t.Helper()
	rules, err := syntax.ParseProgram(text)
	if err != nil {
		t.Fatal(err)
	}
	q, err := syntax.ParseQuery(query)
	if err != nil {
		t.Fatal(err)
	}
	return rules, q
}

// collect renders every solution as the values of the query variables in their order.
func collect(t *testing.T, sols *Solutions) []string {
	t.Helper()
	var ret []string
	for sols.Next() {
		r := sols.Current()
		assert.True(t, r.Succeeded)
		var s string
		for i, v := range sols.Vars() {
			if i > 0 {
				s += ","
			}
			val, ok := r.Bindings.Lookup(v)
			assert.True(t, ok)
			if val == term.Unbound {
				s += "_"
				continue
			}
			s += val.String()
		}
		ret = append(ret, s)
	}
	assert.NoError(t, sols.Err())
	return ret
}

func quiet() *logrus.Logger {
	l, _ := logtest.NewNullLogger()
	return l
}

func TestProof_Find(t *testing.T) {
	tests := []struct {
		title     string
		program   string
		query     string
		solutions []string
	}{
		{
			title:   "without cut",
			program: program + "q(X, Y) :- i(X), j(Y).",
			query:   "s(X, Y)",
			solutions: []string{
				"one,one", "one,two", "one,three",
				"two,one", "two,two", "two,three",
				"zero,zero",
			},
		},
		{
			title:   "with cut",
			program: program + "q(X, Y) :- i(X), !, j(Y).",
			query:   "s(X, Y)",
			solutions: []string{
				"one,one", "one,two", "one,three",
				"zero,zero",
			},
		},
		{
			title:     "cut at the end",
			program:   program + "q(X, Y) :- i(X), j(Y), !.",
			query:     "s(X, Y).",
			solutions: []string{"one,one", "zero,zero"},
		},
		{
			title:     "cut prunes sibling rules only after it's reached",
			program:   "p(X) :- X = a, !. p(b). p(c).",
			query:     "p(c)",
			solutions: []string{""},
		},
		{
			title:     "cut in a query",
			program:   program,
			query:     "i(X), !",
			solutions: []string{"one"},
		},
		{
			title:     "alternatives",
			program:   program,
			query:     "X = a ; i(X)",
			solutions: []string{"a", "one", "two"},
		},
		{
			title:     "cut in an alternative",
			program:   program,
			query:     "i(X), ! ; X = a",
			solutions: []string{"one"},
		},
		{
			title:     "call is opaque to cut",
			program:   program + "t(X) :- call(!), i(X).",
			query:     "t(X)",
			solutions: []string{"one", "two"},
		},
		{
			title:     "call through a variable",
			program:   program,
			query:     "G = j(X), G",
			solutions: []string{"j(one),one", "j(two),two", "j(three),three"},
		},
		{
			title:     "once",
			program:   program,
			query:     "once(j(X))",
			solutions: []string{"one"},
		},
		{
			title:     "not with an absent element",
			program:   "",
			query:     "X = a, not(member(X, [b, c]))",
			solutions: []string{"a"},
		},
		{
			title:   "negation with a present element",
			program: "",
			query:   `X = b, \+(member(X, [b, c]))`,
		},
		{
			title:   "not with a present element",
			program: "",
			query:   "X = b, not(member(X, [b, c]))",
		},
		{
			title:     "truth tests",
			program:   "n(1). n(5). n(3).",
			query:     "n(X), X >= 3",
			solutions: []string{"5", "3"},
		},
		{
			title:     "standard order",
			program:   "",
			query:     "member(X, [f(a), 1, a, Y]), X @< a",
			solutions: []string{"1,_", "_,_"},
		},
		{
			title:     "evaluations",
			program:   "",
			query:     "sort([c, a, b, a], L), length(L, N)",
			solutions: []string{"[a, b, c],3"},
		},
		{
			title:     "append",
			program:   "",
			query:     "append(X, Y, [a, b])",
			solutions: []string{"[],[a, b]", "[a],[b]", "[a, b],[]"},
		},
		{
			title:     "select",
			program:   "",
			query:     "select(b, [a, b, c], L)",
			solutions: []string{"[a, c]"},
		},
		{
			title:     "unbound",
			program:   "p(_).",
			query:     "p(X)",
			solutions: []string{"_"},
		},
		{
			title:     "no variables",
			program:   program,
			query:     "i(two)",
			solutions: []string{""},
		},
		{
			title:   "failure",
			program: program,
			query:   "i(three)",
		},
		{
			title:   "unknown procedure",
			program: program,
			query:   "k(X)",
		},
	}

	p := New(WithLogger(quiet()))
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			rules, q := parse(t, tt.program, tt.query)
			assert.Equal(t, tt.solutions, collect(t, p.Find(rules, q)))
		})
	}
}

func TestProof_Find_findall(t *testing.T) {
	rules, _ := parse(t, "p(1). p(2). p(3). big(X) :- p(X), X > 5.", "true")
	p := New(WithLogger(quiet()))

	t.Run("declaration order", func(t *testing.T) {
		_, q := parse(t, "", "findall(X, p(X), L)")
		assert.Equal(t, []string{"_,[1, 2, 3]"}, collect(t, p.Find(rules, q)))
	})

	t.Run("templates", func(t *testing.T) {
		_, q := parse(t, "", "findall(f(X, Y), p(X), L)")
		sols := p.Find(rules, q)
		assert.True(t, sols.Next())
		l, _ := sols.Current().Bindings.Lookup(term.NewVariable("L"))
		ts, ok := term.Slice(l)
		assert.True(t, ok)
		assert.Len(t, ts, 3)
		assert.NoError(t, sols.Close())
	})

	t.Run("empty", func(t *testing.T) {
		_, q := parse(t, "", "findall(X, big(X), L)")
		assert.Equal(t, []string{"_,[]"}, collect(t, p.Find(rules, q)))
	})

	t.Run("mismatch", func(t *testing.T) {
		_, q := parse(t, "", "findall(X, p(X), [1])")
		assert.Empty(t, collect(t, p.Find(rules, q)))
	})
}

func TestFind(t *testing.T) {
	rules, q := parse(t, program+"q(X, Y) :- i(X), j(Y).", "s(X, Y)")
	sols := Find(rules, q)
	assert.Equal(t, []term.Variable{term.NewVariable("X"), term.NewVariable("Y")}, sols.Vars())
	assert.Len(t, collect(t, sols), 7)
}

func TestSolutions_Close(t *testing.T) {
	rules, q := parse(t, "nat(0). nat(s(X)) :- nat(X).", "nat(X)")
	sols := New(WithLogger(quiet())).Find(rules, q)

	assert.True(t, sols.Next())
	assert.Equal(t, "{X = 0}", sols.Current().Bindings.String())
	assert.True(t, sols.Next())
	assert.Equal(t, "{X = s(0)}", sols.Current().Bindings.String())

	assert.NoError(t, sols.Close())
	assert.NoError(t, sols.Close())
	assert.False(t, sols.Next())
	assert.NoError(t, sols.Err())
}

func TestSolutions_abandoned(t *testing.T) {
	rules, q := parse(t, "nat(0). nat(s(X)) :- nat(X).", "nat(X)")
	p := New(WithLogger(quiet()))

	before := runtime.NumGoroutine()
	func() {
		for i := 0; i < 100; i++ {
			sols := p.Find(rules, q)
			assert.True(t, sols.Next())
		}
	}()

	assert.Eventually(t, func() bool {
		runtime.GC()
		return runtime.NumGoroutine() <= before
	}, 5*time.Second, 10*time.Millisecond)
}

func TestProof_FindContext(t *testing.T) {
	rules, q := parse(t, "nat(0). nat(s(X)) :- nat(X).", "nat(X)")

	ctx, cancel := context.WithCancel(context.Background())
	sols := New(WithLogger(quiet())).FindContext(ctx, rules, q)
	assert.True(t, sols.Next())

	cancel()
	assert.False(t, sols.Next())
	assert.True(t, errors.Is(sols.Err(), context.Canceled))
}

func TestProof_MaxDepth(t *testing.T) {
	rules, q := parse(t, "loop :- loop.", "loop")
	sols := New(WithLogger(quiet()), WithMaxDepth(100)).Find(rules, q)
	assert.False(t, sols.Next())
	assert.True(t, errors.Is(sols.Err(), ErrDepthExceeded))
}

func TestProof_All(t *testing.T) {
	rules, q := parse(t, "nat(0). nat(s(X)) :- nat(X).", "nat(X)")
	p := New(WithLogger(quiet()))

	var n int
	for r, err := range p.All(context.Background(), rules, q) {
		assert.NoError(t, err)
		assert.True(t, r.Succeeded)
		n++
		if n == 5 {
			break
		}
	}
	assert.Equal(t, 5, n)
}

func TestProof_reproducible(t *testing.T) {
	rules, q := parse(t, "p(f(Z)). p(g(W, W)).", "p(X)")
	p := New(WithLogger(quiet()))

	first := collect(t, p.Find(rules, q))
	second := collect(t, p.Find(rules, q))
	assert.Equal(t, []string{"f(Z_1)", "g(W_2, W_2)"}, first)
	assert.Equal(t, first, second)
}

func TestProof_shadowing(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	rules, q := parse(t, "fail. a < b.", "fail ; a < b")

	sols := New(WithLogger(logger)).Find(rules, q)
	assert.False(t, sols.Next())
	assert.NoError(t, sols.Err())

	var warned []string
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warned = append(warned, fmt.Sprint(e.Data["procedure"]))
		}
	}
	assert.Equal(t, []string{"fail/0", "</2"}, warned)
}

func TestProof_hooks(t *testing.T) {
	rules, q := parse(t, "i(one). i(two). k(X) :- i(X), X == two.", "k(X) ; u")

	var trace []string
	port := func(name string) func(*term.Compound, int) {
		return func(g *term.Compound, depth int) {
			trace = append(trace, fmt.Sprintf("%s %s", name, g))
		}
	}
	var unknown []term.Functor

	p := Proof{
		Logger:    quiet(),
		OnCall:    port("call"),
		OnExit:    port("exit"),
		OnFail:    port("fail"),
		OnUnknown: func(f term.Functor) { unknown = append(unknown, f) },
	}
	assert.Equal(t, []string{"two"}, collect(t, p.Find(rules, q)))
	assert.Equal(t, []string{
		"call k(X)",
		"call i(X_1)",
		"exit i(one)",
		"call one == two",
		"fail one == two",
		"exit i(two)",
		"call two == two",
		"exit two == two",
		"exit k(two)",
		"fail i(X_1)",
		"fail k(X)",
		"call u",
		"fail u",
	}, trace)
	assert.Equal(t, []term.Functor{{Name: "u", Arity: 0}}, unknown)
}

func TestProof_internalError(t *testing.T) {
	var r builtin.Registry
	r.Register(term.Functor{Name: "broken", Arity: 0}, builtin.Predicate{Kind: builtin.Kind(42)})
	r.Register(term.Functor{Name: "untested", Arity: 0}, builtin.Predicate{Kind: builtin.TruthTest})

	for _, query := range []string{"broken", "untested"} {
		t.Run(query, func(t *testing.T) {
			_, q := parse(t, "", query)
			sols := New(WithRegistry(&r), WithLogger(quiet())).Find(nil, q)
			assert.False(t, sols.Next())

			err := sols.Err()
			assert.True(t, errors.Is(err, ErrInternal))
			var ie *InternalError
			assert.True(t, errors.As(err, &ie))
			assert.Equal(t, query, string(ie.Goal.Functor().Name))
		})
	}
}

package syntax

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ichiban/horn/term"
)

func TestParseProgram(t *testing.T) {
	tests := []struct {
		title string
		input string
		rules []string
	}{
		{
			title: "facts and rules",
			input: `
i(one). i(two).
% q holds for every pair.
q(X, Y) :- i(X), j(Y).
`,
			rules: []string{
				"i(one).",
				"i(two).",
				"q(X, Y) :- i(X), j(Y).",
			},
		},
		{
			title: "disjunction",
			input: "p(X) :- a(X) ; b(X), c.",
			rules: []string{
				"p(X) :- a(X).",
				"p(X) :- b(X), c.",
			},
		},
		{
			title: "cut",
			input: "q(X, Y) :- i(X), !, j(Y).",
			rules: []string{
				"q(X, Y) :- i(X), !, j(Y).",
			},
		},
		{
			title: "call through a variable",
			input: "not(G) :- G, !, fail.",
			rules: []string{
				"not(G) :- call(G), !, fail.",
			},
		},
		{
			title: "infix",
			input: `X = X. ne(X, Y) :- X \== Y, X @< Y.`,
			rules: []string{
				"X = X.",
				`ne(X, Y) :- X \== Y, X @< Y.`,
			},
		},
		{
			title: "lists",
			input: "member(X, [X|_]). first([a, 'B', -1, f(x)]).",
			rules: []string{
				"member(X, [X|_]).",
				"first([a, 'B', -1, f(x)]).",
			},
		},
		{
			title: "empty",
			input: "  % nothing\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			rules, err := ParseProgram(tt.input)
			assert.NoError(t, err)
			var ss []string
			for _, r := range rules {
				ss = append(ss, r.String())
			}
			assert.Equal(t, tt.rules, ss)
		})
	}

	t.Run("atoms become compounds of arity 0", func(t *testing.T) {
		rules, err := ParseProgram("true. p :- !, true.")
		assert.NoError(t, err)
		assert.Len(t, rules, 2)
		assert.Equal(t, term.Functor{Name: "true", Arity: 0}, rules[0].Conclusion.Functor())
		assert.Equal(t, term.CutFunctor, rules[1].Premises[0].Functor())
	})

	t.Run("anonymous variables", func(t *testing.T) {
		rules, err := ParseProgram("p(_, _).")
		assert.NoError(t, err)
		assert.Equal(t, term.NewVariable(term.Anonymous), rules[0].Conclusion.Arg(0))
		assert.Empty(t, rules[0].Variables())
	})
}

func TestParseProgram_error(t *testing.T) {
	tests := []struct {
		title    string
		input    string
		offset   int
		fragment string
		expected string
	}{
		{title: "missing period", input: "foo(a) bar.", offset: 7, fragment: "bar.", expected: "period"},
		{title: "unclosed arguments", input: "foo(a", offset: 5, fragment: "", expected: "paren R"},
		{title: "variable head", input: "X :- a.", offset: 0, fragment: "X :- a.", expected: "callable term"},
		{title: "number goal", input: "p :- 1.", offset: 5, fragment: "1.", expected: "callable term"},
		{title: "second clause", input: "a.\nb(.", offset: 5, fragment: ".", expected: "atom"},
		{title: "space before arguments", input: "p :- foo (a).", offset: 9, fragment: "(a).", expected: "period"},
		{title: "lexer", input: "p('a).", offset: 6, fragment: "", expected: "closing quote"},
		{title: "integer overflow", input: "p(99999999999999999999).", offset: 2, fragment: "99999999999999999999).", expected: "64-bit integer"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			rules, err := ParseProgram(tt.input)
			assert.Nil(t, rules)
			assert.True(t, errors.Is(err, ErrSyntax))

			var e *Error
			if assert.True(t, errors.As(err, &e)) {
				assert.Equal(t, tt.offset, e.Offset)
				assert.Equal(t, tt.fragment, e.Fragment)
				assert.Contains(t, e.Expected, tt.expected)
			}
		})
	}
}

func TestParseQuery(t *testing.T) {
	t.Run("conjunction", func(t *testing.T) {
		q, err := ParseQuery("s(X, Y)")
		assert.NoError(t, err)
		assert.Len(t, q, 1)
		assert.Len(t, q[0], 1)
		assert.Equal(t, "s(X, Y)", q[0][0].String())
	})

	t.Run("alternatives", func(t *testing.T) {
		q, err := ParseQuery("a, X = b ; c.")
		assert.NoError(t, err)
		assert.Len(t, q, 2)
		assert.Equal(t, []string{"a", "X = b"}, []string{q[0][0].String(), q[0][1].String()})
		assert.Equal(t, "c", q[1][0].String())
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ParseQuery("")
		var e *Error
		assert.True(t, errors.As(err, &e))
		assert.Equal(t, 0, e.Offset)
	})
}

func TestParseTerm(t *testing.T) {
	tests := []struct {
		input string
		term  term.Term
	}{
		{input: "foo", term: term.Atom("foo")},
		{input: "'hello world'", term: term.Atom("hello world")},
		{input: "[]", term: term.EmptyList},
		{input: "-3.", term: term.Number(-3)},
		{input: "X", term: term.NewVariable("X")},
		{input: "[a, b|T]", term: term.ListRest(term.NewVariable("T"), term.Atom("a"), term.Atom("b"))},
		{input: "f(g(a), [1, 2])", term: term.Atom("f").Apply(term.Atom("g").Apply(term.Atom("a")), term.List(term.Number(1), term.Number(2)))},
		{input: "(a = b) = c", term: term.Atom("=").Apply(term.Atom("=").Apply(term.Atom("a"), term.Atom("b")), term.Atom("c"))},
		{input: "+(1, 2)", term: term.Atom("+").Apply(term.Number(1), term.Number(2))},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTerm(tt.input)
			assert.NoError(t, err)
			assert.True(t, term.Equal(tt.term, got), "want %s, got %s", tt.term, got)
		})
	}
}

func TestParseTerm_roundTrip(t *testing.T) {
	f, g := term.Atom("f"), term.Atom("g")
	terms := []term.Term{
		term.Atom("a"),
		term.Atom("Hello"),
		term.Atom("it's"),
		term.Atom("tab\there"),
		term.Atom("."),
		term.Atom(";"),
		term.Atom("+"),
		term.Atom("!"),
		term.Atom("[]"),
		term.Atom(""),
		term.Atom("a\xffb"),
		term.Atom("caf\u00e9 \ufffd"),
		term.Number(0),
		term.Number(-42),
		term.Number(9223372036854775807),
		f.Apply(term.Atom("a")),
		f.Apply(g.Apply(term.Number(1), term.Atom("b c")), term.Atom("-")),
		term.Atom("=").Apply(f.Apply(term.Atom("a")), term.Atom("@<").Apply(term.Number(1), term.Number(2))),
		term.List(term.Atom("a"), term.List(term.Number(1)), term.EmptyList),
		term.Cons(term.Atom("a"), term.Atom("b")),
		term.Atom("[]").Apply(term.Atom("x")),
	}

	for _, want := range terms {
		s := want.String()
		t.Run(s, func(t *testing.T) {
			got, err := ParseTerm(s)
			assert.NoError(t, err)
			assert.True(t, term.Equal(want, got), "want %s, got %s", want, got)
		})
	}
}

func TestParseProgram_roundTrip(t *testing.T) {
	rules, err := ParseProgram(`
op(X) :- X = '+'.
sym('-').
sym(X) :- X \== '\\', X = '.'.
dots(X) :- X = '...'.
p(X, Y) :- q(X), !, r(Y), Y @> '@'.
`)
	assert.NoError(t, err)

	var text string
	for _, r := range rules {
		text += r.String() + "\n"
	}
	got, err := ParseProgram(text)
	assert.NoError(t, err)
	if assert.Len(t, got, len(rules), text) {
		for i := range rules {
			assert.True(t, rules[i].Equal(got[i]), "want %s, got %s", rules[i], got[i])
		}
	}
}

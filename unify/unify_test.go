package unify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ichiban/horn/term"
)

var (
	x = term.NewVariable("X")
	y = term.NewVariable("Y")
	z = term.NewVariable("Z")
)

func bindings(pairs ...term.Term) term.Bindings {
	var b term.Bindings
	for i := 0; i < len(pairs); i += 2 {
		b = b.Bind(pairs[i].(term.Variable), pairs[i+1])
	}
	return b
}

func TestCarryOut(t *testing.T) {
	anon := term.NewVariable(term.Anonymous)
	f := term.Atom("f")
	tests := []struct {
		title       string
		left, right term.Term
		result      Result
	}{
		{title: "same atoms", left: term.Atom("a"), right: term.Atom("a"), result: Success(term.Bindings{})},
		{title: "different atoms", left: term.Atom("a"), right: term.Atom("b"), result: Failure},
		{title: "same numbers", left: term.Number(1), right: term.Number(1), result: Success(term.Bindings{})},
		{title: "different numbers", left: term.Number(1), right: term.Number(2), result: Failure},
		{title: "atom and number", left: term.Atom("1"), right: term.Number(1), result: Failure},
		{title: "variable and atom", left: x, right: term.Atom("a"), result: Success(bindings(x, term.Atom("a")))},
		{title: "atom and variable", left: term.Atom("a"), right: x, result: Success(bindings(x, term.Atom("a")))},
		{title: "variables", left: x, right: y, result: Success(bindings(x, y))},
		{title: "same variable", left: x, right: x, result: Success(term.Bindings{})},
		{title: "anonymous", left: anon, right: f.Apply(x), result: Success(term.Bindings{})},
		{title: "anonymous twice", left: f.Apply(anon, anon), right: f.Apply(term.Atom("a"), term.Atom("b")), result: Success(term.Bindings{})},
		{title: "compounds", left: f.Apply(x, term.Atom("b")), right: f.Apply(term.Atom("a"), y), result: Success(bindings(x, term.Atom("a"), y, term.Atom("b")))},
		{title: "different names", left: f.Apply(x), right: term.Atom("g").Apply(x), result: Failure},
		{title: "different arities", left: f.Apply(x), right: f.Apply(x, y), result: Failure},
		{title: "compound and atom", left: f.Apply(x), right: term.Atom("f"), result: Failure},
		{title: "conflicting arguments", left: f.Apply(x, x), right: f.Apply(term.Atom("a"), term.Atom("b")), result: Failure},
		{title: "shared variable", left: f.Apply(x, x), right: f.Apply(term.Atom("a"), y), result: Success(bindings(x, term.Atom("a"), y, term.Atom("a")))},
		{title: "lists", left: term.ListRest(z, x), right: term.List(term.Atom("a"), term.Atom("b")), result: Success(bindings(x, term.Atom("a"), z, term.List(term.Atom("b"))))},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			r := CarryOut(tt.left, tt.right)
			assert.True(t, tt.result.Equal(r), "want %s, got %s", tt.result, r)
		})
	}
}

func TestCarryOut_symmetric(t *testing.T) {
	f := term.Atom("f")
	pairs := [][2]term.Term{
		{term.Atom("a"), term.Atom("a")},
		{term.Atom("a"), term.Number(1)},
		{x, term.Atom("a")},
		{x, y},
		{f.Apply(x, term.Atom("b")), f.Apply(term.Atom("a"), y)},
		{f.Apply(x, term.Atom("b")), f.Apply(y, z)},
		{f.Apply(x), term.Atom("g").Apply(y)},
		{term.List(x, term.Atom("b")), term.ListRest(y, term.Atom("a"))},
		{f.Apply(x, x), f.Apply(y, z)},
		{f.Apply(x, y, x), f.Apply(z, z, term.Atom("a"))},
	}
	for _, p := range pairs {
		l, r := CarryOut(p[0], p[1]), CarryOut(p[1], p[0])
		assert.Equal(t, l.Succeeded, r.Succeeded, "%s = %s", p[0], p[1])
		assert.True(t, l.Equivalent(r), "%s = %s: %s vs %s", p[0], p[1], l, r)
	}
}

func TestResult_Equivalent(t *testing.T) {
	a := term.Atom("a")

	assert.True(t, Failure.Equivalent(Failure))
	assert.False(t, Failure.Equivalent(Success(term.Bindings{})))

	// X and Y end up as one variable either way.
	assert.True(t, Success(bindings(x, y)).Equivalent(Success(bindings(y, x))))
	assert.True(t, Success(bindings(x, y, y, z)).Equivalent(Success(bindings(y, x, z, x))))

	assert.False(t, Success(bindings(x, y)).Equivalent(Success(bindings(x, z))))
	assert.False(t, Success(bindings(x, a)).Equivalent(Success(bindings(x, y))))
	assert.True(t, Success(bindings(x, a, y, a)).Equivalent(Success(bindings(y, a, x, a))))
	assert.False(t, Success(bindings(x, a)).Equivalent(Success(bindings(x, term.Atom("b")))))
}

func TestResult_Converse(t *testing.T) {
	r := CarryOut(x, y)
	assert.True(t, Success(bindings(y, x)).Equal(r.Converse()))
	assert.True(t, CarryOut(y, x).Equal(r.Converse()))
	assert.True(t, Failure.Equal(Failure.Converse()))

	r = CarryOut(term.Atom("f").Apply(x, term.Atom("b")), term.Atom("f").Apply(term.Atom("a"), y))
	assert.True(t, r.Equal(r.Converse()))
}

func TestCarryOut_ground(t *testing.T) {
	for _, g := range []term.Term{
		term.Atom("a"),
		term.Number(-3),
		term.EmptyList,
		term.Atom("f").Apply(term.Atom("g").Apply(term.Number(1)), term.List(term.Atom("a"))),
	} {
		r := CarryOut(g, g)
		assert.True(t, r.Succeeded)
		assert.Equal(t, 0, r.Bindings.Len())
	}
}

func TestExtend(t *testing.T) {
	b := bindings(x, term.Atom("a"))

	r := Extend(b, x, y)
	assert.True(t, Success(bindings(x, term.Atom("a"), y, term.Atom("a"))).Equal(r))

	r = Extend(b, x, term.Atom("b"))
	assert.False(t, r.Succeeded)

	assert.Equal(t, 1, b.Len())
}

func TestIsPossible(t *testing.T) {
	f := term.Atom("f")
	assert.True(t, IsPossible(x, f.Apply(y)))
	assert.True(t, IsPossible(f.Apply(y), x))
	assert.True(t, IsPossible(f.Apply(x, term.Atom("b")), f.Apply(term.Atom("a"), y)))
	assert.True(t, IsPossible(term.Number(1), term.Number(1)))
	assert.True(t, IsPossible(f.Apply(x, x), f.Apply(term.Atom("a"), term.Atom("b"))))
	assert.False(t, IsPossible(term.Number(1), term.Number(2)))
	assert.False(t, IsPossible(term.Atom("a"), f.Apply(x)))
	assert.False(t, IsPossible(f.Apply(x), term.Atom("a")))
	assert.False(t, IsPossible(f.Apply(term.Atom("a")), f.Apply(term.Atom("b"))))
	assert.False(t, IsPossible(f.Apply(x), f.Apply(x, y)))
}

func TestResult_And(t *testing.T) {
	a, b := term.Atom("a"), term.Atom("b")

	t.Run("disjoint", func(t *testing.T) {
		r := Success(bindings(x, a)).And(Success(bindings(y, b)))
		assert.True(t, Success(bindings(x, a, y, b)).Equal(r))
	})

	t.Run("agreeing", func(t *testing.T) {
		r := Success(bindings(x, a)).And(Success(bindings(x, a)))
		assert.True(t, Success(bindings(x, a)).Equal(r))
	})

	t.Run("conflicting", func(t *testing.T) {
		r := Success(bindings(x, a)).And(Success(bindings(x, b)))
		assert.False(t, r.Succeeded)
		assert.Equal(t, 0, r.Bindings.Len())
	})

	t.Run("through variables", func(t *testing.T) {
		r := Success(bindings(x, y)).And(Success(bindings(x, a)))
		assert.True(t, r.Succeeded)
		assert.Equal(t, a, r.Substitute(y))
	})

	t.Run("failure", func(t *testing.T) {
		assert.False(t, Failure.And(Success(term.Bindings{})).Succeeded)
		assert.False(t, Success(term.Bindings{}).And(Failure).Succeeded)
	})
}

func TestResult_String(t *testing.T) {
	assert.Equal(t, "false", Failure.String())
	assert.Equal(t, "{X = a}", Success(bindings(x, term.Atom("a"))).String())
}

// Package syntax reads the source syntax of logic programs into terms and rules.
//
// A program is a sequence of clauses. A clause is a head optionally followed by ":-" and a body, terminated by a
// period. A body is a conjunction of goals separated by "," and alternatives of conjunctions are separated by ";".
// Every alternative of a body becomes a rule on its own.
package syntax

import (
	"strconv"

	"github.com/ichiban/horn/term"
)

// ParseProgram parses text into rules in the order of appearance.
// It fails with *Error on the first syntax error and returns no rules.
func ParseProgram(text string) ([]term.Rule, error) {
	return newGrammar().program.run(text)
}

// ParseQuery parses text into alternatives of conjunctions of goals. The terminating period is optional.
func ParseQuery(text string) ([][]*term.Compound, error) {
	return newGrammar().query.run(text)
}

// ParseTerm parses text into a term. The terminating period is optional.
func ParseTerm(text string) (term.Term, error) {
	return newGrammar().term.run(text)
}

type grammar struct {
	expr    parser[term.Term]
	program parser[[]term.Rule]
	query   parser[[][]*term.Compound]
	term    parser[term.Term]
}

func newGrammar() *grammar {
	var g grammar
	expr := lazy(func() parser[term.Term] {
		return g.expr
	})

	variable := fmap(token(TokenVariable), func(t Token) term.Term {
		return term.NewVariable(t.Val)
	})

	args := between(adjacent(TokenParenL), sepBy1(expr, token(TokenComma)), token(TokenParenR))
	name := alt(token(TokenAtom), token(TokenQuoted))
	named := bind(name, func(n Token) parser[term.Term] {
		return alt(
			fmap(args, func(as []term.Term) term.Term {
				return term.Atom(n.Val).Apply(as...)
			}),
			pure[term.Term](term.Atom(n.Val)),
		)
	})

	list := right(token(TokenBracketL), bind(sepBy1(expr, token(TokenComma)), func(items []term.Term) parser[term.Term] {
		rest := opt(right(token(TokenBar), expr), term.Term(term.EmptyList))
		return left(fmap(rest, func(rest term.Term) term.Term {
			return term.ListRest(rest, items...)
		}), token(TokenBracketR))
	}))

	primary := alt(
		between(token(TokenParenL), expr, token(TokenParenR)),
		list,
		parser[term.Term](number),
		variable,
		named,
	)

	operator := satisfy("operator", func(t Token) bool {
		return t.Kind == TokenAtom && term.IsInfix(term.Atom(t.Val))
	})

	g.expr = bind(primary, func(l term.Term) parser[term.Term] {
		return opt(bind(operator, func(op Token) parser[term.Term] {
			return fmap(primary, func(r term.Term) term.Term {
				return term.Atom(op.Val).Apply(l, r)
			})
		}), l)
	})

	goal := callable(g.expr, true)
	body := sepBy1(sepBy1(goal, token(TokenComma)), token(TokenSemicolon))

	clause := bind(callable(g.expr, false), func(head *term.Compound) parser[[]term.Rule] {
		rules := alt(
			right(symbol(TokenAtom, ":-"), fmap(body, func(alts [][]*term.Compound) []term.Rule {
				rs := make([]term.Rule, len(alts))
				for i, premises := range alts {
					rs[i] = term.NewRule(head, premises...)
				}
				return rs
			})),
			pure([]term.Rule{term.NewRule(head)}),
		)
		return left(rules, token(TokenPeriod))
	})

	g.program = left(fmap(many(clause), func(rss [][]term.Rule) []term.Rule {
		var rules []term.Rule
		for _, rs := range rss {
			rules = append(rules, rs...)
		}
		return rules
	}), token(TokenEOS))

	period := opt(token(TokenPeriod), Token{})
	g.query = left(left(body, period), token(TokenEOS))
	g.term = left(left(g.expr, period), token(TokenEOS))

	return &g
}

func number(s *state, pos int) (term.Term, int, bool) {
	t, next, ok := token(TokenInteger)(s, pos)
	if !ok {
		return nil, pos, false
	}
	n, err := strconv.ParseInt(t.Val, 10, 64)
	if err != nil {
		s.fail(pos, "64-bit integer")
		return nil, pos, false
	}
	return term.Number(n), next, true
}

// callable turns the result of p into a goal. A variable goal becomes call/1 of the variable if goal is set.
func callable(p parser[term.Term], goal bool) parser[*term.Compound] {
	return func(s *state, pos int) (*term.Compound, int, bool) {
		t, next, ok := p(s, pos)
		if !ok {
			return nil, pos, false
		}
		switch t := t.(type) {
		case term.Atom:
			return t.Apply(), next, true
		case *term.Compound:
			return t, next, true
		case term.Variable:
			if goal {
				return term.MustCompound(term.CallFunctor, t), next, true
			}
		}
		s.reject(pos, "callable term")
		return nil, pos, false
	}
}

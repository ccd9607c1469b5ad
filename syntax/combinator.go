package syntax

import (
	"slices"
)

// state is shared by the parsers for one input. It remembers the furthest failure so that the error points at
// the most plausible culprit instead of the place the last alternative gave up.
type state struct {
	input    string
	tokens   []Token
	furthest int
	expected []string
}

func (s *state) fail(pos int, expected string) {
	switch {
	case pos > s.furthest:
		s.furthest = pos
		s.expected = []string{expected}
	case pos == s.furthest && !slices.Contains(s.expected, expected):
		s.expected = append(s.expected, expected)
	}
}

// reject records a failure at pos which overrides the ones recorded beyond pos.
// It's for terms which were read fine but can't serve where they appear.
func (s *state) reject(pos int, expected string) {
	s.furthest = pos
	s.expected = []string{expected}
}

func (s *state) err() *Error {
	return newError(s.input, s.tokens[s.furthest].Offset, s.expected...)
}

// parser consumes tokens from pos and returns a value and the position right after the consumed tokens.
type parser[T any] func(s *state, pos int) (T, int, bool)

func (p parser[T]) run(input string) (T, error) {
	var zero T
	tokens, err := NewLexer(input).Tokens()
	if err != nil {
		return zero, err
	}
	s := state{input: input, tokens: tokens}
	v, _, ok := p(&s, 0)
	if !ok {
		return zero, s.err()
	}
	return v, nil
}

func satisfy(expected string, f func(Token) bool) parser[Token] {
	return func(s *state, pos int) (Token, int, bool) {
		t := s.tokens[pos]
		if !f(t) {
			s.fail(pos, expected)
			return Token{}, pos, false
		}
		if t.Kind == TokenEOS {
			return t, pos, true
		}
		return t, pos + 1, true
	}
}

func token(k TokenKind) parser[Token] {
	return satisfy(k.String(), func(t Token) bool {
		return t.Kind == k
	})
}

func symbol(k TokenKind, val string) parser[Token] {
	return satisfy(val, func(t Token) bool {
		return t.Kind == k && t.Val == val
	})
}

// adjacent matches a token of kind k which immediately follows the previous token without a layout in between.
func adjacent(k TokenKind) parser[Token] {
	return func(s *state, pos int) (Token, int, bool) {
		if pos == 0 || s.tokens[pos].Offset != s.tokens[pos-1].End {
			s.fail(pos, k.String())
			return Token{}, pos, false
		}
		return token(k)(s, pos)
	}
}

func pure[T any](v T) parser[T] {
	return func(_ *state, pos int) (T, int, bool) {
		return v, pos, true
	}
}

func failure[T any](expected string) parser[T] {
	return func(s *state, pos int) (T, int, bool) {
		var zero T
		s.fail(pos, expected)
		return zero, pos, false
	}
}

func bind[A, B any](p parser[A], f func(A) parser[B]) parser[B] {
	return func(s *state, pos int) (B, int, bool) {
		a, next, ok := p(s, pos)
		if !ok {
			var zero B
			return zero, pos, false
		}
		b, next, ok := f(a)(s, next)
		if !ok {
			return b, pos, false
		}
		return b, next, true
	}
}

func fmap[A, B any](p parser[A], f func(A) B) parser[B] {
	return bind(p, func(a A) parser[B] {
		return pure(f(a))
	})
}

// left runs p and then q and returns the value of p.
func left[A, B any](p parser[A], q parser[B]) parser[A] {
	return bind(p, func(a A) parser[A] {
		return fmap(q, func(B) A {
			return a
		})
	})
}

// right runs p and then q and returns the value of q.
func right[A, B any](p parser[A], q parser[B]) parser[B] {
	return bind(p, func(A) parser[B] {
		return q
	})
}

func between[O, C, T any](opening parser[O], p parser[T], closing parser[C]) parser[T] {
	return left(right(opening, p), closing)
}

// alt tries the parsers in order and returns the result of the first one which succeeds.
func alt[T any](ps ...parser[T]) parser[T] {
	return func(s *state, pos int) (T, int, bool) {
		for _, p := range ps {
			if v, next, ok := p(s, pos); ok {
				return v, next, true
			}
		}
		var zero T
		return zero, pos, false
	}
}

func opt[T any](p parser[T], def T) parser[T] {
	return alt(p, pure(def))
}

func many[T any](p parser[T]) parser[[]T] {
	return func(s *state, pos int) ([]T, int, bool) {
		var vs []T
		for {
			v, next, ok := p(s, pos)
			if !ok || next == pos {
				return vs, pos, true
			}
			vs = append(vs, v)
			pos = next
		}
	}
}

func sepBy1[T, S any](p parser[T], sep parser[S]) parser[[]T] {
	return bind(p, func(v T) parser[[]T] {
		return fmap(many(right(sep, p)), func(vs []T) []T {
			return append([]T{v}, vs...)
		})
	})
}

// lazy defers building p so that recursive grammars can refer to themselves.
func lazy[T any](f func() parser[T]) parser[T] {
	return func(s *state, pos int) (T, int, bool) {
		return f()(s, pos)
	}
}

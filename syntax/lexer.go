package syntax

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer turns text into tokens.
type Lexer struct {
	input  string
	pos    int
	width  int
	start  int
	tokens []Token
}

// NewLexer creates a lexer with an input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Next returns the next token.
func (l *Lexer) Next() (Token, error) {
	state := l.init
	for state != nil && len(l.tokens) == 0 {
		var err error
		state, err = state(l.next())
		if err != nil {
			return Token{}, err
		}
	}

	var t Token
	t, l.tokens = l.tokens[0], l.tokens[1:]
	return t, nil
}

// Tokens returns all the tokens in the input, ending with TokenEOS.
func (l *Lexer) Tokens() ([]Token, error) {
	var ts []Token
	for {
		t, err := l.Next()
		if err != nil {
			return nil, err
		}
		ts = append(ts, t)
		if t.Kind == TokenEOS {
			return ts, nil
		}
	}
}

const etx = 0x2

func (l *Lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return etx
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += w
	return r
}

func (l *Lexer) backup() {
	l.pos -= l.width
}

func (l *Lexer) begin() {
	l.start = l.pos - l.width
}

func (l *Lexer) emit(k TokenKind, val string) {
	l.tokens = append(l.tokens, Token{Kind: k, Val: val, Offset: l.start, End: l.pos})
}

func (l *Lexer) errorf(expected string) error {
	return newError(l.input, l.pos-l.width, expected)
}

// Token is a smallest meaningful unit of source text.
type Token struct {
	Kind TokenKind
	Val  string

	// Offset and End are the byte offsets of the token in the input.
	Offset, End int
}

func (t Token) String() string {
	return fmt.Sprintf("<%s %s>", t.Kind, t.Val)
}

// TokenKind is a type of Token.
type TokenKind byte

const (
	// TokenEOS represents an end of token stream.
	TokenEOS TokenKind = iota

	// TokenVariable represents a variable token.
	TokenVariable

	// TokenInteger represents an integer token.
	TokenInteger

	// TokenAtom represents a lowercase, graphic, or solo atom token.
	TokenAtom

	// TokenQuoted represents a quoted atom token.
	TokenQuoted

	// TokenComma represents a comma.
	TokenComma

	// TokenSemicolon represents a semicolon.
	TokenSemicolon

	// TokenPeriod represents an end of a clause.
	TokenPeriod

	// TokenBar represents a bar.
	TokenBar

	// TokenParenL represents an open parenthesis.
	TokenParenL

	// TokenParenR represents a close parenthesis.
	TokenParenR

	// TokenBracketL represents an open bracket.
	TokenBracketL

	// TokenBracketR represents a close bracket.
	TokenBracketR

	tokenLen
)

func (k TokenKind) String() string {
	return [tokenLen]string{
		TokenEOS:       "eos",
		TokenVariable:  "variable",
		TokenInteger:   "integer",
		TokenAtom:      "atom",
		TokenQuoted:    "quoted atom",
		TokenComma:     "comma",
		TokenSemicolon: "semicolon",
		TokenPeriod:    "period",
		TokenBar:       "bar",
		TokenParenL:    "paren L",
		TokenParenR:    "paren R",
		TokenBracketL:  "bracket L",
		TokenBracketR:  "bracket R",
	}[k]
}

type lexState func(rune) (lexState, error)

func (l *Lexer) init(r rune) (lexState, error) {
	l.begin()
	switch {
	case r == etx:
		l.emit(TokenEOS, "")
		return nil, nil
	case unicode.IsSpace(r):
		return l.init, nil
	case r == '%':
		return l.singleLineComment(l.init), nil
	case unicode.IsLower(r):
		var b strings.Builder
		_, _ = b.WriteRune(r)
		return l.normalAtom(&b), nil
	case unicode.IsUpper(r), r == '_':
		var b strings.Builder
		_, _ = b.WriteRune(r)
		return l.variableName(&b), nil
	case unicode.IsDigit(r):
		var b strings.Builder
		_, _ = b.WriteRune(r)
		return l.integer(&b), nil
	case r == '-':
		return l.sign, nil
	case r == '\'':
		var b strings.Builder
		return l.quotedAtom(&b), nil
	case r == '.':
		return l.period, nil
	case isGraphic(r):
		var b strings.Builder
		_, _ = b.WriteRune(r)
		return l.graphic(&b), nil
	case r == '!':
		l.emit(TokenAtom, "!")
		return nil, nil
	case r == ',':
		l.emit(TokenComma, ",")
		return nil, nil
	case r == ';':
		l.emit(TokenSemicolon, ";")
		return nil, nil
	case r == '|':
		l.emit(TokenBar, "|")
		return nil, nil
	case r == '(':
		l.emit(TokenParenL, "(")
		return nil, nil
	case r == ')':
		l.emit(TokenParenR, ")")
		return nil, nil
	case r == '[':
		return l.squareBracket, nil
	case r == ']':
		l.emit(TokenBracketR, "]")
		return nil, nil
	default:
		return nil, l.errorf("token")
	}
}

func (l *Lexer) normalAtom(b *strings.Builder) lexState {
	return func(r rune) (lexState, error) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			_, _ = b.WriteRune(r)
			return l.normalAtom(b), nil
		default:
			l.backup()
			l.emit(TokenAtom, b.String())
			return nil, nil
		}
	}
}

func (l *Lexer) variableName(b *strings.Builder) lexState {
	return func(r rune) (lexState, error) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			_, _ = b.WriteRune(r)
			return l.variableName(b), nil
		default:
			l.backup()
			l.emit(TokenVariable, b.String())
			return nil, nil
		}
	}
}

func (l *Lexer) integer(b *strings.Builder) lexState {
	return func(r rune) (lexState, error) {
		switch {
		case unicode.IsDigit(r):
			_, _ = b.WriteRune(r)
			return l.integer(b), nil
		case unicode.IsLetter(r), r == '_':
			return nil, l.errorf("digit")
		default:
			l.backup()
			l.emit(TokenInteger, b.String())
			return nil, nil
		}
	}
}

func (l *Lexer) sign(r rune) (lexState, error) {
	var b strings.Builder
	_, _ = b.WriteRune('-')
	switch {
	case unicode.IsDigit(r):
		_, _ = b.WriteRune(r)
		return l.integer(&b), nil
	default:
		l.backup()
		return l.graphic(&b), nil
	}
}

func (l *Lexer) period(r rune) (lexState, error) {
	switch {
	case r == etx, r == '%', unicode.IsSpace(r):
		l.backup()
		l.emit(TokenPeriod, ".")
		return nil, nil
	default:
		var b strings.Builder
		_, _ = b.WriteRune('.')
		l.backup()
		return l.graphic(&b), nil
	}
}

func (l *Lexer) graphic(b *strings.Builder) lexState {
	return func(r rune) (lexState, error) {
		switch {
		case isGraphic(r):
			_, _ = b.WriteRune(r)
			return l.graphic(b), nil
		default:
			l.backup()
			l.emit(TokenAtom, b.String())
			return nil, nil
		}
	}
}

func (l *Lexer) squareBracket(r rune) (lexState, error) {
	switch {
	case r == ']':
		l.emit(TokenAtom, "[]")
		return nil, nil
	default:
		l.backup()
		l.emit(TokenBracketL, "[")
		return nil, nil
	}
}

func (l *Lexer) quotedAtom(b *strings.Builder) lexState {
	return func(r rune) (lexState, error) {
		switch r {
		case etx:
			return nil, l.errorf("closing quote")
		case '\'':
			return l.quotedAtomQuote(b), nil
		case '\\':
			return l.quotedAtomSlash(b), nil
		default:
			l.writeRaw(b, r)
			return l.quotedAtom(b), nil
		}
	}
}

// writeRaw writes r into b. A byte which isn't valid UTF-8 is kept as it is.
func (l *Lexer) writeRaw(b *strings.Builder, r rune) {
	if r == utf8.RuneError && l.width == 1 {
		_ = b.WriteByte(l.input[l.pos-1])
		return
	}
	_, _ = b.WriteRune(r)
}

func (l *Lexer) quotedAtomQuote(b *strings.Builder) lexState {
	return func(r rune) (lexState, error) {
		switch r {
		case '\'':
			_, _ = b.WriteRune(r)
			return l.quotedAtom(b), nil
		default:
			l.backup()
			l.emit(TokenQuoted, b.String())
			return nil, nil
		}
	}
}

var escapes = map[rune]rune{
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
	'`':  '`',
}

func (l *Lexer) quotedAtomSlash(b *strings.Builder) lexState {
	return func(r rune) (lexState, error) {
		switch {
		case r == etx:
			return nil, l.errorf("escape sequence")
		case r == '\n':
			return l.quotedAtom(b), nil
		case r == 'x':
			return l.quotedAtomSlashCode(b, 0), nil
		default:
			e, ok := escapes[r]
			if !ok {
				return nil, l.errorf("escape sequence")
			}
			_, _ = b.WriteRune(e)
			return l.quotedAtom(b), nil
		}
	}
}

func (l *Lexer) quotedAtomSlashCode(b *strings.Builder, code rune) lexState {
	return func(r rune) (lexState, error) {
		switch {
		case r == '\\':
			if !utf8.ValidRune(code) {
				return nil, l.errorf("valid code point")
			}
			_, _ = b.WriteRune(code)
			return l.quotedAtom(b), nil
		case code > unicode.MaxRune:
			return nil, l.errorf("valid code point")
		default:
			d, ok := hexDigit(r)
			if !ok {
				return nil, l.errorf("hexadecimal digit")
			}
			return l.quotedAtomSlashCode(b, code<<4|d), nil
		}
	}
}

func hexDigit(r rune) (rune, bool) {
	switch {
	case '0' <= r && r <= '9':
		return r - '0', true
	case 'a' <= r && r <= 'f':
		return r - 'a' + 10, true
	case 'A' <= r && r <= 'F':
		return r - 'A' + 10, true
	default:
		return 0, false
	}
}

func (l *Lexer) singleLineComment(ctx lexState) lexState {
	return func(r rune) (lexState, error) {
		switch r {
		case etx:
			l.backup()
			return ctx, nil
		case '\n':
			return ctx, nil
		default:
			return l.singleLineComment(ctx), nil
		}
	}
}

func isGraphic(r rune) bool {
	return strings.ContainsRune("#$&*+-./:<=>?@^~\\", r)
}

package term

import (
	"fmt"
	"regexp"
	"strings"
)

const graphicChars = `#$&*+-./:<=>?@^~\`

var (
	unquotedAtomPattern     = regexp.MustCompile(`\A[a-z][a-zA-Z0-9_]*\z`)
	graphicAtomPattern      = regexp.MustCompile(`\A[#$&*+\-./:<=>?@^~\\]+\z`)
	quotedAtomEscapePattern = regexp.MustCompile("[[:cntrl:]]|\\\\|'")
)

// WriteOptions describes options to write terms.
type WriteOptions struct {
	// Quoted sets if atoms are quoted as needed so that the output can be read back.
	Quoted bool
}

var defaultWriteOptions = WriteOptions{Quoted: true}

// infixOperators are binary functors written in infix notation.
var infixOperators = map[Atom]struct{}{
	"=":   {},
	`\=`:  {},
	"==":  {},
	`\==`: {},
	"<":   {},
	">":   {},
	"=<":  {},
	">=":  {},
	"@<":  {},
	"@>":  {},
	"@=<": {},
	"@>=": {},
}

// IsInfix checks if a is written in infix notation when it's a functor of arity 2.
func IsInfix(a Atom) bool {
	_, ok := infixOperators[a]
	return ok
}

func quote(s string) string {
	return fmt.Sprintf("'%s'", quotedAtomEscapePattern.ReplaceAllStringFunc(s, quotedAtomEscape))
}

func quotedAtomEscape(s string) string {
	switch s {
	case "\a":
		return `\a`
	case "\b":
		return `\b`
	case "\f":
		return `\f`
	case "\n":
		return `\n`
	case "\r":
		return `\r`
	case "\t":
		return `\t`
	case "\v":
		return `\v`
	case `\`:
		return `\\`
	case `'`:
		return `\'`
	default:
		var sb strings.Builder
		for _, r := range s {
			_, _ = fmt.Fprintf(&sb, `\x%x\`, r)
		}
		return sb.String()
	}
}

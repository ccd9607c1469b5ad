package syntax

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrSyntax is the error that every *Error matches with errors.Is.
var ErrSyntax = errors.New("syntax error")

const fragmentLen = 24

// Error is an error that signifies the input doesn't follow the grammar.
type Error struct {
	// Fragment is the input around the offending position.
	Fragment string
	// Offset is the byte offset of the offending position.
	Offset int
	// Expected lists the descriptions of what would have been accepted at Offset.
	Expected []string
}

func newError(input string, offset int, expected ...string) *Error {
	return &Error{
		Fragment: fragment(input, offset),
		Offset:   offset,
		Expected: expected,
	}
}

func fragment(input string, offset int) string {
	s := input[offset:]
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > fragmentLen {
		n := fragmentLen
		for n > 0 && !utf8.RuneStart(s[n]) {
			n--
		}
		s = s[:n]
	}
	return s
}

func (e *Error) Error() string {
	var sb strings.Builder
	_, _ = fmt.Fprintf(&sb, "%s at offset %d", ErrSyntax, e.Offset)
	if e.Fragment == "" {
		sb.WriteString(" (end of input)")
	} else {
		_, _ = fmt.Fprintf(&sb, " near %q", e.Fragment)
	}
	if len(e.Expected) > 0 {
		_, _ = fmt.Fprintf(&sb, ": expected %s", strings.Join(e.Expected, " or "))
	}
	return sb.String()
}

// Is makes errors.Is(err, ErrSyntax) hold.
func (e *Error) Is(target error) bool {
	return target == ErrSyntax
}

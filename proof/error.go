package proof

import (
	"errors"
	"fmt"

	"github.com/ichiban/horn/builtin"
	"github.com/ichiban/horn/term"
)

var (
	// ErrDepthExceeded is the error that signifies the search went deeper than MaxDepth.
	ErrDepthExceeded = errors.New("depth exceeded")

	// ErrInternal is the error that every *InternalError matches with errors.Is.
	ErrInternal = errors.New("internal error")
)

// InternalError is an error that signifies a broken invariant of the engine, as opposed to a failed proof or a
// malformed input.
type InternalError struct {
	Goal   *term.Compound
	Kind   builtin.Kind
	Reason string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %s (%s): %s", ErrInternal, e.Goal.Functor(), e.Kind, e.Reason)
}

// Is makes errors.Is(err, ErrInternal) hold.
func (e *InternalError) Is(target error) bool {
	return target == ErrInternal
}

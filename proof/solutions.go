package proof

import (
	"github.com/ichiban/horn/term"
	"github.com/ichiban/horn/unify"
)

// Solutions is the result of Find. Everytime the Next method is called, it resumes the search for the next solution.
// By calling the Current method, you can retrieve the solution.
// Close releases the paused search as soon as no more solutions are needed.
type Solutions struct {
	vars    []term.Variable
	next    func() (unify.Result, error, bool)
	stop    func()
	current unify.Result
	err     error
	closed  bool
}

// Next prepares the next solution for reading with the Current method. It returns true if it finds another solution,
// or false if there's no further solutions or if there's an error.
func (s *Solutions) Next() bool {
	if s.closed {
		return false
	}
	r, err, ok := s.next()
	switch {
	case !ok:
		_ = s.Close()
		return false
	case err != nil:
		s.err = err
		_ = s.Close()
		return false
	default:
		s.current = r
		return true
	}
}

// Current returns the solution which the last Next call found.
func (s *Solutions) Current() unify.Result {
	return s.current
}

// Err returns the error which stopped the search, if any.
func (s *Solutions) Err() error {
	return s.err
}

// Close terminates the search for other solutions. It's safe to call Close more than once.
func (s *Solutions) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.stop()
	return nil
}

// Vars returns the variables in the queries in the order of their first occurrences.
func (s *Solutions) Vars() []term.Variable {
	return append([]term.Variable(nil), s.vars...)
}

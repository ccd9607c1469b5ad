package term

import (
	"fmt"
	"io"
	"strings"
)

// Anonymous is the name of the variable which never shares a binding across occurrences.
const Anonymous = "_"

// Variable is a logic variable.
// Temporary variables are the ones the engine generates while renaming rules apart.
type Variable struct {
	Name      string
	Temporary bool
}

// NewVariable returns a user-written variable.
func NewVariable(name string) Variable {
	return Variable{Name: name}
}

// Anonymous checks if v is the anonymous variable.
func (v Variable) Anonymous() bool {
	return v.Name == Anonymous
}

func (v Variable) String() string {
	return toString(v)
}

// WriteTerm writes the variable into w.
func (v Variable) WriteTerm(w io.Writer, _ WriteOptions) error {
	_, err := fmt.Fprint(w, v.Name)
	return err
}

func (Variable) kind() kind {
	return kindVariable
}

func compareVariables(v, w Variable) int {
	if d := strings.Compare(v.Name, w.Name); d != 0 {
		return d
	}
	switch {
	case v.Temporary == w.Temporary:
		return 0
	case w.Temporary:
		return -1
	default:
		return 1
	}
}

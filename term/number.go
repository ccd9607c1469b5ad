package term

import (
	"fmt"
	"io"
	"strconv"
)

// Number is an integer.
type Number int64

func (n Number) String() string {
	return toString(n)
}

// WriteTerm writes the number into w.
func (n Number) WriteTerm(w io.Writer, _ WriteOptions) error {
	_, err := fmt.Fprint(w, strconv.FormatInt(int64(n), 10))
	return err
}

func (Number) kind() kind {
	return kindNumber
}

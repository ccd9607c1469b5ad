package term

import (
	"encoding/binary"
	"iter"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Seq is an immutable ordered sequence of terms compared by value.
type Seq struct {
	items []Term
}

// NewSeq returns a sequence of ts.
func NewSeq(ts ...Term) Seq {
	return Seq{items: append([]Term(nil), ts...)}
}

// Len returns the number of the elements.
func (s Seq) Len() int {
	return len(s.items)
}

// At returns the i-th element.
func (s Seq) At(i int) Term {
	return s.items[i]
}

// All iterates over the elements with their indices.
func (s Seq) All() iter.Seq2[int, Term] {
	return func(yield func(int, Term) bool) {
		for i, t := range s.items {
			if !yield(i, t) {
				return
			}
		}
	}
}

// Append returns a new sequence with ts appended. The receiver is left intact.
func (s Seq) Append(ts ...Term) Seq {
	items := make([]Term, 0, len(s.items)+len(ts))
	items = append(items, s.items...)
	items = append(items, ts...)
	return Seq{items: items}
}

// Slice returns a copy of the elements.
func (s Seq) Slice() []Term {
	return append([]Term(nil), s.items...)
}

// Contains checks if one of the elements is structurally equal to t.
func (s Seq) Contains(t Term) bool {
	for _, e := range s.items {
		if Equal(e, t) {
			return true
		}
	}
	return false
}

// Equal checks if s and o have structurally equal elements in the same order.
func (s Seq) Equal(o Seq) bool {
	if len(s.items) != len(o.items) {
		return false
	}
	for i := range s.items {
		if !Equal(s.items[i], o.items[i]) {
			return false
		}
	}
	return true
}

// Hash returns a hash of s. Equal sequences have the same hash.
func (s Seq) Hash() uint64 {
	d := xxhash.New()
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], uint64(len(s.items)))
	_, _ = d.Write(buf[:n])
	for _, t := range s.items {
		writeHash(d, t)
	}
	return d.Sum64()
}

func (s Seq) String() string {
	var sb strings.Builder
	ew := errWriter{w: &sb}
	ew.print("<")
	for i, t := range s.items {
		if i > 0 {
			ew.print(", ")
		}
		ew.write(t, defaultWriteOptions)
	}
	ew.print(">")
	return sb.String()
}

package term

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Hash returns a hash of t. Structurally equal terms have the same hash.
func Hash(t Term) uint64 {
	d := xxhash.New()
	writeHash(d, t)
	return d.Sum64()
}

func writeHash(d *xxhash.Digest, t Term) {
	var buf [binary.MaxVarintLen64 + 1]byte
	buf[0] = byte(t.kind())
	switch t := t.(type) {
	case Variable:
		_, _ = d.Write(buf[:1])
		_, _ = d.WriteString(t.Name)
		buf[0] = 0
		if t.Temporary {
			buf[0] = 1
		}
		_, _ = d.Write(buf[:1])
	case Number:
		n := binary.PutVarint(buf[1:], int64(t))
		_, _ = d.Write(buf[:n+1])
	case Atom:
		_, _ = d.Write(buf[:1])
		_, _ = d.WriteString(string(t))
		buf[0] = 0
		_, _ = d.Write(buf[:1])
	case *Compound:
		_, _ = d.Write(buf[:1])
		_, _ = d.WriteString(string(t.functor.Name))
		n := binary.PutUvarint(buf[1:], uint64(t.functor.Arity))
		buf[0] = 0
		_, _ = d.Write(buf[:n+1])
		for _, a := range t.args {
			writeHash(d, a)
		}
	}
}

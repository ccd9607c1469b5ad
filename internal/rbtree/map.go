package rbtree

import "iter"

type color int8

const (
	red color = iota
	black
)

// Map is a persistent map backed by a binary search tree.
// Set never modifies the receiver. It returns a new Map which shares all the untouched nodes with the old one.
// This implementation is based on red-black tree from Purely Functional Data Structures by Okasaki.
type Map[K, V any] struct {
	root    *node[K, V]
	len     int
	compare func(K, K) int
}

// New returns an empty Map ordered by compare.
func New[K, V any](compare func(K, K) int) Map[K, V] {
	return Map[K, V]{compare: compare}
}

// Len returns the number of keys.
func (t Map[K, V]) Len() int {
	return t.len
}

// Set returns a new Map which associates key with value.
func (t Map[K, V]) Set(key K, value V) Map[K, V] {
	if t.compare == nil {
		panic("rbtree: Set on a Map without comparison")
	}
	root, added := insert(t.compare, t.root, elem[K, V]{key: key, value: value})
	root = &node[K, V]{
		color: black,
		left:  root.left,
		elem:  root.elem,
		right: root.right,
	}
	n := t.len
	if added {
		n++
	}
	return Map[K, V]{root: root, len: n, compare: t.compare}
}

// Get returns the associated value for a key.
func (t Map[K, V]) Get(key K) (V, bool) {
	for n := t.root; n != nil; {
		switch c := t.compare(key, n.elem.key); {
		case c < 0:
			n = n.left
		case c > 0:
			n = n.right
		default:
			return n.elem.value, true
		}
	}
	var zero V
	return zero, false
}

// All iterates over the pairs in ascending order of keys.
func (t Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		walk(t.root, yield)
	}
}

func walk[K, V any](n *node[K, V], yield func(K, V) bool) bool {
	if n == nil {
		return true
	}
	return walk(n.left, yield) && yield(n.elem.key, n.elem.value) && walk(n.right, yield)
}

type node[K, V any] struct {
	color       color
	left, right *node[K, V]
	elem        elem[K, V]
}

type elem[K, V any] struct {
	key   K
	value V
}

func insert[K, V any](compare func(K, K) int, n *node[K, V], e elem[K, V]) (*node[K, V], bool) {
	if n == nil {
		return &node[K, V]{color: red, elem: e}, true
	}
	switch c := compare(e.key, n.elem.key); {
	case c < 0:
		l, added := insert(compare, n.left, e)
		return balance(&node[K, V]{
			color: n.color,
			left:  l,
			elem:  n.elem,
			right: n.right,
		}), added
	case c > 0:
		r, added := insert(compare, n.right, e)
		return balance(&node[K, V]{
			color: n.color,
			left:  n.left,
			elem:  n.elem,
			right: r,
		}), added
	default:
		return &node[K, V]{
			color: n.color,
			left:  n.left,
			elem:  e,
			right: n.right,
		}, false
	}
}

func isRed[K, V any](n *node[K, V]) bool {
	return n != nil && n.color == red
}

func balance[K, V any](n *node[K, V]) *node[K, V] {
	if n.color != black {
		return n
	}

	var (
		a, b, c, d *node[K, V]
		x, y, z    elem[K, V]
	)
	switch {
	case isRed(n.left) && isRed(n.left.left):
		l, ll := n.left, n.left.left
		a, b, c, d = ll.left, ll.right, l.right, n.right
		x, y, z = ll.elem, l.elem, n.elem
	case isRed(n.left) && isRed(n.left.right):
		l, lr := n.left, n.left.right
		a, b, c, d = l.left, lr.left, lr.right, n.right
		x, y, z = l.elem, lr.elem, n.elem
	case isRed(n.right) && isRed(n.right.left):
		r, rl := n.right, n.right.left
		a, b, c, d = n.left, rl.left, rl.right, r.right
		x, y, z = n.elem, rl.elem, r.elem
	case isRed(n.right) && isRed(n.right.right):
		r, rr := n.right, n.right.right
		a, b, c, d = n.left, r.left, rr.left, rr.right
		x, y, z = n.elem, r.elem, rr.elem
	default:
		return n
	}
	return &node[K, V]{
		color: red,
		left:  &node[K, V]{color: black, left: a, elem: x, right: b},
		elem:  y,
		right: &node[K, V]{color: black, left: c, elem: z, right: d},
	}
}

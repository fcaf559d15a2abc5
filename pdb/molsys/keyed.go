package molsys

import (
	"iter"
	"slices"
)

// keyed holds the children of one node. Children live in nodes in the
// order they were made and never move, so a *V stays valid. index finds
// a child by key and order lists the positions in nodes sorted by key.
// Pdb files are nearly always sorted, so the common case is an append.
type keyed[K comparable, V any] struct {
	nodes []*V
	keys  []K
	index map[K]int
	order []int
	cmp   func(a, b K) int
}

func newKeyed[K comparable, V any](cmp func(a, b K) int) keyed[K, V] {
	return keyed[K, V]{index: make(map[K]int), cmp: cmp}
}

func (k *keyed[K, V]) get(key K) (*V, bool) {
	i, ok := k.index[key]
	if !ok {
		return nil, false
	}
	return k.nodes[i], true
}

// add stores a new child. The caller has checked the key is not there.
func (k *keyed[K, V]) add(key K, v *V) {
	i := len(k.nodes)
	k.nodes = append(k.nodes, v)
	k.keys = append(k.keys, key)
	k.index[key] = i
	n := len(k.order)
	if n == 0 || k.cmp(k.keys[k.order[n-1]], key) < 0 {
		k.order = append(k.order, i)
		return
	}
	pos, _ := slices.BinarySearchFunc(k.order, key, func(j int, key K) int {
		return k.cmp(k.keys[j], key)
	})
	k.order = slices.Insert(k.order, pos, i)
}

func (k *keyed[K, V]) getOrCreate(key K, mk func() *V) *V {
	if v, ok := k.get(key); ok {
		return v
	}
	v := mk()
	k.add(key, v)
	return v
}

func (k *keyed[K, V]) len() int { return len(k.nodes) }

// all walks the children in key order.
func (k *keyed[K, V]) all() iter.Seq[*V] {
	return func(yield func(*V) bool) {
		for _, i := range k.order {
			if !yield(k.nodes[i]) {
				return
			}
		}
	}
}

func (k *keyed[K, V]) sortedKeys() []K {
	ret := make([]K, len(k.order))
	for j, i := range k.order {
		ret[j] = k.keys[i]
	}
	return ret
}

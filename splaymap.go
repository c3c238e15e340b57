// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package splaymap implements in-memory ordered maps backed by splay trees.
// [Map][K, V] is suitable for ordered types K,
// while [MapFunc][K, V] supports arbitrary keys and comparison functions.
//
// Every lookup, insertion and deletion moves the accessed key to the root of
// the tree, so keys that were touched recently are cheap to reach again.
// Operations cost amortized O(log n); a single operation may cost O(n).
//
// Maps are not safe for concurrent use. Callers sharing a map between
// goroutines must synchronize every access, including iteration.
package splaymap

// The implementation is a top-down splay tree. See:
// https://en.wikipedia.org/wiki/Splay_tree
// Sleator and Tarjan, "Self-Adjusting Binary Search Trees", JACM 32(3), 1985.

import (
	"cmp"
	"fmt"
	"iter"
	"strings"
)

// A Map is a map[K]V ordered according to K's standard Go ordering,
// as defined by [cmp.Compare].
// The zero value of a Map is an empty Map ready to use.
type Map[K cmp.Ordered, V any] struct {
	t tree[K, V]
}

// A MapFunc is a map[K]V ordered according to an arbitrary comparison function.
// The zero value of a MapFunc is not meaningful since it has no comparison function.
// Use [NewMapFunc] to create a [MapFunc].
type MapFunc[K, V any] struct {
	t   tree[K, V]
	cmp func(K, K) int
}

// A node is a node in the splay tree.
// left and right own their subtrees; parent is a back-link, nil at the root.
type node[K, V any] struct {
	parent *node[K, V]
	left   *node[K, V]
	right  *node[K, V]
	key    K
	val    V
}

// tree is the state shared by Map and MapFunc.
type tree[K, V any] struct {
	root  *node[K, V]
	count int

	// gen counts structural changes: it is incremented whenever a key is
	// added or removed, and by Clear. Splaying does not change it.
	gen uint64

	// first and last cache the extremal nodes. They are valid only while
	// firstGen and lastGen equal gen.
	first, last       *node[K, V]
	firstGen, lastGen uint64

	entries *Entries[K, V]
}

// splayer is the interface implemented by both Map[K, V] and MapFunc[K, V]
// that enables a common implementation of the map operations.
type splayer[K, V any] interface {
	// base returns the tree state; the caller can read or write it.
	base() *tree[K, V]

	// compare orders two keys.
	compare(a, b K) int

	// check reports whether key can be compared at all.
	check(key K) error
}

func (m *Map[K, V]) base() *tree[K, V]     { return &m.t }
func (m *MapFunc[K, V]) base() *tree[K, V] { return &m.t }

func (m *Map[K, V]) compare(a, b K) int     { return cmp.Compare(a, b) }
func (m *MapFunc[K, V]) compare(a, b K) int { return m.cmp(a, b) }

func (m *Map[K, V]) check(K) error         { return nil }
func (m *MapFunc[K, V]) check(key K) error { return checkKey(m.cmp, key) }

// NewMapFunc returns a new MapFunc[K, V] ordered according to cmp.
// cmp must return a negative number, zero or a positive number as a is
// less than, equal to, or greater than b, and must describe a strict weak
// ordering that does not change over the lifetime of the map.
func NewMapFunc[K, V any](cmp func(K, K) int) *MapFunc[K, V] {
	return &MapFunc[K, V]{cmp: cmp}
}

// Collect returns a new Map holding the pairs of seq.
// If seq yields a key more than once, the last value wins.
func Collect[K cmp.Ordered, V any](seq iter.Seq2[K, V]) *Map[K, V] {
	m := new(Map[K, V])
	for k, v := range seq {
		m.Put(k, v)
	}
	return m
}

// CollectFunc returns a new MapFunc ordered by cmp holding the pairs of seq.
// If seq yields a key more than once, the last value wins.
func CollectFunc[K, V any](cmp func(K, K) int, seq iter.Seq2[K, V]) (*MapFunc[K, V], error) {
	m := NewMapFunc[K, V](cmp)
	for k, v := range seq {
		if _, _, err := m.Put(k, v); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Ordered is an ordered mapping whose ordering can be reused.
// Both *Map and *MapFunc implement it.
type Ordered[K, V any] interface {
	Comparator() func(K, K) int
	All() iter.Seq2[K, V]
}

// NewMapFuncFrom returns a new MapFunc with the same ordering and contents as src.
func NewMapFuncFrom[K, V any](src Ordered[K, V]) (*MapFunc[K, V], error) {
	return CollectFunc(src.Comparator(), src.All())
}

// Comparator returns the function that orders m's keys.
func (m *Map[K, V]) Comparator() func(K, K) int { return cmp.Compare[K] }

// Comparator returns the function that orders m's keys.
func (m *MapFunc[K, V]) Comparator() func(K, K) int { return m.cmp }

// Len returns the number of keys in m.
func (m *Map[K, V]) Len() int { return m.t.count }

// Len returns the number of keys in m.
func (m *MapFunc[K, V]) Len() int { return m.t.count }

// Get returns the value of m[key] and reports whether it exists.
// Get moves key, or a neighbor of key if it is missing, to the root.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if x := lookup(m, key); x != nil {
		return x.val, true
	}
	var zero V
	return zero, false
}

// Get returns the value of m[key] and reports whether it exists.
// Get moves key, or a neighbor of key if it is missing, to the root.
// It returns an error wrapping [ErrComparison] if key cannot be compared.
func (m *MapFunc[K, V]) Get(key K) (V, bool, error) {
	var zero V
	if err := m.check(key); err != nil {
		return zero, false, err
	}
	if x := lookup(m, key); x != nil {
		return x.val, true, nil
	}
	return zero, false, nil
}

// ContainsKey reports whether key is present in m.
func (m *Map[K, V]) ContainsKey(key K) bool {
	return lookup(m, key) != nil
}

// ContainsKey reports whether key is present in m.
// It returns an error wrapping [ErrComparison] if key cannot be compared.
func (m *MapFunc[K, V]) ContainsKey(key K) (bool, error) {
	if err := m.check(key); err != nil {
		return false, err
	}
	return lookup(m, key) != nil, nil
}

// Put sets m[key] = val.
// If the entry was present, Put returns the former value and true.
// Otherwise it returns the zero value and false.
func (m *Map[K, V]) Put(key K, val V) (old V, ok bool) {
	return put(m, key, val)
}

// Put sets m[key] = val.
// If the entry was present, Put returns the former value and true.
// Otherwise it returns the zero value and false.
// It returns an error wrapping [ErrComparison] if key cannot be compared;
// m is unchanged in that case.
func (m *MapFunc[K, V]) Put(key K, val V) (old V, ok bool, err error) {
	if err := m.check(key); err != nil {
		return old, false, err
	}
	old, ok = put(m, key, val)
	return old, ok, nil
}

// Remove deletes m[key] if it exists.
// If the entry was present, Remove returns its value and true.
func (m *Map[K, V]) Remove(key K) (old V, ok bool) {
	return remove(m, key)
}

// Remove deletes m[key] if it exists.
// If the entry was present, Remove returns its value and true.
// It returns an error wrapping [ErrComparison] if key cannot be compared.
func (m *MapFunc[K, V]) Remove(key K) (old V, ok bool, err error) {
	if err := m.check(key); err != nil {
		return old, false, err
	}
	old, ok = remove(m, key)
	return old, ok, nil
}

// FirstKey returns the smallest key in m.
// If m is empty, it returns [ErrEmpty].
func (m *Map[K, V]) FirstKey() (K, error) { return firstKey(m) }

// FirstKey returns the smallest key in m.
// If m is empty, it returns [ErrEmpty].
func (m *MapFunc[K, V]) FirstKey() (K, error) { return firstKey(m) }

// LastKey returns the largest key in m.
// If m is empty, it returns [ErrEmpty].
func (m *Map[K, V]) LastKey() (K, error) { return lastKey(m) }

// LastKey returns the largest key in m.
// If m is empty, it returns [ErrEmpty].
func (m *MapFunc[K, V]) LastKey() (K, error) { return lastKey(m) }

// Higher returns the entry with the least key strictly greater than key,
// and reports whether there is one. That entry becomes the root.
func (m *Map[K, V]) Higher(key K) (K, V, bool) {
	return higher(m, key)
}

// Higher returns the entry with the least key strictly greater than key,
// and reports whether there is one. That entry becomes the root.
func (m *MapFunc[K, V]) Higher(key K) (K, V, bool, error) {
	if err := m.check(key); err != nil {
		var (
			zk K
			zv V
		)
		return zk, zv, false, err
	}
	k, v, ok := higher(m, key)
	return k, v, ok, nil
}

// Clear deletes m[k] for all keys in m.
func (m *Map[K, V]) Clear() { m.t.clear() }

// Clear deletes m[k] for all keys in m.
func (m *MapFunc[K, V]) Clear() { m.t.clear() }

func (t *tree[K, V]) clear() {
	t.root = nil
	t.count = 0
	t.gen++
	t.first, t.last = nil, nil
}

// Iterator returns an Iterator positioned before the smallest key of m.
func (m *Map[K, V]) Iterator() *Iterator[K, V] { return newIterator(m) }

// Iterator returns an Iterator positioned before the smallest key of m.
func (m *MapFunc[K, V]) Iterator() *Iterator[K, V] { return newIterator(m) }

// All returns an iterator over the map m from smallest to largest key.
// It panics with an error wrapping [ErrConcurrentModification] if a key is
// added to or removed from m while the iteration is in progress.
func (m *Map[K, V]) All() iter.Seq2[K, V] { return all(m) }

// All returns an iterator over the map m from smallest to largest key.
// It panics with an error wrapping [ErrConcurrentModification] if a key is
// added to or removed from m while the iteration is in progress.
func (m *MapFunc[K, V]) All() iter.Seq2[K, V] { return all(m) }

// Keys returns an iterator over the keys of m in ascending order.
// It behaves like All.
func (m *Map[K, V]) Keys() iter.Seq[K] { return keys(m) }

// Keys returns an iterator over the keys of m in ascending order.
// It behaves like All.
func (m *MapFunc[K, V]) Keys() iter.Seq[K] { return keys(m) }

// Entries returns a view of m as a collection of key-value pairs.
// Every call returns the same view.
func (m *Map[K, V]) Entries() *Entries[K, V] { return entries(m) }

// Entries returns a view of m as a collection of key-value pairs.
// Every call returns the same view.
func (m *MapFunc[K, V]) Entries() *Entries[K, V] { return entries(m) }

// Clone returns a copy of m with the same shape.
func (m *Map[K, V]) Clone() *Map[K, V] {
	m2 := new(Map[K, V])
	m2.t.root = m.t.root.clone(nil)
	m2.t.count = m.t.count
	return m2
}

// Clone returns a copy of m with the same shape and comparison function.
func (m *MapFunc[K, V]) Clone() *MapFunc[K, V] {
	m2 := NewMapFunc[K, V](m.cmp)
	m2.t.root = m.t.root.clone(nil)
	m2.t.count = m.t.count
	return m2
}

func (x *node[K, V]) clone(parent *node[K, V]) *node[K, V] {
	if x == nil {
		return nil
	}
	x2 := &node[K, V]{parent: parent, key: x.key, val: x.val}
	x2.left = x.left.clone(x2)
	x2.right = x.right.clone(x2)
	return x2
}

// String returns m formatted as map[k1:v1 k2:v2 ...], in key order.
// It does not splay.
func (m *Map[K, V]) String() string { return format(m) }

// String returns m formatted as map[k1:v1 k2:v2 ...], in key order.
// It does not splay.
func (m *MapFunc[K, V]) String() string { return format(m) }

func format[K, V any](m splayer[K, V]) string {
	var b strings.Builder
	b.WriteString("map[")
	x := m.base().root
	if x != nil {
		x = x.minNode()
	}
	for sep := ""; x != nil; x = x.next() {
		fmt.Fprintf(&b, "%s%v:%v", sep, x.key, x.val)
		sep = " "
	}
	b.WriteByte(']')
	return b.String()
}

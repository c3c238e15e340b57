// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package splaymap

import (
	"fmt"
	"iter"
)

// An Iterator visits the entries of a map in ascending key order.
// It makes a single forward pass; create a new Iterator to start over.
//
// An Iterator fails fast: once a key is added to or removed from the map
// other than through the Iterator's Remove method, Next and Remove return
// an error wrapping [ErrConcurrentModification].
// Lookups and value replacements do not invalidate an Iterator.
type Iterator[K, V any] struct {
	m    splayer[K, V]
	next *node[K, V]
	last *node[K, V] // returned by the latest Next; nil after Remove
	gen  uint64
}

func newIterator[K, V any](m splayer[K, V]) *Iterator[K, V] {
	return &Iterator[K, V]{
		m:    m,
		next: firstNode(m),
		gen:  m.base().gen,
	}
}

// HasNext reports whether a call to Next will return an entry.
func (it *Iterator[K, V]) HasNext() bool {
	return it.next != nil
}

// Next returns the next entry in ascending key order.
// It returns an error wrapping [ErrExhausted] when no entries remain.
func (it *Iterator[K, V]) Next() (K, V, error) {
	var (
		k K
		v V
	)
	if err := it.checkGen(); err != nil {
		return k, v, err
	}
	x := it.next
	if x == nil {
		return k, v, ErrExhausted
	}
	it.last = x
	// Next walks parent links and never splays.
	it.next = x.next()
	return x.key, x.val, nil
}

// Remove deletes the entry returned by the latest call to Next.
// It returns an error wrapping [ErrIllegalState] if Next has not been called,
// or if Remove was already called after the latest Next.
func (it *Iterator[K, V]) Remove() error {
	if it.last == nil {
		return fmt.Errorf("%w: Remove without a preceding Next", ErrIllegalState)
	}
	if err := it.checkGen(); err != nil {
		return err
	}
	// Deleting it.last unlinks that node alone. it.next is a different node,
	// still in the tree, and still the successor of it.last's key.
	x := lookup(it.m, it.last.key)
	excise(it.m, x)
	it.last = nil
	it.gen = it.m.base().gen
	return nil
}

func (it *Iterator[K, V]) checkGen() error {
	if g := it.m.base().gen; g != it.gen {
		return fmt.Errorf("%w: map generation %d, iterator expected %d",
			ErrConcurrentModification, g, it.gen)
	}
	return nil
}

// all returns an iterator over the map m from smallest to largest key.
func all[K, V any](m splayer[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		it := newIterator(m)
		for it.HasNext() {
			k, v, err := it.Next()
			if err != nil {
				panic(err)
			}
			if !yield(k, v) {
				return
			}
		}
	}
}

func keys[K, V any](m splayer[K, V]) iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range all(m) {
			if !yield(k) {
				return
			}
		}
	}
}

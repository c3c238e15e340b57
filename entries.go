// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package splaymap

import (
	"iter"
	"reflect"
)

// Entries is a view of a map as a collection of key-value pairs.
// It holds no state of its own: every method reads or writes the map.
// Obtain one with Map.Entries or MapFunc.Entries.
type Entries[K, V any] struct {
	m splayer[K, V]
}

func entries[K, V any](m splayer[K, V]) *Entries[K, V] {
	t := m.base()
	if t.entries == nil {
		t.entries = &Entries[K, V]{m: m}
	}
	return t.entries
}

// Len returns the number of pairs, which is the number of keys in the map.
func (e *Entries[K, V]) Len() int { return e.m.base().count }

// Contains reports whether the map holds key with a value deeply equal to val.
func (e *Entries[K, V]) Contains(key K, val V) (bool, error) {
	if err := e.m.check(key); err != nil {
		return false, err
	}
	x := lookup(e.m, key)
	return x != nil && reflect.DeepEqual(x.val, val), nil
}

// Remove deletes key from the map if it is present with a value deeply
// equal to val, and reports whether it did so.
func (e *Entries[K, V]) Remove(key K, val V) (bool, error) {
	if err := e.m.check(key); err != nil {
		return false, err
	}
	x := lookup(e.m, key)
	if x == nil || !reflect.DeepEqual(x.val, val) {
		return false, nil
	}
	excise(e.m, x)
	return true, nil
}

// Clear removes every pair from the map.
func (e *Entries[K, V]) Clear() { e.m.base().clear() }

// Iterator returns an Iterator over the pairs in ascending key order.
func (e *Entries[K, V]) Iterator() *Iterator[K, V] { return newIterator(e.m) }

// All returns an iterator over the pairs in ascending key order.
func (e *Entries[K, V]) All() iter.Seq2[K, V] { return all(e.m) }

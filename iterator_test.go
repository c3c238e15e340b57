// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package splaymap

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

type pair struct {
	k int
	v string
}

func collect(m *Map[int, string]) []pair {
	var ps []pair
	for k, v := range m.All() {
		ps = append(ps, pair{k, v})
	}
	return ps
}

func TestIteratorOrder(t *testing.T) {
	re := require.New(t)
	var m Map[int, string]
	m.Put(5, "a")
	m.Put(3, "b")
	m.Put(8, "c")

	it := m.Iterator()
	var got []pair
	for it.HasNext() {
		k, v, err := it.Next()
		re.NoError(err)
		got = append(got, pair{k, v})
	}
	re.Equal([]pair{{3, "b"}, {5, "a"}, {8, "c"}}, got)

	_, _, err := it.Next()
	re.ErrorIs(err, ErrExhausted)
}

func TestIteratorEmpty(t *testing.T) {
	re := require.New(t)
	var m Map[int, string]
	it := m.Iterator()
	re.False(it.HasNext())
	_, _, err := it.Next()
	re.ErrorIs(err, ErrExhausted)
	re.ErrorIs(it.Remove(), ErrIllegalState)
}

func TestIteratorRemove(t *testing.T) {
	re := require.New(t)
	var m Map[int, string]
	m.Put(1, "a")
	m.Put(2, "b")
	m.Put(3, "c")

	it := m.Iterator()
	k, v, err := it.Next()
	re.NoError(err)
	re.Equal(pair{1, "a"}, pair{k, v})
	re.NoError(it.Remove())

	k, v, err = it.Next()
	re.NoError(err)
	re.Equal(pair{2, "b"}, pair{k, v})
	re.Equal([]pair{{2, "b"}, {3, "c"}}, collect(&m))
	checkTree(t, m.base())
}

func TestIteratorIllegalState(t *testing.T) {
	re := require.New(t)
	var m Map[int, string]
	m.Put(1, "a")
	m.Put(2, "b")

	it := m.Iterator()
	re.ErrorIs(it.Remove(), ErrIllegalState)
	_, _, err := it.Next()
	re.NoError(err)
	re.NoError(it.Remove())
	re.ErrorIs(it.Remove(), ErrIllegalState)
	re.Equal(1, m.Len())
}

func TestIteratorConcurrentModification(t *testing.T) {
	re := require.New(t)
	var m Map[int, string]
	m.Put(10, "a")
	it := m.Iterator()
	m.Put(20, "b")
	_, _, err := it.Next()
	re.ErrorIs(err, ErrConcurrentModification)

	it = m.Iterator()
	_, _, err = it.Next()
	re.NoError(err)
	m.Remove(20)
	re.ErrorIs(it.Remove(), ErrConcurrentModification)
	re.Equal(1, m.Len(), "a failed Remove must not delete")

	// A put followed by a remove is still a modification.
	it = m.Iterator()
	m.Put(30, "c")
	m.Remove(30)
	_, _, err = it.Next()
	re.ErrorIs(err, ErrConcurrentModification)
}

func TestIteratorToleratesLookups(t *testing.T) {
	re := require.New(t)
	var m Map[int, string]
	for _, k := range rand.Perm(100) {
		m.Put(k, "")
	}
	it := m.Iterator()
	var got []int
	for it.HasNext() {
		k, _, err := it.Next()
		re.NoError(err)
		got = append(got, k)
		// Splaying reshapes the tree but must not disturb the iteration.
		m.Get(rand.IntN(100))
		m.Put(rand.IntN(100), "replaced")
		m.Higher(rand.IntN(100))
	}
	want := make([]int, 100)
	for i := range want {
		want[i] = i
	}
	re.Equal(want, got)
}

// TestIteratorRemoveRandom removes a random subset of keys through an
// Iterator, on trees of many shapes, and checks that every remaining key is
// still visited exactly once and in order.
func TestIteratorRemoveRandom(t *testing.T) {
	for seed := range uint64(200) {
		r := rand.New(rand.NewPCG(seed, 7))
		n := r.IntN(60)
		var m Map[int, int]
		for _, k := range r.Perm(n) {
			m.Put(k, k)
		}
		// Splay a few keys so that the tree is not the insertion shape.
		for range r.IntN(10) {
			m.Get(r.IntN(n + 1))
		}

		var visited, kept []int
		it := m.Iterator()
		for it.HasNext() {
			k, v, err := it.Next()
			require.NoError(t, err)
			require.Equal(t, k, v)
			visited = append(visited, k)
			if r.IntN(2) == 0 {
				require.NoError(t, it.Remove(), "seed %d key %d", seed, k)
				require.False(t, m.ContainsKey(k))
				checkTree(t, m.base())
			} else {
				kept = append(kept, k)
			}
		}

		require.True(t, slices.IsSorted(visited), "seed %d: %v", seed, visited)
		require.Len(t, visited, n, "seed %d", seed)
		require.Equal(t, len(kept), m.Len())
		require.Equal(t, kept, slices.Collect(m.Keys()))
	}
}

func TestAllPanicsOnModification(t *testing.T) {
	var m Map[int, int]
	m.Put(1, 1)
	m.Put(2, 2)
	m.Put(3, 3)
	require.PanicsWithError(t, "splaymap: concurrent modification: map generation 4, iterator expected 3", func() {
		for k := range m.All() {
			if k == 1 {
				m.Remove(2)
			}
		}
	})
}

func TestKeysBreak(t *testing.T) {
	var m Map[string, int]
	for _, s := range []string{"d", "a", "c", "b"} {
		m.Put(s, 0)
	}
	var got []string
	for k := range m.Keys() {
		if k == "c" {
			break
		}
		got = append(got, k)
	}
	require.Equal(t, []string{"a", "b"}, got)
}

// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// These benchmarks are based on the ones in github.com/google/btree.

package splaymap

import (
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/google/btree"
)

const benchmarkTreeSize = 10_000

func BenchmarkInsert(b *testing.B) {
	b.StopTimer()
	insertP := rand.Perm(benchmarkTreeSize)
	b.StartTimer()
	i := 0
	for i < b.N {
		var m Map[int, int]
		for _, item := range insertP {
			m.Put(item, item)
			i++
			if i >= b.N {
				return
			}
		}
	}
}

func randMap(size int) (*Map[int, int], []int) {
	insertP := rand.Perm(size)
	var m Map[int, int]
	for _, item := range insertP {
		m.Put(item, item)
	}
	return &m, insertP
}

func newMap(els []int) *Map[int, int] {
	var m Map[int, int]
	for _, item := range els {
		m.Put(item, item)
	}
	return &m
}

func BenchmarkDeleteInsert(b *testing.B) {
	b.StopTimer()
	m, insertP := randMap(benchmarkTreeSize)
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		m.Remove(insertP[i%benchmarkTreeSize])
		m.Put(insertP[i%benchmarkTreeSize], i)
	}
}

func BenchmarkDelete(b *testing.B) {
	b.StopTimer()
	insertP := rand.Perm(benchmarkTreeSize)
	removeP := rand.Perm(benchmarkTreeSize)
	b.StartTimer()
	i := 0
	for i < b.N {
		b.StopTimer()
		m := newMap(insertP)
		b.StartTimer()
		for _, item := range removeP {
			m.Remove(item)
			i++
			if i >= b.N {
				return
			}
		}
	}
}

func BenchmarkGet(b *testing.B) {
	b.StopTimer()
	insertP := rand.Perm(benchmarkTreeSize)
	removeP := rand.Perm(benchmarkTreeSize)
	b.StartTimer()
	i := 0
	for i < b.N {
		b.StopTimer()
		m := newMap(insertP)
		b.StartTimer()
		for _, item := range removeP {
			m.Get(item)
			i++
			if i >= b.N {
				return
			}
		}
	}
}

// hotKeys returns n keys of which 90% are drawn from the first 1% of the key space.
func hotKeys(n int) []int {
	keys := make([]int, n)
	for i := range keys {
		if rand.IntN(10) == 0 {
			keys[i] = rand.IntN(benchmarkTreeSize)
		} else {
			keys[i] = rand.IntN(benchmarkTreeSize / 100)
		}
	}
	return keys
}

func BenchmarkGetSkewed(b *testing.B) {
	m, _ := randMap(benchmarkTreeSize)
	keys := hotKeys(benchmarkTreeSize)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Get(keys[i%len(keys)])
	}
}

func BenchmarkBTreeGetSkewed(b *testing.B) {
	bt := btree.NewOrderedG[int](32)
	for _, k := range rand.Perm(benchmarkTreeSize) {
		bt.ReplaceOrInsert(k)
	}
	keys := hotKeys(benchmarkTreeSize)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bt.Get(keys[i%len(keys)])
	}
}

func BenchmarkAscend(b *testing.B) {
	arr := rand.Perm(benchmarkTreeSize)
	m := newMap(arr)
	sort.Ints(arr)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		j := 0
		for k := range m.All() {
			if k != arr[j] {
				b.Fatalf("mismatch: expected: %v, got %v", arr[j], k)
			}
			j++
		}
	}
}

func BenchmarkBTreeAscend(b *testing.B) {
	arr := rand.Perm(benchmarkTreeSize)
	bt := btree.NewOrderedG[int](32)
	for _, k := range arr {
		bt.ReplaceOrInsert(k)
	}
	sort.Ints(arr)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		j := 0
		bt.Ascend(func(k int) bool {
			if k != arr[j] {
				b.Fatalf("mismatch: expected: %v, got %v", arr[j], k)
			}
			j++
			return true
		})
	}
}

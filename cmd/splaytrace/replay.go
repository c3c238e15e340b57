// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/btree"
	"github.com/jba/splaymap"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// checkInterval is how many operations are replayed between context checks.
const checkInterval = 1024

// ReplayOptions controls Replay.
type ReplayOptions struct {
	// Verify cross-checks every result against a B-tree.
	Verify bool
	// Degree is the degree of the B-tree used for verification.
	Degree int
}

// Stats summarizes a replay.
type Stats struct {
	Counts  [numOpKinds]int
	Hits    int // gets and removes that found their key
	Size    int
	Elapsed time.Duration
}

func (s *Stats) fields() []zap.Field {
	fs := make([]zap.Field, 0, numOpKinds+3)
	for k, n := range s.Counts {
		fs = append(fs, zap.Int(OpKind(k).String(), n))
	}
	return append(fs,
		zap.Int("hits", s.Hits),
		zap.Int("size", s.Size),
		zap.Duration("elapsed", s.Elapsed))
}

type entry struct {
	key, val string
}

func entryLess(a, b entry) bool { return a.key < b.key }

// oracle mirrors the map in a B-tree.
type oracle struct {
	t *btree.BTreeG[entry]
}

func newOracle(degree int) *oracle {
	return &oracle{t: btree.NewG(degree, entryLess)}
}

func (o *oracle) higher(key string) (entry, bool) {
	var (
		found entry
		ok    bool
	)
	o.t.AscendGreaterOrEqual(entry{key: key}, func(e entry) bool {
		if e.key == key {
			return true
		}
		found, ok = e, true
		return false
	})
	return found, ok
}

// result is the observable outcome of one operation.
type result struct {
	key, val string
	ok       bool
}

// Replay applies ops to a splay map, and to a B-tree if opts.Verify is set.
// It stops at the first operation whose results differ.
func Replay(ctx context.Context, ops []Op, opts ReplayOptions) (*Stats, error) {
	m := splaymap.NewMapFunc[string, string](strings.Compare)
	var o *oracle
	if opts.Verify {
		o = newOracle(opts.Degree)
	}

	stats := &Stats{}
	start := time.Now()
	for i, op := range ops {
		if i%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return stats, errors.Annotatef(err, "replay stopped at line %d", op.Line)
			}
		}
		got, err := apply(m, op)
		if err != nil {
			return stats, errors.Annotatef(err, "line %d: %s", op.Line, op)
		}
		stats.Counts[op.Kind]++
		if got.ok && (op.Kind == OpGet || op.Kind == OpRemove) {
			stats.Hits++
		}
		if o == nil {
			continue
		}
		if want := o.apply(op); got != want {
			return stats, errors.Errorf("line %d: %s: splaymap returned %+v, btree returned %+v",
				op.Line, op, got, want)
		}
	}
	stats.Elapsed = time.Since(start)
	stats.Size = m.Len()

	if o != nil {
		if err := compareContents(m, o); err != nil {
			return stats, err
		}
		log.Debug("replay verified", zap.Int("ops", len(ops)), zap.Int("size", stats.Size))
	}
	return stats, nil
}

func apply(m *splaymap.MapFunc[string, string], op Op) (result, error) {
	var (
		r   result
		err error
	)
	switch op.Kind {
	case OpPut:
		r.val, r.ok, err = m.Put(op.Key, op.Value)
	case OpGet:
		r.val, r.ok, err = m.Get(op.Key)
	case OpRemove:
		r.val, r.ok, err = m.Remove(op.Key)
	case OpFirst, OpLast:
		first := op.Kind == OpFirst
		if first {
			r.key, err = m.FirstKey()
		} else {
			r.key, err = m.LastKey()
		}
		if stderrors.Is(err, splaymap.ErrEmpty) {
			return r, nil
		}
		r.ok = err == nil
	case OpHigher:
		r.key, r.val, r.ok, err = m.Higher(op.Key)
	default:
		err = errors.Errorf("unknown operation %d", op.Kind)
	}
	return r, err
}

func (o *oracle) apply(op Op) result {
	var (
		e  entry
		ok bool
	)
	switch op.Kind {
	case OpPut:
		e, ok = o.t.ReplaceOrInsert(entry{op.Key, op.Value})
		return result{val: e.val, ok: ok}
	case OpGet:
		e, ok = o.t.Get(entry{key: op.Key})
		return result{val: e.val, ok: ok}
	case OpRemove:
		e, ok = o.t.Delete(entry{key: op.Key})
		return result{val: e.val, ok: ok}
	case OpFirst:
		e, ok = o.t.Min()
		return result{key: e.key, ok: ok}
	case OpLast:
		e, ok = o.t.Max()
		return result{key: e.key, ok: ok}
	case OpHigher:
		e, ok = o.higher(op.Key)
		return result{key: e.key, val: e.val, ok: ok}
	}
	return result{}
}

// compareContents checks that an in-order walk of m matches the oracle.
func compareContents(m *splaymap.MapFunc[string, string], o *oracle) error {
	if m.Len() != o.t.Len() {
		return errors.Errorf("final size: splaymap has %d keys, btree has %d", m.Len(), o.t.Len())
	}
	want := make([]entry, 0, o.t.Len())
	o.t.Ascend(func(e entry) bool {
		want = append(want, e)
		return true
	})
	i := 0
	for k, v := range m.All() {
		if got := (entry{k, v}); got != want[i] {
			return errors.Errorf("final contents differ at position %d: splaymap has %+v, btree has %+v",
				i, got, want[i])
		}
		i++
	}
	return nil
}

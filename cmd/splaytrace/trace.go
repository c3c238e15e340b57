// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/pingcap/errors"
)

// OpKind is the kind of a trace operation.
type OpKind int

const (
	OpPut OpKind = iota
	OpGet
	OpRemove
	OpFirst
	OpLast
	OpHigher

	numOpKinds
)

var opNames = [numOpKinds]string{"put", "get", "del", "first", "last", "higher"}

func (k OpKind) String() string {
	if k >= 0 && k < numOpKinds {
		return opNames[k]
	}
	return "OpKind(" + strconv.Itoa(int(k)) + ")"
}

// arity is the number of arguments each kind takes.
var arity = [numOpKinds]int{2, 1, 1, 0, 0, 1}

// Op is one line of a trace.
type Op struct {
	Kind  OpKind
	Key   string
	Value string
	Line  int
}

func (op Op) String() string {
	switch arity[op.Kind] {
	case 2:
		return fmt.Sprintf("%s %s %s", op.Kind, op.Key, op.Value)
	case 1:
		return fmt.Sprintf("%s %s", op.Kind, op.Key)
	default:
		return op.Kind.String()
	}
}

// ParseTrace reads a trace: one operation per line, fields separated by
// white space. Blank lines and text after '#' are ignored.
func ParseTrace(r io.Reader) ([]Op, error) {
	var ops []Op
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		op, err := parseOp(fields)
		if err != nil {
			return nil, errors.Annotatef(err, "line %d", line)
		}
		op.Line = line
		ops = append(ops, op)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	return ops, nil
}

func parseOp(fields []string) (Op, error) {
	var op Op
	kind := -1
	for i, name := range opNames {
		if fields[0] == name {
			kind = i
			break
		}
	}
	if kind < 0 {
		return op, errors.Errorf("unknown operation %q", fields[0])
	}
	op.Kind = OpKind(kind)
	if got, want := len(fields)-1, arity[op.Kind]; got != want {
		return op, errors.Errorf("%s takes %d arguments, got %d", op.Kind, want, got)
	}
	if len(fields) > 1 {
		op.Key = fields[1]
	}
	if len(fields) > 2 {
		op.Value = fields[2]
	}
	return op, nil
}

// WriteTrace writes ops in the format read by ParseTrace.
func WriteTrace(w io.Writer, ops []Op) error {
	bw := bufio.NewWriter(w)
	for _, op := range ops {
		if _, err := fmt.Fprintln(bw, op); err != nil {
			return errors.WithStack(err)
		}
	}
	return errors.WithStack(bw.Flush())
}

// navigationRatio is the share of generated operations that are
// first, last or higher.
const navigationRatio = 0.05

// Generate returns a reproducible workload described by cfg.
// A HotFraction share of the key accesses go to the first HotKeys keys,
// which is the access pattern splay trees are good at.
func Generate(cfg GenConfig) []Op {
	r := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	key := func() string {
		var k int
		if cfg.HotKeys > 0 && r.Float64() < cfg.HotFraction {
			k = r.IntN(cfg.HotKeys)
		} else {
			k = r.IntN(cfg.Keys)
		}
		return fmt.Sprintf("k%08d", k)
	}

	ops := make([]Op, 0, cfg.Ops)
	for i := range cfg.Ops {
		var op Op
		switch p := r.Float64(); {
		case p < cfg.PutRatio:
			op = Op{Kind: OpPut, Key: key(), Value: "v" + strconv.Itoa(i)}
		case p < cfg.PutRatio+cfg.RemoveRatio:
			op = Op{Kind: OpRemove, Key: key()}
		case p < cfg.PutRatio+cfg.RemoveRatio+navigationRatio:
			op = Op{Kind: OpFirst + OpKind(r.IntN(3))}
			if op.Kind == OpHigher {
				op.Key = key()
			}
		default:
			op = Op{Kind: OpGet, Key: key()}
		}
		op.Line = i + 1
		ops = append(ops, op)
	}
	return ops
}

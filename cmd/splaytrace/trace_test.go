// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTrace(t *testing.T) {
	re := require.New(t)
	const trace = `# a comment
put a 1
put b 2   # trailing comment

get a
del b
first
last
higher a
`
	ops, err := ParseTrace(strings.NewReader(trace))
	re.NoError(err)
	re.Equal([]Op{
		{Kind: OpPut, Key: "a", Value: "1", Line: 2},
		{Kind: OpPut, Key: "b", Value: "2", Line: 3},
		{Kind: OpGet, Key: "a", Line: 5},
		{Kind: OpRemove, Key: "b", Line: 6},
		{Kind: OpFirst, Line: 7},
		{Kind: OpLast, Line: 8},
		{Kind: OpHigher, Key: "a", Line: 9},
	}, ops)
}

func TestParseTraceErrors(t *testing.T) {
	for _, test := range []struct {
		in, want string
	}{
		{"put a", "line 1: put takes 2 arguments, got 1"},
		{"get", "line 1: get takes 1 arguments, got 0"},
		{"\nfirst x", "line 2: first takes 0 arguments, got 1"},
		{"scan a b", `line 1: unknown operation "scan"`},
	} {
		_, err := ParseTrace(strings.NewReader(test.in))
		require.Error(t, err, test.in)
		require.Equal(t, test.want, err.Error(), test.in)
	}
}

func TestWriteTraceRoundTrip(t *testing.T) {
	re := require.New(t)
	cfg := GenConfig{Ops: 500, Keys: 50, HotKeys: 5, HotFraction: 0.9, PutRatio: 0.4, RemoveRatio: 0.2, Seed: 3}
	ops := Generate(cfg)
	re.Len(ops, 500)

	var buf bytes.Buffer
	re.NoError(WriteTrace(&buf, ops))
	parsed, err := ParseTrace(&buf)
	re.NoError(err)
	re.Equal(ops, parsed)
}

func TestGenerateDeterministic(t *testing.T) {
	re := require.New(t)
	cfg := GenConfig{Ops: 200, Keys: 1000, HotKeys: 10, HotFraction: 0.5, PutRatio: 0.3, RemoveRatio: 0.1, Seed: 42}
	first := Generate(cfg)
	re.Equal(first, Generate(cfg))
	cfg.Seed++
	re.NotEqual(first, Generate(cfg))

	var counts [numOpKinds]int
	for _, op := range Generate(GenConfig{Ops: 10_000, Keys: 100, PutRatio: 1}) {
		counts[op.Kind]++
	}
	re.Equal(10_000, counts[OpPut])
}

func TestOpKindString(t *testing.T) {
	require.Equal(t, "del", OpRemove.String())
	require.Equal(t, "OpKind(9)", OpKind(9).String())
}

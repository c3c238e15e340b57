// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Splaytrace replays key-value access traces against a splay tree map.
//
// Usage:
//
//	splaytrace gen [flags] > trace.txt
//	splaytrace replay [flags] trace.txt
//
// A trace has one operation per line:
//
//	put <key> <value>
//	get <key>
//	del <key>
//	first
//	last
//	higher <key>
//
// By default replay checks every result against a B-tree and fails at the
// first difference.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "splaytrace",
		Short:        "Replay and generate access traces for splay tree maps",
		SilenceUsage: true,
	}
	addGlobalFlags(rootCmd)
	rootCmd.AddCommand(newReplayCommand(), newGenCommand())

	rootCmd.SetOutput(os.Stdout)
	if err := rootCmd.Execute(); err != nil {
		rootCmd.Println(err)
		os.Exit(1)
	}
}

func addGlobalFlags(cmd *cobra.Command) {
	fs := cmd.PersistentFlags()
	fs.StringP("config", "c", "", "config file")
	fs.StringP("log-level", "L", defaultLogLevel, "log level: debug, info, warn, error, fatal")
	fs.String("log-format", defaultLogFormat, "log format: text or json")
	fs.String("log-file", "", "log file path")
}

func newReplayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <trace-file>",
		Short: "Replay a trace against a splay tree map",
		Args:  cobra.ExactArgs(1),
		RunE:  runReplay,
	}
	cmd.Flags().Bool("verify", defaultVerify, "check every result against a B-tree")
	cmd.Flags().Int("btree-degree", defaultBTreeDegree, "degree of the verification B-tree")
	return cmd
}

func newGenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a trace with a skewed access pattern",
		Args:  cobra.NoArgs,
		RunE:  runGen,
	}
	fs := cmd.Flags()
	fs.Int("ops", defaultGenOps, "number of operations")
	fs.Int("keys", defaultGenKeys, "size of the key space")
	fs.Int("hot-keys", defaultGenHotKeys, "number of frequently accessed keys")
	fs.Float64("hot-fraction", defaultGenHotFraction, "fraction of accesses that go to hot keys")
	fs.Float64("put-ratio", defaultGenPutRatio, "fraction of operations that are puts")
	fs.Float64("remove-ratio", defaultGenRemoveRatio, "fraction of operations that are removes")
	fs.Uint64("seed", defaultGenSeed, "random seed")
	fs.StringP("out", "o", "", "output file; standard output if empty")
	return cmd
}

// setup parses the configuration of cmd and installs the global logger.
func setup(cmd *cobra.Command) (*Config, error) {
	cfg := NewConfig()
	if err := cfg.Parse(cmd.Flags()); err != nil {
		return nil, err
	}
	if err := cfg.SetupLogger(); err != nil {
		return nil, err
	}
	log.ReplaceGlobals(cfg.Logger, cfg.LogProps)
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(),
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	f, err := os.Open(args[0])
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()
	ops, err := ParseTrace(f)
	if err != nil {
		return errors.Annotatef(err, "parse %s", args[0])
	}
	log.Info("trace loaded", zap.String("file", args[0]), zap.Int("ops", len(ops)))

	ctx, cancel := signalContext()
	defer cancel()
	stats, err := Replay(ctx, ops, ReplayOptions{Verify: cfg.Verify, Degree: cfg.BTreeDegree})
	if err != nil {
		log.Error("replay failed", zap.String("file", args[0]), zap.Error(err))
		return err
	}
	log.Info("replay finished", append(stats.fields(), zap.Bool("verified", cfg.Verify))...)
	return nil
}

func runGen(cmd *cobra.Command, _ []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	var w io.Writer = cmd.OutOrStdout()
	if cfg.Gen.Out != "" {
		f, err := os.Create(cfg.Gen.Out)
		if err != nil {
			return errors.WithStack(err)
		}
		defer f.Close()
		w = f
	}
	ops := Generate(cfg.Gen)
	if _, err := fmt.Fprintf(w, "# splaytrace gen ops=%d keys=%d hot-keys=%d hot-fraction=%v seed=%d\n",
		cfg.Gen.Ops, cfg.Gen.Keys, cfg.Gen.HotKeys, cfg.Gen.HotFraction, cfg.Gen.Seed); err != nil {
		return errors.WithStack(err)
	}
	if err := WriteTrace(w, ops); err != nil {
		return errors.Annotate(err, "write trace")
	}
	// The logger writes to standard output too; keep it out of the trace.
	if cfg.Gen.Out != "" {
		log.Info("trace generated",
			zap.Int("ops", len(ops)),
			zap.Uint64("seed", cfg.Gen.Seed),
			zap.String("out", cfg.Gen.Out))
	}
	return nil
}

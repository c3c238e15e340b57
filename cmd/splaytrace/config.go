// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/BurntSushi/toml"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	defaultBTreeDegree = 32
	defaultVerify      = true

	defaultGenOps         = 100_000
	defaultGenKeys        = 10_000
	defaultGenHotKeys     = 100
	defaultGenHotFraction = 0.8
	defaultGenPutRatio    = 0.3
	defaultGenRemoveRatio = 0.1
	defaultGenSeed        = 1

	defaultLogLevel  = "info"
	defaultLogFormat = "text"
)

// Config is the splaytrace configuration.
// Values come from defaults, then the TOML file named by --config,
// then command-line flags.
type Config struct {
	Log      log.Config `toml:"log" json:"log"`
	Logger   *zap.Logger
	LogProps *log.ZapProperties

	Verify      bool `toml:"verify" json:"verify"`
	BTreeDegree int  `toml:"btree-degree" json:"btree-degree"`

	Gen GenConfig `toml:"gen" json:"gen"`
}

// GenConfig configures the workload generator.
type GenConfig struct {
	Ops         int     `toml:"ops" json:"ops"`
	Keys        int     `toml:"keys" json:"keys"`
	HotKeys     int     `toml:"hot-keys" json:"hot-keys"`
	HotFraction float64 `toml:"hot-fraction" json:"hot-fraction"`
	PutRatio    float64 `toml:"put-ratio" json:"put-ratio"`
	RemoveRatio float64 `toml:"remove-ratio" json:"remove-ratio"`
	Seed        uint64  `toml:"seed" json:"seed"`
	Out         string  `toml:"out" json:"out"`
}

// NewConfig returns an empty configuration; call Parse to fill it in.
func NewConfig() *Config {
	return &Config{}
}

// Parse loads the configuration file named by the "config" flag, if any,
// applies defaults to everything the file leaves undefined,
// and finally applies the flags that were set on the command line.
func (c *Config) Parse(fs *flag.FlagSet) error {
	configFile, err := fs.GetString("config")
	if err != nil {
		return errors.WithStack(err)
	}

	var meta *toml.MetaData
	if configFile != "" {
		md, err := toml.DecodeFile(configFile, c)
		if err != nil {
			return errors.Annotatef(err, "load config file %s", configFile)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return errors.Errorf("config file %s contains undefined items: %v", configFile, undecoded)
		}
		meta = &md
	}

	c.Adjust(meta)
	c.adjustFromFlags(fs)
	return c.Validate()
}

func isDefined(meta *toml.MetaData, key ...string) bool {
	return meta != nil && meta.IsDefined(key...)
}

func adjustInt(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

func adjustFloat64(v *float64, def float64) {
	if *v == 0 {
		*v = def
	}
}

// Adjust fills in defaults for values not defined in the configuration file.
func (c *Config) Adjust(meta *toml.MetaData) {
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = defaultLogFormat
	}
	if !isDefined(meta, "verify") {
		c.Verify = defaultVerify
	}
	adjustInt(&c.BTreeDegree, defaultBTreeDegree)

	adjustInt(&c.Gen.Ops, defaultGenOps)
	adjustInt(&c.Gen.Keys, defaultGenKeys)
	if !isDefined(meta, "gen", "hot-keys") {
		c.Gen.HotKeys = defaultGenHotKeys
	}
	if !isDefined(meta, "gen", "hot-fraction") {
		c.Gen.HotFraction = defaultGenHotFraction
	}
	adjustFloat64(&c.Gen.PutRatio, defaultGenPutRatio)
	if !isDefined(meta, "gen", "remove-ratio") {
		c.Gen.RemoveRatio = defaultGenRemoveRatio
	}
	if !isDefined(meta, "gen", "seed") {
		c.Gen.Seed = defaultGenSeed
	}
}

// adjustFromFlags overrides values with the flags set on the command line.
// Flags that a command does not define are never changed.
func (c *Config) adjustFromFlags(fs *flag.FlagSet) {
	if fs.Changed("log-level") {
		c.Log.Level, _ = fs.GetString("log-level")
	}
	if fs.Changed("log-format") {
		c.Log.Format, _ = fs.GetString("log-format")
	}
	if fs.Changed("log-file") {
		c.Log.File.Filename, _ = fs.GetString("log-file")
	}
	if fs.Changed("verify") {
		c.Verify, _ = fs.GetBool("verify")
	}
	if fs.Changed("btree-degree") {
		c.BTreeDegree, _ = fs.GetInt("btree-degree")
	}
	if fs.Changed("ops") {
		c.Gen.Ops, _ = fs.GetInt("ops")
	}
	if fs.Changed("keys") {
		c.Gen.Keys, _ = fs.GetInt("keys")
	}
	if fs.Changed("hot-keys") {
		c.Gen.HotKeys, _ = fs.GetInt("hot-keys")
	}
	if fs.Changed("hot-fraction") {
		c.Gen.HotFraction, _ = fs.GetFloat64("hot-fraction")
	}
	if fs.Changed("put-ratio") {
		c.Gen.PutRatio, _ = fs.GetFloat64("put-ratio")
	}
	if fs.Changed("remove-ratio") {
		c.Gen.RemoveRatio, _ = fs.GetFloat64("remove-ratio")
	}
	if fs.Changed("seed") {
		c.Gen.Seed, _ = fs.GetUint64("seed")
	}
	if fs.Changed("out") {
		c.Gen.Out, _ = fs.GetString("out")
	}
}

// Validate reports values that cannot be used.
func (c *Config) Validate() error {
	if c.BTreeDegree < 2 {
		return errors.Errorf("btree-degree must be at least 2, got %d", c.BTreeDegree)
	}
	g := c.Gen
	if g.Ops < 0 || g.Keys <= 0 || g.HotKeys < 0 || g.HotKeys > g.Keys {
		return errors.Errorf("invalid generator sizes: ops=%d keys=%d hot-keys=%d", g.Ops, g.Keys, g.HotKeys)
	}
	if g.HotFraction < 0 || g.HotFraction > 1 {
		return errors.Errorf("hot-fraction must be in [0, 1], got %v", g.HotFraction)
	}
	if g.PutRatio < 0 || g.RemoveRatio < 0 || g.PutRatio+g.RemoveRatio > 1 {
		return errors.Errorf("put-ratio %v and remove-ratio %v must be non-negative and sum to at most 1",
			g.PutRatio, g.RemoveRatio)
	}
	return nil
}

// SetupLogger initializes c.Logger from c.Log.
func (c *Config) SetupLogger() error {
	lg, p, err := log.InitLogger(&c.Log, zap.AddStacktrace(zapcore.FatalLevel))
	if err != nil {
		return errors.WithStack(err)
	}
	c.Logger, c.LogProps = lg, p
	return nil
}

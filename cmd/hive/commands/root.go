// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands assembles the hive CLI command tree.
package commands

import (
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/hive/cmd/hive/cli"
	"github.com/bureau-foundation/hive/lib/hive"
	"github.com/bureau-foundation/hive/lib/hiveconf"
)

// configPath is the --config override shared by every subcommand.
// Empty means fall back to the HIVE_CONFIG environment variable.
var configPath string

// configFlag registers the shared --config flag on a subcommand's
// flag set.
func configFlag(fs *pflag.FlagSet) *pflag.FlagSet {
	fs.StringVar(&configPath, "config", "", "configuration file (overrides HIVE_CONFIG)")
	return fs
}

// Root returns the hive command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name:    "hive",
		Summary: "inspect and edit hive container files",
		Description: "hive inspects and edits hive container files: hierarchical,\n" +
			"path-addressed stores of typed values in a single file.",
		Subcommands: []*cli.Command{
			lsCommand(),
			getCommand(),
			putCommand(),
			rmCommand(),
			cpCommand(),
		},
	}
}

// baseOptions converts the tool configuration (--config flag, else
// HIVE_CONFIG) into façade options. Command flags layer on top.
func baseOptions() ([]hive.Option, error) {
	var cfg hiveconf.Config
	var err error
	if configPath != "" {
		cfg, err = hiveconf.Load(configPath)
	} else {
		cfg, err = hiveconf.FromEnv()
	}
	if err != nil {
		return nil, err
	}
	opts := []hive.Option{
		hive.Compression(cfg.CompressionLevel),
		hive.RetryPolicy(cfg.RetryPolicy()),
	}
	if cfg.CompressionAlgo == "lz4" {
		opts = append(opts, hive.LZ4())
	}
	return opts, nil
}

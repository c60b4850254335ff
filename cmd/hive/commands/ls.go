// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/hive/cmd/hive/cli"
	"github.com/bureau-foundation/hive/lib/hive"
)

func lsCommand() *cli.Command {
	var recursive bool
	var depth int
	var pattern string
	return &cli.Command{
		Name:    "ls",
		Summary: "list nodes and groups under a path",
		Usage:   "hive ls FILE [PATH] [flags]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("ls", pflag.ContinueOnError)
			fs.BoolVarP(&recursive, "recursive", "r", false, "descend without bound")
			fs.IntVar(&depth, "depth", 0, "descend at most this many levels")
			fs.StringVar(&pattern, "pattern", "", "glob filter on listed paths")
			return configFlag(fs)
		},
		Run: func(args []string) error {
			if len(args) < 1 || len(args) > 2 {
				return cli.Usagef("ls takes FILE [PATH], got %d arguments", len(args))
			}
			path := "/"
			if len(args) == 2 {
				path = args[1]
			}
			opts, err := baseOptions()
			if err != nil {
				return err
			}
			var rec any = recursive
			if depth > 0 {
				rec = depth
			}
			opts = append(opts, hive.Recursive(rec), hive.Pattern(pattern))
			nodes, groups, err := hive.List(args[0], path, opts...)
			if err != nil {
				return err
			}
			renderListing(os.Stdout, stdoutIsTerminal(), path, nodes, groups)
			return nil
		},
	}
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/hive/cmd/hive/cli"
	"github.com/bureau-foundation/hive/lib/hive"
)

func getCommand() *cli.Command {
	var format string
	var flat bool
	var recursive bool
	return &cli.Command{
		Name:    "get",
		Summary: "read a value or subtree and print it",
		Usage:   "hive get FILE PATH [flags]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("get", pflag.ContinueOnError)
			fs.StringVarP(&format, "output", "o", "yaml", "output format: yaml or json")
			fs.BoolVar(&flat, "flat", false, "print a flat path-to-value mapping")
			fs.BoolVarP(&recursive, "recursive", "r", true, "read the whole subtree")
			return configFlag(fs)
		},
		Run: func(args []string) error {
			if len(args) != 2 {
				return cli.Usagef("get takes FILE PATH, got %d arguments", len(args))
			}
			opts, err := baseOptions()
			if err != nil {
				return err
			}
			opts = append(opts, hive.Recursive(recursive))
			var data map[string]any
			if flat {
				data, err = hive.ReadFlatDict(args[0], args[1], opts...)
			} else {
				data, err = hive.ReadDict(args[0], args[1], opts...)
			}
			if err != nil {
				return err
			}
			return renderValue(os.Stdout, data, format)
		},
	}
}

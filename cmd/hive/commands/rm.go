// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/hive/cmd/hive/cli"
	"github.com/bureau-foundation/hive/lib/hive"
)

func rmCommand() *cli.Command {
	return &cli.Command{
		Name:    "rm",
		Summary: "delete a node or subtree",
		Usage:   "hive rm FILE PATH",
		Flags: func() *pflag.FlagSet {
			return configFlag(pflag.NewFlagSet("rm", pflag.ContinueOnError))
		},
		Run: func(args []string) error {
			if len(args) != 2 {
				return cli.Usagef("rm takes FILE PATH, got %d arguments", len(args))
			}
			opts, err := baseOptions()
			if err != nil {
				return err
			}
			return hive.DeleteItem(args[0], args[1], opts...)
		},
	}
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/hive/cmd/hive/cli"
	"github.com/bureau-foundation/hive/lib/hive"
)

func cpCommand() *cli.Command {
	var noMaintainName bool
	return &cli.Command{
		Name:    "cp",
		Summary: "copy a subtree within or across container files",
		Description: "hive cp copies the subtree at SRC_PATH in SRC_FILE to DST_PATH\n" +
			"in DST_FILE. By default the copied subtree keeps its own name\n" +
			"under the destination; --no-maintain-name places it at DST_PATH itself.",
		Usage: "hive cp SRC_FILE SRC_PATH DST_FILE DST_PATH [flags]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("cp", pflag.ContinueOnError)
			fs.BoolVar(&noMaintainName, "no-maintain-name", false, "place the subtree at DST_PATH itself instead of under it")
			return configFlag(fs)
		},
		Run: func(args []string) error {
			if len(args) != 4 {
				return cli.Usagef("cp takes SRC_FILE SRC_PATH DST_FILE DST_PATH, got %d arguments", len(args))
			}
			opts, err := baseOptions()
			if err != nil {
				return err
			}
			src := hive.NewPointer(trimExtension(args[0]), args[1]).WithOptions(opts...)
			dst := hive.NewPointer(trimExtension(args[2]), args[3]).WithOptions(opts...)
			copied, err := src.CopyTo(dst, hive.MaintainName(!noMaintainName))
			if err != nil {
				return err
			}
			fmt.Printf("copied to %s: %s\n", copied.FileName(), copied.Path())
			return nil
		},
	}
}

// trimExtension strips a trailing ".hive" so NewPointer, which always
// appends the extension, accepts both bare and full file names.
func trimExtension(name string) string {
	return strings.TrimSuffix(name, hive.Extension)
}

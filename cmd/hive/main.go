// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/bureau-foundation/hive/cmd/hive/cli"
	"github.com/bureau-foundation/hive/cmd/hive/commands"
	"github.com/bureau-foundation/hive/lib/hive"
)

func main() {
	if err := commands.Root().Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps command-line and argument mistakes to 2, everything
// else to 1.
func exitCode(err error) int {
	var usage *cli.UsageError
	if errors.As(err, &usage) || errors.Is(err, hive.ErrUsage) {
		return 2
	}
	return 1
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/hive/cmd/hive/cli"
	"github.com/bureau-foundation/hive/lib/tree"
)

var (
	groupStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	nodeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// stdoutIsTerminal reports whether stdout is attached to a terminal.
// Styled output is reserved for interactive use; pipes get plain
// paths.
func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// renderListing prints nodes and groups under base. When styled, the
// listing is an indented tree with groups in bold; otherwise one full
// path per line, suitable for scripting.
func renderListing(w io.Writer, styled bool, base string, nodes, groups []string) {
	type row struct {
		path  string
		group bool
	}
	rows := make([]row, 0, len(nodes)+len(groups))
	for _, n := range nodes {
		rows = append(rows, row{n, false})
	}
	for _, g := range groups {
		rows = append(rows, row{g, true})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].path < rows[j].path })

	if !styled {
		for _, r := range rows {
			suffix := ""
			if r.group {
				suffix = "/"
			}
			fmt.Fprintf(w, "%s%s\n", r.path, suffix)
		}
		return
	}

	base = tree.Clean(base)
	for _, r := range rows {
		rel := tree.Rel(base, r.path)
		indent := strings.Repeat("  ", strings.Count(rel, "/"))
		name := tree.Base(r.path)
		if r.group {
			name = groupStyle.Render(name + "/")
		} else {
			name = nodeStyle.Render(name)
		}
		fmt.Fprintf(w, "%s%s\n", indent, name)
	}
}

// renderValue writes v to w in the requested format.
func renderValue(w io.Writer, v any, format string) error {
	switch format {
	case "json":
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", out)
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			enc.Close()
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return cli.Usagef("unknown output format %q (want json or yaml)", format)
	}
}

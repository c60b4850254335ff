// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/json"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/hive/cmd/hive/cli"
	"github.com/bureau-foundation/hive/lib/hive"
)

func putCommand() *cli.Command {
	var level int
	var lz4 bool
	var slash string
	return &cli.Command{
		Name:    "put",
		Summary: "write a value at a path",
		Description: "hive put writes VALUE at PATH in FILE, creating the file if\n" +
			"needed. VALUE is parsed as JSON; input that is not valid JSON is\n" +
			"stored as a plain string.",
		Usage: "hive put FILE PATH VALUE [flags]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("put", pflag.ContinueOnError)
			fs.IntVar(&level, "compression", -1, "gzip compression level (0-9)")
			fs.BoolVar(&lz4, "lz4", false, "compress with lz4 instead of gzip")
			fs.StringVar(&slash, "slash", "", "forward slash policy for map keys: error, replace, or ignore")
			return configFlag(fs)
		},
		Run: func(args []string) error {
			if len(args) != 3 {
				return cli.Usagef("put takes FILE PATH VALUE, got %d arguments", len(args))
			}
			opts, err := baseOptions()
			if err != nil {
				return err
			}
			if level >= 0 {
				opts = append(opts, hive.Compression(level))
			}
			if lz4 {
				opts = append(opts, hive.LZ4())
			}
			if slash != "" {
				opts = append(opts, hive.Slash(hive.SlashPolicy(slash)))
			}
			return hive.WriteDict(args[0], map[string]any{args[1]: parseValue(args[2])}, opts...)
		},
	}
}

// parseValue decodes raw as JSON, keeping integral numbers as int64.
// Input that is not valid JSON is taken as a literal string.
func parseValue(raw string) any {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return raw
	}
	return narrowNumbers(v)
}

func narrowNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case []any:
		for i, e := range t {
			t[i] = narrowNumbers(e)
		}
		return t
	case map[string]any:
		for k, e := range t {
			t[k] = narrowNumbers(e)
		}
		return t
	default:
		return v
	}
}

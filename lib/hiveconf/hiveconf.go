// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package hiveconf loads tool configuration for the hive CLI and
// other embedders.
//
// Configuration comes from a single JSONC file (// line comments,
// /* block comments */, and trailing commas are allowed) named either
// explicitly or through the HIVE_CONFIG environment variable. There is
// no discovery and no layering: one file, deterministic result.
package hiveconf

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/hive/lib/retry"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "HIVE_CONFIG"

// Config holds the tunable defaults applied to hive operations.
type Config struct {
	// CompressionLevel is the gzip level for written payloads, 0-9.
	// Zero stores payloads uncompressed.
	CompressionLevel int `json:"compression_level"`

	// CompressionAlgo selects the payload compression: "gzip" (the
	// default) or "lz4".
	CompressionAlgo string `json:"compression_algo"`

	// RetryAttempts bounds the retry guard; zero retries without
	// bound.
	RetryAttempts int `json:"retry_attempts"`

	// RetryDelayMS is the wait before the first retry, milliseconds.
	RetryDelayMS int `json:"retry_delay_ms"`

	// RetryFactor multiplies the delay after every retry.
	RetryFactor float64 `json:"retry_factor"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		CompressionLevel: 4,
		CompressionAlgo:  "gzip",
		RetryDelayMS:     1000,
		RetryFactor:      1.0,
	}
}

// Load reads and parses the JSONC config file at path, applied on top
// of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	// Strip comments and trailing commas before parsing as standard JSON.
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv loads the file named by HIVE_CONFIG, or Default when the
// variable is unset.
func FromEnv() (Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func (c Config) validate() error {
	if c.CompressionLevel < 0 || c.CompressionLevel > 9 {
		return fmt.Errorf("compression_level %d out of range 0-9", c.CompressionLevel)
	}
	switch c.CompressionAlgo {
	case "gzip", "lz4":
	default:
		return fmt.Errorf("compression_algo %q (want gzip or lz4)", c.CompressionAlgo)
	}
	if c.RetryAttempts < 0 {
		return fmt.Errorf("retry_attempts %d negative", c.RetryAttempts)
	}
	return nil
}

// RetryPolicy converts the retry settings into a guard policy.
func (c Config) RetryPolicy() retry.Policy {
	return retry.Policy{
		Attempts: c.RetryAttempts,
		Delay:    time.Duration(c.RetryDelayMS) * time.Millisecond,
		Factor:   c.RetryFactor,
	}
}

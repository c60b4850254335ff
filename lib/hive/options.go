// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hive

import (
	"log/slog"

	"github.com/bureau-foundation/hive/lib/codec"
	"github.com/bureau-foundation/hive/lib/container"
	"github.com/bureau-foundation/hive/lib/retry"
)

// DefaultCompressionLevel is the gzip level used when no Compression
// option is given.
const DefaultCompressionLevel = 4

// Option configures a façade operation. Options that do not apply to
// an operation (Compression on a read, Pattern on a write) are
// ignored.
type Option func(*settings)

type settings struct {
	recursive   any
	pattern     string
	groupPaths  []string
	slash       codec.SlashPolicy
	compression container.CompressionTag
	level       int
	logger      *slog.Logger
	retry       retry.Policy
}

func newSettings(opts []Option) settings {
	s := settings{
		recursive:   false,
		compression: container.CompressionGzip,
		level:       DefaultCompressionLevel,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.retry.Logger == nil {
		s.retry.Logger = s.logger
	}
	return s
}

// readSlash returns the read-side policy, defaulting to SlashIgnore.
func (s settings) readSlash() (codec.SlashPolicy, error) {
	policy := s.slash
	if policy == "" {
		policy = codec.SlashIgnore
	}
	return policy, policy.CheckRead()
}

// writeSlash returns the write-side policy, defaulting to SlashError.
func (s settings) writeSlash() (codec.SlashPolicy, error) {
	policy := s.slash
	if policy == "" {
		policy = codec.SlashError
	}
	return policy, policy.CheckWrite()
}

// Recursive sets the recursion argument: false lists one level, true
// descends without bound, an integer bounds the number of levels
// (non-positive behaves like false). Any other type is a usage error.
func Recursive(v any) Option {
	return func(s *settings) { s.recursive = v }
}

// Pattern filters returned paths with a shell-style glob where "*"
// also crosses "/". The match covers the whole path.
func Pattern(glob string) Option {
	return func(s *settings) { s.pattern = glob }
}

// GroupPaths names additional groups, relative to the operation's
// path, whose nodes are read alongside the path's own.
func GroupPaths(paths []string) Option {
	return func(s *settings) { s.groupPaths = paths }
}

// Slash sets the policy for "/" inside mapping sub-keys.
func Slash(policy SlashPolicy) Option {
	return func(s *settings) { s.slash = policy }
}

// Compression selects gzip at the given level for written payloads.
// Level 0 stores payloads uncompressed.
func Compression(level int) Option {
	return func(s *settings) {
		s.compression = container.CompressionGzip
		s.level = level
	}
}

// LZ4 selects LZ4 block compression for written payloads.
func LZ4() Option {
	return func(s *settings) { s.compression = container.CompressionLZ4 }
}

// Logger routes operation warnings (retry attempts, future staleness)
// to l. The default discards them.
func Logger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// RetryPolicy tunes the guard absorbing transient file contention.
// The zero policy retries without bound at one-second intervals.
func RetryPolicy(p retry.Policy) Option {
	return func(s *settings) { s.retry = p }
}

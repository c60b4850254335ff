// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tree

import (
	"fmt"

	globlib "github.com/pachyderm/ohmyglob"
)

// Pattern is a compiled glob filter for path lists. Patterns use
// shell-style syntax where "*" matches any run of characters
// including separators ("*/c/*" matches "/g/c/d"), and the match is
// anchored over the whole path, never a substring test.
type Pattern struct {
	source string
	glob   *globlib.Glob
}

// CompilePattern compiles a glob pattern. The empty pattern matches
// everything.
func CompilePattern(pattern string) (*Pattern, error) {
	if pattern == "" {
		return nil, nil
	}
	g, err := globlib.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern %q: %w", pattern, err)
	}
	return &Pattern{source: pattern, glob: g}, nil
}

// Match reports whether the cleaned path matches. A nil Pattern
// matches everything.
func (p *Pattern) Match(path string) bool {
	if p == nil {
		return true
	}
	return p.glob.Match(Clean(path))
}

// Filter returns the paths that match, preserving order. A nil
// Pattern returns the input unchanged.
func (p *Pattern) Filter(paths []string) []string {
	if p == nil {
		return paths
	}
	out := make([]string, 0, len(paths))
	for _, candidate := range paths {
		if p.Match(candidate) {
			out = append(out, candidate)
		}
	}
	return out
}

// String returns the original pattern source.
func (p *Pattern) String() string {
	if p == nil {
		return ""
	}
	return p.source
}

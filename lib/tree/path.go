// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tree provides the path and dictionary algebra underneath the
// hive façade: canonical path handling, conversion between flat
// path-keyed mappings and nested mappings, non-destructive merging,
// recursion-depth argument parsing, and glob filtering of path lists.
//
// Everything here is pure; container access lives in lib/hive.
package tree

import (
	"path"
	"strings"
)

// Clean converts a path to the canonical absolute form used throughout
// hive:
//
//	""     -> "/"
//	"abc"  -> "/abc"
//	"/abc" -> "/abc"
//	"abc/" -> "/abc"
//	"/"    -> "/"
//
// "." and ".." elements are resolved.
func Clean(p string) string {
	p = path.Clean(p)
	if p == "." {
		return "/"
	}
	return "/" + strings.Trim(p, "/")
}

// Join joins a base path and a relative (or absolute) sub-path into a
// cleaned absolute path.
func Join(base string, elem string) string {
	if strings.HasPrefix(elem, "/") {
		return Clean(elem)
	}
	return Clean(Clean(base) + "/" + elem)
}

// Parent returns the parent path of p; the root is its own parent.
func Parent(p string) string {
	p = Clean(p)
	if p == "/" {
		return "/"
	}
	return Clean(path.Dir(p))
}

// Base returns the last segment of p; the root returns "/".
func Base(p string) string {
	p = Clean(p)
	if p == "/" {
		return "/"
	}
	return path.Base(p)
}

// IsChild reports whether child is an immediate child of parent.
// Assumes cleaned paths.
func IsChild(parent, child string) bool {
	if !strings.HasPrefix(child, parent) {
		return false
	}
	rel := strings.Trim(child[len(parent):], "/")
	return rel != "" && !strings.Contains(rel, "/")
}

// Rel returns child's path relative to base (no leading slash). When
// child does not live under base, child is returned cleaned but
// otherwise unchanged; when child equals base, its last segment is
// returned so that a degraded single-leaf read still has a usable key.
func Rel(base, child string) string {
	base, child = Clean(base), Clean(child)
	if base == "/" {
		return strings.TrimPrefix(child, "/")
	}
	if child == base {
		return Base(child)
	}
	if strings.HasPrefix(child, base+"/") {
		return child[len(base)+1:]
	}
	return child
}

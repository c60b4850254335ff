// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hive

import (
	"sort"

	"github.com/bureau-foundation/hive/lib/codec"
	"github.com/bureau-foundation/hive/lib/container"
	"github.com/bureau-foundation/hive/lib/tree"
)

// ReadDict reads everything resolving under path into a nested
// mapping relative to path. Non-recursive reads cover the immediate
// child nodes; when none exist and path is not the root, the path
// itself is read as a single node (a plain group read this way yields
// its whole subtree). A path whose node is one logical value (a leaf
// or an opaque-tagged group) is read directly: a mapping value becomes
// the result, anything else lands under its last path segment.
//
// GroupPaths entries are resolved relative to path the same way path
// itself is, and their nodes join the list before the Pattern filter
// applies. A missing file or empty node list yields an empty map.
func ReadDict(file any, path string, opts ...Option) (tree.Nested, error) {
	flat, base, opaque, err := readFlat(file, path, opts)
	if err != nil {
		return nil, err
	}
	if opaque {
		v := flat[base]
		if m, ok := v.(map[string]any); ok {
			return m, nil
		}
		return tree.Nested{tree.Base(base): v}, nil
	}
	result := tree.Nested{}
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		result = tree.Merge(result, tree.FlatToNested(map[string]any{k: flat[k]}, base))
	}
	return result, nil
}

// ReadFlatDict is the flat-shaped variant of ReadDict: the same node
// set, keyed by absolute container path.
func ReadFlatDict(file any, path string, opts ...Option) (map[string]any, error) {
	flat, _, _, err := readFlat(file, path, opts)
	return flat, err
}

func readFlat(file any, path string, opts []Option) (flat map[string]any, base string, opaque bool, err error) {
	s := newSettings(opts)
	base = tree.Clean(path)
	rec, err := tree.ParseRecursion(s.recursive)
	if err != nil {
		return nil, base, false, err
	}
	slash, err := s.readSlash()
	if err != nil {
		return nil, base, false, err
	}
	pat, err := tree.CompilePattern(s.pattern)
	if err != nil {
		return nil, base, false, err
	}
	f, owned, err := sessionFor(file, container.ReadOnly, s)
	if err != nil {
		if container.IsNotFound(err) {
			return map[string]any{}, base, false, nil
		}
		return nil, base, false, err
	}
	if owned {
		defer f.Close()
	}

	if isLogicalNode(f, base) {
		v, err := codec.ReadValue(f, base, slash)
		if err != nil {
			return nil, base, false, err
		}
		return map[string]any{base: v.Interface()}, base, true, nil
	}

	nodes := collectNodes(f, base, rec)
	for _, g := range s.groupPaths {
		nodes = append(nodes, collectNodes(f, tree.Join(base, g), rec)...)
	}
	nodes = pat.Filter(nodes)

	flat = make(map[string]any, len(nodes))
	for _, n := range nodes {
		v, err := codec.ReadValue(f, n, slash)
		if err != nil {
			if container.IsNotFound(err) {
				continue
			}
			return nil, base, false, err
		}
		flat[n] = v.Interface()
	}
	return flat, base, false, nil
}

// isLogicalNode reports whether path holds one logical value: a
// payload leaf or a group whose tag marks it opaque.
func isLogicalNode(f *container.File, path string) bool {
	if f.IsLeaf(path) {
		return true
	}
	tag, err := f.TypeTag(path)
	return err == nil && codec.IsOpaqueGroup(tag)
}

// collectNodes enumerates the node paths a dictionary read covers
// under path: the path itself when it is one logical value, its
// matching descendants otherwise, degrading to the path itself for a
// non-recursive read that found no child nodes.
func collectNodes(f *container.File, path string, rec tree.Recursion) []string {
	if isLogicalNode(f, path) {
		return []string{path}
	}
	nodes, _ := listTree(f, path, rec)
	if !rec.Active() && len(nodes) == 0 && path != "/" {
		return []string{path}
	}
	return nodes
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hive

import (
	"github.com/bureau-foundation/hive/lib/codec"
	"github.com/bureau-foundation/hive/lib/container"
	"github.com/bureau-foundation/hive/lib/tree"
)

// List enumerates the children of the group at path, split into nodes
// (payload leaves plus groups whose type tag marks them as one logical
// value) and plain groups. Recursion descends plain groups only, level
// first: all of a level's own entries precede any descendant's, and
// each group precedes its own descendants. A missing file or missing
// path yields empty lists, not an error.
func List(file any, path string, opts ...Option) (nodes, groups []string, err error) {
	s := newSettings(opts)
	rec, err := tree.ParseRecursion(s.recursive)
	if err != nil {
		return nil, nil, err
	}
	pat, err := tree.CompilePattern(s.pattern)
	if err != nil {
		return nil, nil, err
	}
	f, owned, err := sessionFor(file, container.ReadOnly, s)
	if err != nil {
		if container.IsNotFound(err) {
			return []string{}, []string{}, nil
		}
		return nil, nil, err
	}
	if owned {
		defer f.Close()
	}
	nodes, groups = listTree(f, tree.Clean(path), rec)
	return pat.Filter(nodes), pat.Filter(groups), nil
}

func listTree(f *container.File, path string, rec tree.Recursion) (nodes, groups []string) {
	nodes, groups = []string{}, []string{}
	walkChildren(f, path, rec, &nodes, &groups)
	return nodes, groups
}

func walkChildren(f *container.File, path string, rec tree.Recursion, nodes, groups *[]string) {
	children, err := f.Children(path)
	if err != nil {
		// Missing path or leaf: nothing to list.
		return
	}
	// The whole level is classified before any descent so that a
	// level's own nodes never interleave with a descendant's.
	var descend []string
	for _, child := range children {
		if child.Leaf || codec.IsOpaqueGroup(child.Tag) {
			*nodes = append(*nodes, child.Path)
			continue
		}
		*groups = append(*groups, child.Path)
		descend = append(descend, child.Path)
	}
	sub, ok := rec.Descend()
	if !ok {
		return
	}
	for _, group := range descend {
		walkChildren(f, group, sub, nodes, groups)
	}
}

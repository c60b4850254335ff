// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hive

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bureau-foundation/hive/lib/tree"
)

// Extension is the container file suffix. NewPointer appends it when
// the given file name carries no such suffix.
const Extension = ".hive"

func withExtension(name string) string {
	if strings.HasSuffix(name, Extension) {
		return name
	}
	return name + Extension
}

// Pointer is a cursor over (container file, current path) with
// mapping-like navigation. The file need not exist: a Pointer is a
// position, and navigating to unwritten paths is how new hierarchy is
// addressed before it is written.
type Pointer struct {
	file string
	path string
	opts []Option
}

// NewPointer returns a cursor on file at the given path (the root
// when omitted).
func NewPointer(file string, path ...string) *Pointer {
	p := "/"
	if len(path) > 0 {
		p = tree.Clean(path[0])
	}
	return &Pointer{file: withExtension(file), path: p}
}

// WithOptions returns a copy of the cursor whose operations carry the
// given options (logger, retry policy, compression, slash policy).
func (p *Pointer) WithOptions(opts ...Option) *Pointer {
	return &Pointer{file: p.file, path: p.path, opts: opts}
}

// FileName returns the container file the cursor addresses.
func (p *Pointer) FileName() string { return p.file }

// Path returns the cursor's current absolute path.
func (p *Pointer) Path() string { return p.path }

// IsRoot reports whether the cursor sits at the root group.
func (p *Pointer) IsRoot() bool { return p.path == "/" }

// GetChild returns a cursor positioned at key below the current path.
// Purely positional: the target need not exist.
func (p *Pointer) GetChild(key string) *Pointer {
	return &Pointer{file: p.file, path: tree.Join(p.path, key), opts: p.opts}
}

// GetValue probes key below the current path for readable data. The
// second return is false when nothing resolves there. Exactly one
// resolved node yields its bare value; several yield a nested mapping
// relative to the probed path.
func (p *Pointer) GetValue(key string) (any, bool, error) {
	target := tree.Join(p.path, key)
	flat, err := ReadFlatDict(p.file, target, p.opts...)
	if err != nil {
		return nil, false, err
	}
	if len(flat) == 0 {
		return nil, false, nil
	}
	if len(flat) == 1 {
		for _, v := range flat {
			return v, true, nil
		}
	}
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	result := tree.Nested{}
	for _, k := range keys {
		result = tree.Merge(result, tree.FlatToNested(map[string]any{k: flat[k]}, target))
	}
	return result, true, nil
}

// Get is the combined probe: the value at key when one resolves
// (GetValue semantics), otherwise a child cursor at that path. A key
// may denote either stored data or an unwritten sub-path, and which
// one the caller got is observable via the returned type.
func (p *Pointer) Get(key string) (any, error) {
	v, ok, err := p.GetValue(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return p.GetChild(key), nil
	}
	return v, nil
}

// Set writes v at key below the current path.
func (p *Pointer) Set(key string, v any) error {
	return WriteDict(p.file, map[string]any{tree.Join(p.path, key): v}, p.opts...)
}

// Delete removes the subtree at key below the current path.
// Idempotent like DeleteItem.
func (p *Pointer) Delete(key string) error {
	return DeleteItem(p.file, tree.Join(p.path, key), p.opts...)
}

// ToDict reads everything under the current path. hierarchical=true
// nests the result; false returns flat keys relative to the path.
func (p *Pointer) ToDict(hierarchical bool) (map[string]any, error) {
	opts := append(append([]Option{}, p.opts...), Recursive(true))
	if hierarchical {
		return ReadDict(p.file, p.path, opts...)
	}
	flat, err := ReadFlatDict(p.file, p.path, opts...)
	if err != nil {
		return nil, err
	}
	rel := make(map[string]any, len(flat))
	for k, v := range flat {
		rel[tree.Rel(p.path, k)] = v
	}
	return rel, nil
}

// Len returns the number of nodes under the current path.
func (p *Pointer) Len() (int, error) {
	flat, err := p.ToDict(false)
	if err != nil {
		return 0, err
	}
	return len(flat), nil
}

// Keys returns the sorted path-relative keys of every node under the
// current path.
func (p *Pointer) Keys() ([]string, error) {
	flat, err := p.ToDict(false)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Contains reports whether key resolves to a node under the current
// path.
func (p *Pointer) Contains(key string) (bool, error) {
	flat, err := p.ToDict(false)
	if err != nil {
		return false, err
	}
	_, ok := flat[tree.Rel(p.path, tree.Join(p.path, key))]
	return ok, nil
}

// ListNodes returns the names of the immediate child nodes.
func (p *Pointer) ListNodes() ([]string, error) {
	nodes, _, err := List(p.file, p.path, p.opts...)
	return baseNames(nodes), err
}

// ListGroups returns the names of the immediate child groups.
func (p *Pointer) ListGroups() ([]string, error) {
	_, groups, err := List(p.file, p.path, p.opts...)
	return baseNames(groups), err
}

// ListAll returns every node and group path under the cursor,
// relative to its current path.
func (p *Pointer) ListAll() (nodes, groups []string, err error) {
	opts := append(append([]Option{}, p.opts...), Recursive(true))
	nodes, groups, err = List(p.file, p.path, opts...)
	if err != nil {
		return nil, nil, err
	}
	return relPaths(p.path, nodes), relPaths(p.path, groups), nil
}

// IsEmpty reports whether nothing at all lives under the cursor.
func (p *Pointer) IsEmpty() (bool, error) {
	nodes, groups, err := p.ListAll()
	if err != nil {
		return false, err
	}
	return len(nodes) == 0 && len(groups) == 0, nil
}

// FileExists reports whether the container file exists on disk.
func (p *Pointer) FileExists() bool {
	_, err := os.Stat(p.file)
	return err == nil
}

// FileSize returns the container file's size in bytes, zero when the
// file does not exist.
func (p *Pointer) FileSize() int64 {
	info, err := os.Stat(p.file)
	if err != nil {
		return 0
	}
	return info.Size()
}

// String renders the cursor's subtree as indented JSON with every
// leaf stringified, for interactive inspection.
func (p *Pointer) String() string {
	position := fmt.Sprintf("Pointer(%s: %s)", p.file, p.path)
	nested, err := p.ToDict(true)
	if err != nil {
		return position
	}
	out, err := json.MarshalIndent(tree.Stringify(nested), "", "  ")
	if err != nil {
		return position
	}
	return string(out)
}

func baseNames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = tree.Base(p)
	}
	return out
}

func relPaths(base string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = tree.Rel(base, p)
	}
	return out
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/zeebo/blake3"
)

// cleanPath converts paths to the canonical absolute form used
// throughout the container:
//
//	""     -> "/"
//	"abc"  -> "/abc"
//	"/abc" -> "/abc"
//	"abc/" -> "/abc"
//	"/"    -> "/"
func cleanPath(p string) string {
	p = path.Clean(p)
	if p == "." {
		return "/"
	}
	return "/" + strings.Trim(p, "/")
}

// splitPath returns the path segments of a cleaned path; the root has
// no segments.
func splitPath(p string) []string {
	p = cleanPath(p)
	if p == "/" {
		return nil
	}
	return strings.Split(p[1:], "/")
}

// lookup walks the tree to the entry at p. Returns nil when any
// segment is missing or when a leaf appears mid-path.
func (f *File) lookup(p string) *entry {
	current := f.root
	for _, segment := range splitPath(p) {
		if current.Children == nil {
			return nil
		}
		next, ok := current.Children[segment]
		if !ok {
			return nil
		}
		current = next
	}
	return current
}

// Exists reports whether a node or group exists at p.
func (f *File) Exists(p string) bool { return f.lookup(p) != nil }

// IsLeaf reports whether p exists and is a payload-bearing node.
func (f *File) IsLeaf(p string) bool {
	e := f.lookup(p)
	return e != nil && e.Leaf
}

// TypeTag returns the type tag recorded at p. Missing paths return
// fs.ErrNotExist; untagged entries return the empty string.
func (f *File) TypeTag(p string) (string, error) {
	e := f.lookup(p)
	if e == nil {
		return "", fmt.Errorf("%s: %w", cleanPath(p), fs.ErrNotExist)
	}
	return e.Tag, nil
}

// Child describes one immediate child of a group.
type Child struct {
	// Name is the child's own name (last path segment).
	Name string

	// Path is the child's absolute path.
	Path string

	// Leaf is true for payload-bearing nodes.
	Leaf bool

	// Tag is the child's type tag, empty when untagged.
	Tag string
}

// Children lists the immediate children of the group at p in name
// order. A missing path returns fs.ErrNotExist; a leaf returns
// fs.ErrInvalid.
func (f *File) Children(p string) ([]Child, error) {
	p = cleanPath(p)
	e := f.lookup(p)
	if e == nil {
		return nil, fmt.Errorf("%s: %w", p, fs.ErrNotExist)
	}
	if e.Leaf {
		return nil, fmt.Errorf("%s: not a group: %w", p, fs.ErrInvalid)
	}
	names := make([]string, 0, len(e.Children))
	for name := range e.Children {
		names = append(names, name)
	}
	sort.Strings(names)

	children := make([]Child, 0, len(names))
	for _, name := range names {
		child := e.Children[name]
		children = append(children, Child{
			Name: name,
			Path: joinPath(p, name),
			Leaf: child.Leaf,
			Tag:  child.Tag,
		})
	}
	return children, nil
}

func joinPath(base, name string) string {
	if base == "/" {
		return "/" + name
	}
	return base + "/" + name
}

// ensureParents walks to the parent group of p, creating intermediate
// groups on demand. A leaf occupying an intermediate segment is a
// structural conflict (fs.ErrExist).
func (f *File) ensureParents(p string) (*entry, error) {
	segments := splitPath(p)
	if len(segments) == 0 {
		return f.root, nil
	}
	current := f.root
	walked := ""
	for _, segment := range segments[:len(segments)-1] {
		walked += "/" + segment
		if current.Children == nil {
			current.Children = make(map[string]*entry)
		}
		next, ok := current.Children[segment]
		if !ok {
			next = &entry{Children: make(map[string]*entry)}
			current.Children[segment] = next
			f.dirty = true
		} else if next.Leaf {
			return nil, fmt.Errorf("%s: node in the way of %s: %w", walked, cleanPath(p), fs.ErrExist)
		}
		current = next
	}
	if current.Children == nil {
		current.Children = make(map[string]*entry)
	}
	return current, nil
}

func (f *File) checkWritable() error {
	if !f.Writable() {
		return fmt.Errorf("container %s opened %s: %w", f.name, f.mode, fs.ErrInvalid)
	}
	return nil
}

// PutLeaf stores a payload-bearing node at p, creating parent groups
// implicitly. An existing leaf at p is replaced (update semantics); an
// existing group at p is a structural conflict (fs.ErrExist); the
// caller must delete it first when a type change is intended.
func (f *File) PutLeaf(p string, tag string, raw []byte, compression CompressionTag, level int) error {
	if err := f.checkWritable(); err != nil {
		return err
	}
	p = cleanPath(p)
	segments := splitPath(p)
	if len(segments) == 0 {
		return fmt.Errorf("cannot store a node at the root group: %w", fs.ErrInvalid)
	}
	parent, err := f.ensureParents(p)
	if err != nil {
		return err
	}
	name := segments[len(segments)-1]
	if existing, ok := parent.Children[name]; ok && !existing.Leaf {
		return fmt.Errorf("%s: group exists where node would be written: %w", p, fs.ErrExist)
	}

	stored, usedTag, err := compress(raw, compression, level)
	if err != nil {
		return fmt.Errorf("storing %s: %w", p, err)
	}
	sum := blake3.Sum256(raw)
	parent.Children[name] = &entry{
		Tag:         tag,
		Leaf:        true,
		Compression: usedTag,
		RawSize:     int64(len(raw)),
		Sum:         sum[:],
		Payload:     stored,
	}
	f.dirty = true
	return nil
}

// ReadLeaf returns the type tag and decompressed payload of the node
// at p. The payload checksum is verified; damage surfaces as
// ErrChecksum.
func (f *File) ReadLeaf(p string) (string, []byte, error) {
	p = cleanPath(p)
	e := f.lookup(p)
	if e == nil {
		return "", nil, fmt.Errorf("%s: %w", p, fs.ErrNotExist)
	}
	if !e.Leaf {
		return "", nil, fmt.Errorf("%s: is a group, not a node: %w", p, fs.ErrInvalid)
	}
	raw, err := decompress(e.Payload, e.Compression, int(e.RawSize))
	if err != nil {
		return "", nil, fmt.Errorf("reading %s: %w", p, err)
	}
	sum := blake3.Sum256(raw)
	if !bytes.Equal(sum[:], e.Sum) {
		return "", nil, fmt.Errorf("reading %s: %w", p, ErrChecksum)
	}
	return e.Tag, raw, nil
}

// EnsureGroup creates the group at p (and its parents) if absent and
// records the given type tag when non-empty. An existing leaf at p is
// a structural conflict.
func (f *File) EnsureGroup(p string, tag string) error {
	if err := f.checkWritable(); err != nil {
		return err
	}
	p = cleanPath(p)
	segments := splitPath(p)
	if len(segments) == 0 {
		if tag != "" && f.root.Tag != tag {
			f.root.Tag = tag
			f.dirty = true
		}
		return nil
	}
	parent, err := f.ensureParents(p)
	if err != nil {
		return err
	}
	name := segments[len(segments)-1]
	e, ok := parent.Children[name]
	if !ok {
		e = &entry{Children: make(map[string]*entry)}
		parent.Children[name] = e
		f.dirty = true
	} else if e.Leaf {
		return fmt.Errorf("%s: node exists where group would be created: %w", p, fs.ErrExist)
	}
	if tag != "" && e.Tag != tag {
		e.Tag = tag
		f.dirty = true
	}
	return nil
}

// Delete removes the subtree at p. Deleting the root clears the
// container. A missing path returns fs.ErrNotExist.
func (f *File) Delete(p string) error {
	if err := f.checkWritable(); err != nil {
		return err
	}
	p = cleanPath(p)
	segments := splitPath(p)
	if len(segments) == 0 {
		f.root = &entry{Children: make(map[string]*entry)}
		f.dirty = true
		return nil
	}
	parentPath := path.Dir(p)
	parent := f.lookup(parentPath)
	if parent == nil || parent.Leaf {
		return fmt.Errorf("%s: %w", p, fs.ErrNotExist)
	}
	name := segments[len(segments)-1]
	if _, ok := parent.Children[name]; !ok {
		return fmt.Errorf("%s: %w", p, fs.ErrNotExist)
	}
	delete(parent.Children, name)
	f.dirty = true
	return nil
}

// Move relocates the subtree at src to dst, creating dst's parents.
// Fails with fs.ErrExist when dst is already occupied (callers delete
// first to replace) and fs.ErrNotExist when src is missing.
func (f *File) Move(src, dst string) error {
	if err := f.checkWritable(); err != nil {
		return err
	}
	src, dst = cleanPath(src), cleanPath(dst)
	srcSegments := splitPath(src)
	if len(srcSegments) == 0 {
		return fmt.Errorf("cannot move the root group: %w", fs.ErrInvalid)
	}
	subtree := f.lookup(src)
	if subtree == nil {
		return fmt.Errorf("%s: %w", src, fs.ErrNotExist)
	}
	if f.Exists(dst) {
		return fmt.Errorf("%s: %w", dst, fs.ErrExist)
	}
	dstSegments := splitPath(dst)
	if len(dstSegments) == 0 {
		return fmt.Errorf("cannot move onto the root group: %w", fs.ErrInvalid)
	}
	parent, err := f.ensureParents(dst)
	if err != nil {
		return err
	}

	srcParent := f.lookup(path.Dir(src))
	delete(srcParent.Children, srcSegments[len(srcSegments)-1])
	parent.Children[dstSegments[len(dstSegments)-1]] = subtree
	f.dirty = true
	return nil
}

// CopyInto deep-copies the subtree at src into the destination group
// dstGroup of dst (which may be the same file), as a child named after
// src's last segment, the way a filesystem copy into a directory
// keeps the source name. The destination group chain is
// created on demand; an existing child of that name is a structural
// conflict.
func (f *File) CopyInto(src string, dst *File, dstGroup string) error {
	if err := dst.checkWritable(); err != nil {
		return err
	}
	src = cleanPath(src)
	if src == "/" {
		return fmt.Errorf("cannot copy the root group as a child: %w", fs.ErrInvalid)
	}
	subtree := f.lookup(src)
	if subtree == nil {
		return fmt.Errorf("%s: %w", src, fs.ErrNotExist)
	}
	if err := dst.EnsureGroup(dstGroup, ""); err != nil {
		return err
	}
	target := dst.lookup(cleanPath(dstGroup))
	name := path.Base(src)
	if _, ok := target.Children[name]; ok {
		return fmt.Errorf("%s: %w", joinPath(cleanPath(dstGroup), name), fs.ErrExist)
	}
	target.Children[name] = subtree.clone()
	dst.dirty = true
	return nil
}

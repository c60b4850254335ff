// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hive

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/bureau-foundation/hive/lib/container"
	"github.com/bureau-foundation/hive/lib/tree"
)

// CopyOption configures Pointer.CopyTo.
type CopyOption func(*copySettings)

type copySettings struct {
	maintainName bool
	fileName     string
}

// MaintainName controls where the copy lands. True (the default)
// copies the subtree under the destination as a child named after the
// source's last path segment. False replaces the destination path
// itself with the copied subtree.
func MaintainName(b bool) CopyOption {
	return func(cs *copySettings) { cs.maintainName = b }
}

// FileName redirects the copy into the named container file instead
// of the destination pointer's. The Extension suffix is appended when
// absent, matching NewPointer.
func FileName(name string) CopyOption {
	return func(cs *copySettings) { cs.fileName = name }
}

// CopyTo physically copies the subtree at the cursor's path into the
// destination cursor's container and path, and returns a cursor at
// the copied location. Copies within one file share a single
// read-write session; cross-file copies open the source read-only and
// the destination read-or-create.
func (p *Pointer) CopyTo(dest *Pointer, opts ...CopyOption) (*Pointer, error) {
	cs := copySettings{maintainName: true}
	for _, opt := range opts {
		opt(&cs)
	}
	destFile := dest.file
	if cs.fileName != "" {
		destFile = withExtension(cs.fileName)
	}
	s := newSettings(p.opts)

	var src, dst *container.File
	var err error
	sameFile := destFile == p.file
	if sameFile {
		dst, err = openRetry(destFile, container.ReadWrite, s)
		if err != nil {
			return nil, err
		}
		src = dst
	} else {
		src, err = openRetry(p.file, container.ReadOnly, s)
		if err != nil {
			return nil, err
		}
		dst, err = openRetry(destFile, container.ReadOrCreate, s)
		if err != nil {
			src.Close()
			return nil, err
		}
	}

	resultPath, err := copySubtree(src, p.path, dst, dest.path, cs.maintainName)
	if !sameFile {
		if closeErr := src.Close(); err == nil {
			err = closeErr
		}
	}
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, err
	}
	return &Pointer{file: destFile, path: resultPath, opts: dest.opts}, nil
}

// copySubtree places the subtree at srcPath into the destination.
// Name-maintaining copies (and any copy aimed at the root group) land
// directly as a child of dstPath named after srcPath's last segment.
// Exact-destination copies stage under a temporary group first, then
// move into place, deleting a pre-existing node at dstPath when the
// plain move collides with it.
func copySubtree(src *container.File, srcPath string, dst *container.File, dstPath string, maintainName bool) (string, error) {
	srcPath, dstPath = tree.Clean(srcPath), tree.Clean(dstPath)
	if maintainName || dstPath == "/" {
		if err := src.CopyInto(srcPath, dst, dstPath); err != nil {
			return "", err
		}
		return tree.Join(dstPath, tree.Base(srcPath)), nil
	}

	staging := fmt.Sprintf("/.copy-staging-%d", time.Now().UnixNano())
	if err := src.CopyInto(srcPath, dst, staging); err != nil {
		return "", err
	}
	staged := tree.Join(staging, tree.Base(srcPath))
	if err := dst.Move(staged, dstPath); err != nil {
		if !errors.Is(err, fs.ErrExist) {
			dst.Delete(staging)
			return "", err
		}
		if err := dst.Delete(dstPath); err != nil {
			dst.Delete(staging)
			return "", err
		}
		if err := dst.Move(staged, dstPath); err != nil {
			dst.Delete(staging)
			return "", err
		}
	}
	if err := dst.Delete(staging); err != nil && !container.IsNotFound(err) {
		return "", err
	}
	return dstPath, nil
}

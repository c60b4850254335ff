// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Mode selects how a container file is opened.
type Mode uint8

const (
	// ReadOnly opens an existing container for reading. The file must
	// exist.
	ReadOnly Mode = iota

	// ReadWrite opens an existing container for reading and writing.
	// The file must exist.
	ReadWrite

	// CreateTruncate creates a new container, discarding any existing
	// content.
	CreateTruncate

	// CreateExclusive creates a new container and fails with
	// fs.ErrExist if the file already exists.
	CreateExclusive

	// ReadOrCreate opens an existing container for reading and
	// writing, creating it when absent. The mode every write façade
	// operation uses.
	ReadOrCreate
)

// String returns the mode name used in error messages.
func (m Mode) String() string {
	switch m {
	case ReadOnly:
		return "read-only"
	case ReadWrite:
		return "read-write"
	case CreateTruncate:
		return "create-truncate"
	case CreateExclusive:
		return "create-exclusive"
	case ReadOrCreate:
		return "read-or-create"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

func (m Mode) writable() bool { return m != ReadOnly }

func (m Mode) openFlags() int {
	switch m {
	case ReadOnly:
		return os.O_RDONLY
	case ReadWrite:
		return os.O_RDWR
	case CreateTruncate:
		return os.O_RDWR | os.O_CREATE | os.O_TRUNC
	case CreateExclusive:
		return os.O_RDWR | os.O_CREATE | os.O_EXCL
	case ReadOrCreate:
		return os.O_RDWR | os.O_CREATE
	default:
		return os.O_RDONLY
	}
}

// Option configures Open.
type Option func(*openOptions)

type openOptions struct {
	swmr bool
}

// WithSWMR requests single-writer-multiple-reader semantics. Paired
// with ReadOnly it opens a lock-free reader that tolerates a live
// writer; paired with any write mode it promotes the handle to the
// unique SWMR writer. Reads taken while a writer is mid-rewrite see
// the last committed tree (commits are atomic renames).
func WithSWMR() Option {
	return func(o *openOptions) { o.swmr = true }
}

// File is an open container session. Mutations accumulate in memory
// and are committed atomically by Close. A File is not safe for
// concurrent use by multiple goroutines.
type File struct {
	name     string
	mode     Mode
	swmr     bool
	handle   *os.File
	root     *entry
	dirty    bool
	closed   bool
}

// Open opens the container file name with the requested access mode.
// Writer modes take an exclusive non-blocking flock; ReadOnly takes a
// shared one (unless SWMR). A held conflicting lock surfaces as
// ErrBusy, the transient class the retry guard absorbs.
func Open(name string, mode Mode, opts ...Option) (*File, error) {
	var options openOptions
	for _, opt := range opts {
		opt(&options)
	}

	handle, err := os.OpenFile(name, mode.openFlags(), 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening container %s (%s): %w", name, mode, err)
	}

	if how, locked := lockFor(mode, options.swmr); locked {
		if err := unix.Flock(int(handle.Fd()), how|unix.LOCK_NB); err != nil {
			handle.Close()
			if errors.Is(err, unix.EWOULDBLOCK) {
				return nil, fmt.Errorf("%s held by another process: %w", name, ErrBusy)
			}
			return nil, fmt.Errorf("locking %s: %w", name, err)
		}
	}

	root, err := loadTree(handle, mode)
	if err != nil {
		unlock(handle)
		handle.Close()
		return nil, fmt.Errorf("loading container %s: %w", name, err)
	}

	return &File{
		name:   name,
		mode:   mode,
		swmr:   options.swmr,
		handle: handle,
		root:   root,
	}, nil
}

func lockFor(mode Mode, swmr bool) (how int, locked bool) {
	if mode.writable() {
		return unix.LOCK_EX, true
	}
	if swmr {
		// SWMR readers take no lock and coexist with the live writer.
		return 0, false
	}
	return unix.LOCK_SH, true
}

func unlock(handle *os.File) {
	_ = unix.Flock(int(handle.Fd()), unix.LOCK_UN)
}

func loadTree(handle *os.File, mode Mode) (*entry, error) {
	info, err := handle.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		// Freshly created (or truncated) container.
		return &entry{Children: make(map[string]*entry)}, nil
	}
	data := make([]byte, info.Size())
	if _, err := handle.ReadAt(data, 0); err != nil {
		return nil, err
	}
	return decodeTree(data)
}

// Name returns the container file name.
func (f *File) Name() string { return f.name }

// Mode returns the access mode the session was opened with.
func (f *File) Mode() Mode { return f.mode }

// Writable reports whether the session accepts mutations.
func (f *File) Writable() bool { return f.mode.writable() }

// Close commits pending mutations (for writable sessions) and
// releases the file lock. Commit is atomic: the new tree is written
// to a temporary file in the same directory and renamed over the
// container. Close is idempotent.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	defer func() {
		unlock(f.handle)
		f.handle.Close()
	}()

	if !f.dirty || !f.Writable() {
		return nil
	}

	data, err := encodeTree(f.root)
	if err != nil {
		return fmt.Errorf("committing %s: %w", f.name, err)
	}

	dir := filepath.Dir(f.name)
	tmp, err := os.CreateTemp(dir, ".hive-commit-*")
	if err != nil {
		return fmt.Errorf("committing %s: %w", f.name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("committing %s: %w", f.name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("committing %s: %w", f.name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("committing %s: %w", f.name, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("committing %s: %w", f.name, err)
	}
	if err := os.Rename(tmpName, f.name); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("committing %s: %w", f.name, err)
	}
	return nil
}

// ResolveName accepts either an open *File or a plain name string and
// returns the container file name. Any other input is a usage error
// (fs.ErrInvalid), never retried.
func ResolveName(handleOrName any) (string, error) {
	switch x := handleOrName.(type) {
	case *File:
		return x.name, nil
	case string:
		return x, nil
	default:
		return "", fmt.Errorf("handle must be *container.File or string, got %T: %w",
			handleOrName, fs.ErrInvalid)
	}
}

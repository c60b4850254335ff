// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"errors"
	"io/fs"
)

// ErrBusy is the transient contention error: another process holds an
// incompatible lock on the container file. Callers are expected to
// absorb it with the retry guard rather than surface it.
var ErrBusy = errors.New("container file busy")

// ErrChecksum indicates a leaf payload failed checksum verification
// after decompression. The container file is damaged; this is never
// retried.
var ErrChecksum = errors.New("payload checksum mismatch")

// Structural errors reuse the io/fs sentinels so callers can test
// them with errors.Is the same way they test plain file operations:
//
//   - fs.ErrNotExist: missing file, missing path inside a container
//   - fs.ErrExist: writing over a node of conflicting shape
//   - fs.ErrInvalid: usage errors (bad argument types, group/leaf
//     misuse)

// ErrNotFound is the missing file-or-path sentinel. It aliases
// fs.ErrNotExist so errors.Is matches either name.
var ErrNotFound = fs.ErrNotExist

// IsTransient reports whether an error is the retryable contention
// class. Everything else is fatal to the attempted operation.
func IsTransient(err error) bool {
	return errors.Is(err, ErrBusy)
}

// IsNotFound reports whether an error means the file or path does not
// exist. Listing and delete operations absorb this into empty results.
func IsNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

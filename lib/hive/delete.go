// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hive

import (
	"errors"
	"io/fs"
	"os"

	"github.com/bureau-foundation/hive/lib/container"
	"github.com/bureau-foundation/hive/lib/tree"
)

// DeleteItem removes the subtree at path. Idempotent: a missing file
// or missing path is a successful no-op.
func DeleteItem(file any, path string, opts ...Option) error {
	s := newSettings(opts)
	if name, ok := file.(string); ok {
		if _, err := os.Stat(name); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
	}
	f, owned, err := sessionFor(file, container.ReadWrite, s)
	if err != nil {
		if container.IsNotFound(err) {
			return nil
		}
		return err
	}
	if err := f.Delete(tree.Clean(path)); err != nil && !container.IsNotFound(err) {
		return finish(f, owned, err)
	}
	return finish(f, owned, nil)
}

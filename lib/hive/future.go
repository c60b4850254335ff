// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hive

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/bureau-foundation/hive/lib/tree"
)

// Future holds one node's value read eagerly at construction. It is a
// staleness check, not a concurrency primitive: Done is always true,
// and Result returns the snapshot taken when ReadFutureDict ran.
type Future struct {
	file   string
	path   string
	logger *slog.Logger
	mtime  time.Time
	result any
	once   sync.Once
}

// Done always reports true: the read happened at construction.
func (f *Future) Done() bool { return true }

// Result returns the snapshot value. The first call compares the
// container file's current modification time with the one recorded at
// construction and warns through the logger when they differ.
func (f *Future) Result() (any, error) {
	f.once.Do(func() {
		info, err := os.Stat(f.file)
		if err == nil && !info.ModTime().Equal(f.mtime) {
			f.logger.Warn("container changed after snapshot was taken",
				"file", f.file,
				"path", f.path,
				"snapshot_mtime", f.mtime,
				"file_mtime", info.ModTime(),
			)
		}
	})
	return f.result, nil
}

// ReadFutureDict reads like ReadFlatDict but wraps each node's value
// in a Future keyed by its path relative to path.
func ReadFutureDict(file, path string, opts ...Option) (map[string]*Future, error) {
	s := newSettings(opts)
	flat, err := ReadFlatDict(file, path, opts...)
	if err != nil {
		return nil, err
	}
	var mtime time.Time
	if info, err := os.Stat(file); err == nil {
		mtime = info.ModTime()
	}
	base := tree.Clean(path)
	out := make(map[string]*Future, len(flat))
	for k, v := range flat {
		out[tree.Rel(base, k)] = &Future{
			file:   file,
			path:   k,
			logger: s.logger,
			mtime:  mtime,
			result: v,
		}
	}
	return out, nil
}

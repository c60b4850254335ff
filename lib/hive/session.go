// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hive

import (
	"github.com/bureau-foundation/hive/lib/container"
	"github.com/bureau-foundation/hive/lib/retry"
)

// openRetry opens a container session under the retry guard: a file
// locked by another process surfaces as transient contention and is
// retried per the policy rather than returned.
func openRetry(name string, mode container.Mode, s settings) (*container.File, error) {
	return retry.Do(s.retry, container.IsTransient, func() (*container.File, error) {
		return container.Open(name, mode)
	})
}

// sessionFor resolves the handle-or-name file argument of façade
// operations. An open *container.File is used directly and stays
// open (owned=false); a name string opens a fresh session the caller
// must close (owned=true). Anything else is a usage error.
func sessionFor(file any, mode container.Mode, s settings) (f *container.File, owned bool, err error) {
	if handle, ok := file.(*container.File); ok {
		return handle, false, nil
	}
	name, err := container.ResolveName(file)
	if err != nil {
		return nil, false, err
	}
	f, err = openRetry(name, mode, s)
	if err != nil {
		return nil, false, err
	}
	return f, true, nil
}

// finish closes an owned session and folds its commit error into the
// operation's. Borrowed sessions are left open for the caller.
func finish(f *container.File, owned bool, err error) error {
	if !owned {
		return err
	}
	closeErr := f.Close()
	if err != nil {
		return err
	}
	return closeErr
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared helpers for tests that exercise
// hive container files.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bureau-foundation/hive/lib/hive"
	"github.com/bureau-foundation/hive/lib/tree"
)

// TempHive returns a container file path inside a per-test temporary
// directory. The file itself is not created.
func TempHive(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.hive")
}

// MustWrite writes data into file, failing the test on error.
func MustWrite(t *testing.T, file string, data map[string]any, opts ...hive.Option) {
	t.Helper()
	if err := hive.WriteDict(file, data, opts...); err != nil {
		t.Fatalf("WriteDict(%s): %v", file, err)
	}
}

// ReadNested reads the nested dictionary at path, failing the test on
// error.
func ReadNested(t *testing.T, file, path string, opts ...hive.Option) tree.Nested {
	t.Helper()
	nested, err := hive.ReadDict(file, path, opts...)
	if err != nil {
		t.Fatalf("ReadDict(%s, %s): %v", file, path, err)
	}
	return nested
}

// DiffNested fails the test when two nested dictionaries differ,
// printing a go-cmp diff.
func DiffNested(t *testing.T, want, got tree.Nested) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("nested dict mismatch (-want +got):\n%s", diff)
	}
}

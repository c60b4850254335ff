// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hive_test

import (
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/bureau-foundation/hive/lib/clock"
	"github.com/bureau-foundation/hive/lib/container"
	"github.com/bureau-foundation/hive/lib/hive"
	"github.com/bureau-foundation/hive/lib/retry"
	"github.com/bureau-foundation/hive/lib/testutil"
	"github.com/bureau-foundation/hive/lib/tree"
)

func TestWriteReadNestedRoundTrip(t *testing.T) {
	file := testutil.TempHive(t)
	testutil.MustWrite(t, file, map[string]any{
		"/test/path/a": int64(1),
		"/test/path/b": "two",
		"/test/c":      2.5,
	})
	got := testutil.ReadNested(t, file, "/test", hive.Recursive(true))
	want := tree.Nested{
		"path": tree.Nested{"a": int64(1), "b": "two"},
		"c":    2.5,
	}
	testutil.DiffNested(t, want, got)
}

func TestReadDictNonRecursiveCoversChildNodesOnly(t *testing.T) {
	file := sampleTree(t)
	got := testutil.ReadNested(t, file, "/")
	want := tree.Nested{
		"a": int64(1),
		"d": map[string]any{"k": int64(9)},
	}
	testutil.DiffNested(t, want, got)
}

func TestReadDictDegradesToPathItself(t *testing.T) {
	// /g has only a child group, no child nodes: the non-recursive
	// read degrades to reading /g itself, which loads its subtree.
	file := testutil.TempHive(t)
	testutil.MustWrite(t, file, map[string]any{"/g/sub/a": int64(1)})
	got := testutil.ReadNested(t, file, "/g")
	want := tree.Nested{
		"g": map[string]any{"sub": map[string]any{"a": int64(1)}},
	}
	testutil.DiffNested(t, want, got)
}

func TestReadDictRootNeverDegrades(t *testing.T) {
	file := testutil.TempHive(t)
	testutil.MustWrite(t, file, map[string]any{"/g/sub/a": int64(1)})
	got := testutil.ReadNested(t, file, "/")
	testutil.DiffNested(t, tree.Nested{}, got)
}

func TestReadDictOpaqueRootReturnsMappingDirectly(t *testing.T) {
	file := testutil.TempHive(t)
	testutil.MustWrite(t, file, map[string]any{
		"/d": map[string]any{"x": int64(1), "y": map[string]any{"z": int64(2)}},
	})
	got := testutil.ReadNested(t, file, "/d")
	want := tree.Nested{"x": int64(1), "y": map[string]any{"z": int64(2)}}
	testutil.DiffNested(t, want, got)
}

func TestReadDictLeafRootLandsUnderLastSegment(t *testing.T) {
	file := testutil.TempHive(t)
	testutil.MustWrite(t, file, map[string]any{"/g/a": int64(5)})
	got := testutil.ReadNested(t, file, "/g/a")
	testutil.DiffNested(t, tree.Nested{"a": int64(5)}, got)
}

func TestReadFlatDict(t *testing.T) {
	file := sampleTree(t)
	flat, err := hive.ReadFlatDict(file, "/", hive.Recursive(true))
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"/a":     int64(1),
		"/d":     map[string]any{"k": int64(9)},
		"/g/b":   int64(2),
		"/g/c/d": int64(4),
		"/g/c/e": int64(5),
	}
	if diff := cmp.Diff(want, flat); diff != "" {
		t.Errorf("flat (-want +got):\n%s", diff)
	}
}

func TestReadDictGroupPaths(t *testing.T) {
	file := testutil.TempHive(t)
	testutil.MustWrite(t, file, map[string]any{
		"/a":    int64(1),
		"/g1/x": int64(10),
		"/g2/y": int64(20),
	})
	got := testutil.ReadNested(t, file, "/", hive.GroupPaths([]string{"g1"}))
	want := tree.Nested{
		"a":  int64(1),
		"g1": tree.Nested{"x": int64(10)},
	}
	testutil.DiffNested(t, want, got)
}

func TestReadDictGroupPathsAppendBeforePatternFilter(t *testing.T) {
	file := testutil.TempHive(t)
	testutil.MustWrite(t, file, map[string]any{
		"/keep":   int64(1),
		"/g1/x":   int64(10),
		"/g1/out": int64(11),
	})
	got := testutil.ReadNested(t, file, "/",
		hive.GroupPaths([]string{"g1"}),
		hive.Pattern("*x"),
	)
	// The pattern applies to the combined node list, so /keep and
	// /g1/out fall away together.
	want := tree.Nested{"g1": tree.Nested{"x": int64(10)}}
	testutil.DiffNested(t, want, got)
}

func TestReadDictPattern(t *testing.T) {
	file := sampleTree(t)
	got := testutil.ReadNested(t, file, "/", hive.Recursive(true), hive.Pattern("*/c/*"))
	want := tree.Nested{
		"g": tree.Nested{"c": tree.Nested{"d": int64(4), "e": int64(5)}},
	}
	testutil.DiffNested(t, want, got)
}

func TestReadDictMissingFileIsEmpty(t *testing.T) {
	got := testutil.ReadNested(t, testutil.TempHive(t), "/")
	testutil.DiffNested(t, tree.Nested{}, got)
}

func TestWriteDictSlashPolicies(t *testing.T) {
	file := testutil.TempHive(t)
	data := map[string]any{"/d": map[string]any{"a/b": int64(1)}}

	err := hive.WriteDict(file, data)
	if !errors.Is(err, fs.ErrInvalid) {
		t.Fatalf("default write policy should reject '/': %v", err)
	}

	testutil.MustWrite(t, file, data, hive.Slash(hive.SlashReplace))

	got := testutil.ReadNested(t, file, "/d", hive.Slash(hive.SlashReplace))
	testutil.DiffNested(t, tree.Nested{"a/b": int64(1)}, got)

	got = testutil.ReadNested(t, file, "/d")
	testutil.DiffNested(t, tree.Nested{"a{FWDSLASH}b": int64(1)}, got)
}

func TestWriteDictUnsupportedType(t *testing.T) {
	file := testutil.TempHive(t)
	err := hive.WriteDict(file, map[string]any{"/x": make(chan int)})
	var unsupported *hive.UnsupportedTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("err = %v, want UnsupportedTypeError", err)
	}
	if unsupported.Path != "/x" {
		t.Errorf("Path = %q, want /x", unsupported.Path)
	}
	if unsupported.TypeName != "chan int" {
		t.Errorf("TypeName = %q, want chan int", unsupported.TypeName)
	}
	if !errors.Is(err, hive.ErrUnsupportedType) {
		t.Error("should wrap hive.ErrUnsupportedType")
	}
}

func TestWriteDictUpdateSemantics(t *testing.T) {
	file := testutil.TempHive(t)
	testutil.MustWrite(t, file, map[string]any{"/n": int64(1)})
	testutil.MustWrite(t, file, map[string]any{"/n": map[string]any{"a": int64(2)}})
	got := testutil.ReadNested(t, file, "/n")
	testutil.DiffNested(t, tree.Nested{"a": int64(2)}, got)
}

func TestWriteDictRaggedSequence(t *testing.T) {
	file := testutil.TempHive(t)
	testutil.MustWrite(t, file, map[string]any{
		"/r": []any{
			[]any{int64(1)},
			[]any{int64(1), int64(2)},
		},
	})
	// The multiarray group reads back as one node.
	nodes, groups, err := hive.List(file, "/")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"/r"}, nodes); diff != "" {
		t.Errorf("nodes (-want +got):\n%s", diff)
	}
	if len(groups) != 0 {
		t.Errorf("groups = %v, want none", groups)
	}
	got := testutil.ReadNested(t, file, "/r")
	want := tree.Nested{"r": []any{
		[]any{int64(1)},
		[]any{int64(1), int64(2)},
	}}
	testutil.DiffNested(t, want, got)
}

func TestWriteDictLZ4(t *testing.T) {
	file := testutil.TempHive(t)
	long := make([]any, 256)
	for i := range long {
		long[i] = int64(7)
	}
	testutil.MustWrite(t, file, map[string]any{"/big": long}, hive.LZ4())
	got := testutil.ReadNested(t, file, "/big")
	if diff := cmp.Diff(256, len(got["big"].([]any))); diff != "" {
		t.Errorf("length (-want +got):\n%s", diff)
	}
}

func TestDeleteItem(t *testing.T) {
	file := testutil.TempHive(t)

	// Missing file: no-op.
	if err := hive.DeleteItem(file, "/a"); err != nil {
		t.Fatalf("missing file: %v", err)
	}

	testutil.MustWrite(t, file, map[string]any{"/a": int64(1), "/b": int64(2)})
	if err := hive.DeleteItem(file, "/a"); err != nil {
		t.Fatal(err)
	}
	got := testutil.ReadNested(t, file, "/")
	testutil.DiffNested(t, tree.Nested{"b": int64(2)}, got)

	// Missing path: no-op.
	if err := hive.DeleteItem(file, "/a"); err != nil {
		t.Fatalf("missing path: %v", err)
	}
}

func TestFacadeAcceptsOpenHandle(t *testing.T) {
	file := testutil.TempHive(t)
	f, err := container.Open(file, container.ReadOrCreate)
	if err != nil {
		t.Fatal(err)
	}
	if err := hive.WriteDict(f, map[string]any{"/a": int64(1)}); err != nil {
		t.Fatal(err)
	}
	// Borrowed sessions stay open: reads through the same handle see
	// the uncommitted write.
	got, err := hive.ReadDict(f, "/")
	if err != nil {
		t.Fatal(err)
	}
	testutil.DiffNested(t, tree.Nested{"a": int64(1)}, got)
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	got = testutil.ReadNested(t, file, "/")
	testutil.DiffNested(t, tree.Nested{"a": int64(1)}, got)
}

func TestFacadeRejectsBadFileArgument(t *testing.T) {
	err := hive.WriteDict(42, map[string]any{"/a": int64(1)})
	if !errors.Is(err, hive.ErrUsage) {
		t.Fatalf("err = %v, want hive.ErrUsage", err)
	}
}

func TestReadRetriesWhileFileBusy(t *testing.T) {
	file := testutil.TempHive(t)
	testutil.MustWrite(t, file, map[string]any{"/a": int64(1)})

	writer, err := container.Open(file, container.ReadWrite)
	if err != nil {
		t.Fatal(err)
	}

	fake := clock.Fake(time.Unix(0, 0))
	type outcome struct {
		nested tree.Nested
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		nested, err := hive.ReadDict(file, "/", hive.RetryPolicy(retry.Policy{
			Attempts: 10,
			Delay:    time.Second,
			Clock:    fake,
		}))
		done <- outcome{nested, err}
	}()

	// First attempt hit the writer's lock and the guard is sleeping.
	fake.WaitForWaiters(1)
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	fake.Advance(time.Second)

	result := <-done
	if result.err != nil {
		t.Fatal(result.err)
	}
	testutil.DiffNested(t, tree.Nested{"a": int64(1)}, result.nested)
}

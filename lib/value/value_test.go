// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeScalars(t *testing.T) {
	stamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   any
		kind Kind
		out  any
	}{
		{"bool", true, KindBool, true},
		{"int", 7, KindInt, int64(7)},
		{"int64", int64(-3), KindInt, int64(-3)},
		{"uint32", uint32(9), KindInt, int64(9)},
		{"float64", 2.5, KindFloat, 2.5},
		{"float32", float32(0.5), KindFloat, 0.5},
		{"string", "hello", KindString, "hello"},
		{"bytes", []byte{1, 2}, KindBytes, []byte{1, 2}},
		{"time", stamp, KindTime, stamp},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := Normalize(tc.in)
			if err != nil {
				t.Fatalf("Normalize(%v): %v", tc.in, err)
			}
			if v.Kind() != tc.kind {
				t.Fatalf("kind = %v, want %v", v.Kind(), tc.kind)
			}
			if diff := cmp.Diff(tc.out, v.Interface()); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeTypedSlicesAndArrays(t *testing.T) {
	v, err := Normalize([]int{1, 2, 3})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if v.Kind() != KindSeq || v.Len() != 3 {
		t.Fatalf("got kind %v len %d, want list of 3", v.Kind(), v.Len())
	}

	// Fixed-size arrays become plain sequences: the tuple analogue is
	// not distinguished on disk.
	arr, err := Normalize([2]string{"x", "y"})
	if err != nil {
		t.Fatalf("Normalize array: %v", err)
	}
	if arr.Kind() != KindSeq {
		t.Fatalf("array normalized to %v, want list", arr.Kind())
	}
	if diff := cmp.Diff([]any{"x", "y"}, arr.Interface()); diff != "" {
		t.Fatalf("array round trip (-want +got):\n%s", diff)
	}
}

func TestNormalizeNestedMap(t *testing.T) {
	in := map[string]any{
		"a": 1,
		"b": map[string]any{"c": []any{1.5, 2.5}},
	}
	v, err := Normalize(in)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := map[string]any{
		"a": int64(1),
		"b": map[string]any{"c": []any{1.5, 2.5}},
	}
	if diff := cmp.Diff(want, v.Interface()); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestNormalizeTypedStringMap(t *testing.T) {
	v, err := Normalize(map[string]int{"x": 1})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if v.Kind() != KindMap {
		t.Fatalf("kind = %v, want dict", v.Kind())
	}
}

func TestNormalizeRejectsUnsupported(t *testing.T) {
	for _, in := range []any{
		nil,
		make(chan int),
		func() {},
		map[int]string{1: "x"},
		struct{ X int }{1},
	} {
		if _, err := Normalize(in); !errors.Is(err, ErrUnsupported) {
			t.Errorf("Normalize(%T) error = %v, want ErrUnsupported", in, err)
		}
	}
}

func TestNormalizeRejectsNestedUnsupported(t *testing.T) {
	_, err := Normalize(map[string]any{"ok": 1, "bad": make(chan int)})
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("error = %v, want ErrUnsupported", err)
	}
}

func TestNormalizeUintOverflow(t *testing.T) {
	if _, err := Normalize(uint64(1) << 63); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("error = %v, want ErrUnsupported", err)
	}
}

func TestKindString(t *testing.T) {
	pairs := map[Kind]string{
		KindInt:         "int",
		KindMap:         "dict",
		KindSeq:         "list",
		KindObjectArray: "multiarray",
	}
	for kind, want := range pairs {
		if kind.String() != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, kind.String(), want)
		}
	}
}

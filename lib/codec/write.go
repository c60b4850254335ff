// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"sort"

	"github.com/fxamacker/cbor/v2"

	"github.com/bureau-foundation/hive/lib/container"
	"github.com/bureau-foundation/hive/lib/tree"
	"github.com/bureau-foundation/hive/lib/value"
)

// Options configures one WriteValue call.
type Options struct {
	// UseJSON permits falling back to a JSON leaf for sequences that
	// have no array-like representation (mixed element types, nested
	// mappings). Set by the pre-processor; false forces the CBOR
	// "list" encoding.
	UseJSON bool

	// Compression and Level select the payload compression for every
	// leaf written by this call.
	Compression container.CompressionTag
	Level       int

	// Slash is the write-side policy for "/" inside mapping sub-keys.
	// The zero value behaves like SlashError.
	Slash SlashPolicy
}

// encMode is the CBOR encoder for leaf payloads, configured with Core
// Deterministic Encoding so identical values always produce identical
// payload bytes (and therefore identical checksums).
var encMode cbor.EncMode

// decMode is the CBOR decoder for leaf payloads. Maps decode as
// map[string]any so decoded aggregates re-enter the value variant
// without a conversion pass.
var decMode cbor.DecMode

func init() {
	var err error
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	encMode, err = opts.EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// WriteValue stores v at p with update semantics: an existing node at
// p, leaf- or group-shaped, is replaced wholesale. Mappings become a
// "dict" group with one child per key; object arrays become a
// "multiarray" group holding the concatenated blocks and an index of
// split offsets; everything else becomes a single tagged leaf.
func WriteValue(f *container.File, p string, v value.Value, o Options) error {
	p = tree.Clean(p)
	if v.Kind() == value.KindInvalid {
		return &UnsupportedTypeError{Path: p, TypeName: v.Kind().String()}
	}
	if p == "/" && v.Kind() != value.KindMap {
		return fmt.Errorf("cannot store a %s at the root group: %w", v.Kind(), fs.ErrInvalid)
	}
	if f.Exists(p) {
		if err := f.Delete(p); err != nil {
			return fmt.Errorf("replacing %s: %w", p, err)
		}
	}
	return writeNode(f, p, v, o)
}

func writeNode(f *container.File, p string, v value.Value, o Options) error {
	switch v.Kind() {
	case value.KindMap:
		if err := f.EnsureGroup(p, TagDict); err != nil {
			return err
		}
		entries := v.Entries()
		keys := make([]string, 0, len(entries))
		for k := range entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			name, err := encodeKey(k, o.Slash)
			if err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
			if err := writeNode(f, tree.Join(p, name), entries[k], o); err != nil {
				return err
			}
		}
		return nil

	case value.KindObjectArray:
		if err := f.EnsureGroup(p, TagMultiarray); err != nil {
			return err
		}
		data, index := splitBlocks(v)
		if err := writeLeaf(f, tree.Join(p, "data"), data, o); err != nil {
			return err
		}
		return writeLeaf(f, tree.Join(p, "index"), index, o)

	default:
		return writeLeaf(f, p, v, o)
	}
}

func writeLeaf(f *container.File, p string, v value.Value, o Options) error {
	tag, payload, err := encodeLeaf(v, o.UseJSON)
	if err != nil {
		var unsupported *UnsupportedTypeError
		if errors.As(err, &unsupported) {
			unsupported.Path = p
			return unsupported
		}
		return fmt.Errorf("encoding %s: %w", p, err)
	}
	return f.PutLeaf(p, tag, payload, o.Compression, o.Level)
}

// encodeLeaf picks the type tag and serializes the payload. Sequences
// with a rectangular shape and uniform leaf class are array-like and
// tagged "ndarray"; other sequences fall back to JSON when permitted,
// otherwise to the CBOR "list" encoding.
func encodeLeaf(v value.Value, useJSON bool) (string, []byte, error) {
	switch v.Kind() {
	case value.KindBool:
		return marshalTagged(TagBool, v.BoolVal())
	case value.KindInt:
		return marshalTagged(TagInt, v.IntVal())
	case value.KindFloat:
		return marshalTagged(TagFloat, v.FloatVal())
	case value.KindString:
		return marshalTagged(TagString, v.StrVal())
	case value.KindBytes:
		return marshalTagged(TagBytes, v.BytesVal())
	case value.KindTime:
		return marshalTagged(TagTime, v.TimeVal())
	case value.KindSeq:
		if value.IsRectangularUniform(v) {
			return marshalTagged(TagNDArray, v.Interface())
		}
		if useJSON {
			payload, err := json.Marshal(v.Interface())
			return TagJSON, payload, err
		}
		return marshalTagged(TagList, v.Interface())
	default:
		return "", nil, &UnsupportedTypeError{TypeName: v.Kind().String()}
	}
}

func marshalTagged(tag string, x any) (string, []byte, error) {
	payload, err := encMode.Marshal(x)
	return tag, payload, err
}

// splitBlocks concatenates the object array's blocks along the first
// axis and records the split offsets between them. The offsets are the
// cumulative end positions of all blocks but the last, so splitting
// the data at the offsets reproduces the blocks.
func splitBlocks(v value.Value) (data, index value.Value) {
	blocks := v.Elems()
	rows := make([]value.Value, 0)
	offsets := make([]value.Value, 0, len(blocks))
	total := 0
	for i, block := range blocks {
		rows = append(rows, block.Elems()...)
		total += block.Len()
		if i < len(blocks)-1 {
			offsets = append(offsets, value.Int(int64(total)))
		}
	}
	return value.Seq(rows), value.Seq(offsets)
}

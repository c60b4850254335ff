// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"time"

	"github.com/bureau-foundation/hive/lib/container"
	"github.com/bureau-foundation/hive/lib/tree"
	"github.com/bureau-foundation/hive/lib/value"
)

// ReadValue loads the logical value at p. Leaves decode per their type
// tag. A "dict" group reassembles into a mapping, a "multiarray" group
// re-splits the concatenated data at the stored offsets into a
// sequence of blocks. Any other group (tagged or plain) reassembles as
// a mapping of its children, which keeps sparse-matrix groups and user
// hierarchy readable through one call.
func ReadValue(f *container.File, p string, slash SlashPolicy) (value.Value, error) {
	p = tree.Clean(p)
	if f.IsLeaf(p) {
		return readLeaf(f, p)
	}
	tag, err := f.TypeTag(p)
	if err != nil {
		return value.Value{}, err
	}
	switch tag {
	case TagMultiarray:
		data, err := ReadValue(f, tree.Join(p, "data"), slash)
		if err != nil {
			return value.Value{}, err
		}
		index, err := ReadValue(f, tree.Join(p, "index"), slash)
		if err != nil {
			return value.Value{}, err
		}
		return joinBlocks(data, index), nil
	default:
		children, err := f.Children(p)
		if err != nil {
			return value.Value{}, err
		}
		entries := make(map[string]value.Value, len(children))
		for _, child := range children {
			cv, err := ReadValue(f, child.Path, slash)
			if err != nil {
				return value.Value{}, err
			}
			entries[decodeKey(child.Name, slash)] = cv
		}
		return value.Map(entries), nil
	}
}

func readLeaf(f *container.File, p string) (value.Value, error) {
	tag, raw, err := f.ReadLeaf(p)
	if err != nil {
		return value.Value{}, err
	}
	switch tag {
	case TagBool:
		var b bool
		if err := decMode.Unmarshal(raw, &b); err != nil {
			return value.Value{}, decodeErr(p, tag, err)
		}
		return value.Bool(b), nil
	case TagInt:
		var i int64
		if err := decMode.Unmarshal(raw, &i); err != nil {
			return value.Value{}, decodeErr(p, tag, err)
		}
		return value.Int(i), nil
	case TagFloat:
		var x float64
		if err := decMode.Unmarshal(raw, &x); err != nil {
			return value.Value{}, decodeErr(p, tag, err)
		}
		return value.Float(x), nil
	case TagString:
		var s string
		if err := decMode.Unmarshal(raw, &s); err != nil {
			return value.Value{}, decodeErr(p, tag, err)
		}
		return value.Str(s), nil
	case TagBytes:
		var b []byte
		if err := decMode.Unmarshal(raw, &b); err != nil {
			return value.Value{}, decodeErr(p, tag, err)
		}
		return value.Bytes(b), nil
	case TagTime:
		var t time.Time
		if err := decMode.Unmarshal(raw, &t); err != nil {
			return value.Value{}, decodeErr(p, tag, err)
		}
		return value.Time(t), nil
	case TagNDArray, TagList:
		var x any
		if err := decMode.Unmarshal(raw, &x); err != nil {
			return value.Value{}, decodeErr(p, tag, err)
		}
		v, err := value.Normalize(x)
		if err != nil {
			return value.Value{}, decodeErr(p, tag, err)
		}
		return v, nil
	case TagJSON:
		return decodeJSONLeaf(p, raw)
	default:
		return value.Value{}, fmt.Errorf("%s: unknown type tag %q: %w", p, tag, fs.ErrInvalid)
	}
}

func decodeErr(p, tag string, err error) error {
	return fmt.Errorf("decoding %s (tag %q): %w", p, tag, err)
}

// decodeJSONLeaf parses a JSON payload with number fidelity: integral
// numbers come back as int64, everything else as float64. A plain
// json.Unmarshal would widen every stored int to float64.
func decodeJSONLeaf(p string, raw []byte) (value.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return value.Value{}, decodeErr(p, TagJSON, err)
	}
	v, err := value.Normalize(restoreNumbers(x))
	if err != nil {
		return value.Value{}, decodeErr(p, TagJSON, err)
	}
	return v, nil
}

func restoreNumbers(x any) any {
	switch t := x.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case []any:
		for i := range t {
			t[i] = restoreNumbers(t[i])
		}
		return t
	case map[string]any:
		for k := range t {
			t[k] = restoreNumbers(t[k])
		}
		return t
	}
	return x
}

// joinBlocks is the inverse of splitBlocks: it cuts the concatenated
// data at the stored offsets and returns the blocks as a plain
// sequence of sequences.
func joinBlocks(data, index value.Value) value.Value {
	rows := data.Elems()
	offsets := index.Elems()
	blocks := make([]value.Value, 0, len(offsets)+1)
	prev := 0
	for _, o := range offsets {
		end := int(o.IntVal())
		if end < prev || end > len(rows) {
			end = len(rows)
		}
		blocks = append(blocks, value.Seq(rows[prev:end]))
		prev = end
	}
	blocks = append(blocks, value.Seq(rows[prev:]))
	return value.Seq(blocks)
}

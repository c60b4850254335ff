// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hive

import (
	"fmt"
	"sort"

	"github.com/bureau-foundation/hive/lib/codec"
	"github.com/bureau-foundation/hive/lib/container"
	"github.com/bureau-foundation/hive/lib/tree"
	"github.com/bureau-foundation/hive/lib/value"
)

// WriteDict stores every {path: value} entry of data under one
// read-or-create session. Values are normalized and pre-processed
// (ragged sequences repack into the concatenated multiarray layout),
// then written with update semantics: existing nodes are replaced,
// whatever their previous shape. Entries commit together when the
// session closes; a failed entry aborts the whole write, but entries
// already written in an earlier WriteDict call are unaffected.
//
// A value with no storable representation returns an
// UnsupportedTypeError naming the offending path and type.
func WriteDict(file any, data map[string]any, opts ...Option) error {
	s := newSettings(opts)
	slash, err := s.writeSlash()
	if err != nil {
		return err
	}
	f, owned, err := sessionFor(file, container.ReadOrCreate, s)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		p := tree.Clean(k)
		v, err := value.Normalize(data[k])
		if err != nil {
			return finish(f, owned, &UnsupportedTypeError{
				Path:     p,
				TypeName: fmt.Sprintf("%T", data[k]),
			})
		}
		v, useJSON := value.CheckJSONConversion(v)
		err = codec.WriteValue(f, p, v, codec.Options{
			UseJSON:     useJSON,
			Compression: s.compression,
			Level:       s.level,
			Slash:       slash,
		})
		if err != nil {
			return finish(f, owned, err)
		}
	}
	return finish(f, owned, nil)
}

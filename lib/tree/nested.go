// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tree

import (
	"fmt"
	"sort"
	"strings"
)

// Nested is a hierarchical mapping built by splitting flat path keys
// on "/". Values are either a stored value (any) or a deeper Nested.
type Nested = map[string]any

// FlatToNested converts a flat {path: value} mapping into a nested
// mapping relative to base. The base prefix (and one leading
// separator) is stripped from each key; the remaining segments become
// nesting levels, with the terminal segment mapping to the value. A
// key equal to base keeps its last segment, so a degraded single-leaf
// read still lands under a usable key.
//
// Two keys that resolve to the same nested location are last-write-
// wins within one call, in sorted key order for determinism.
func FlatToNested(flat map[string]any, base string) Nested {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(Nested)
	for _, k := range keys {
		segments := strings.Split(Rel(base, k), "/")
		current := out
		for _, segment := range segments[:len(segments)-1] {
			next, ok := current[segment].(Nested)
			if !ok {
				next = make(Nested)
				current[segment] = next
			}
			current = next
		}
		current[segments[len(segments)-1]] = flat[k]
	}
	return out
}

// NestedToFlat is the inverse of FlatToNested: it joins nesting levels
// with "/" below base and returns a flat {path: value} mapping.
func NestedToFlat(nested Nested, base string) map[string]any {
	out := make(map[string]any)
	flattenInto(out, nested, Clean(base))
	return out
}

func flattenInto(out map[string]any, nested Nested, prefix string) {
	for k, v := range nested {
		p := Join(prefix, k)
		if sub, ok := v.(Nested); ok {
			flattenInto(out, sub, p)
			continue
		}
		out[p] = v
	}
}

// Merge recursively unions add into main and returns the result.
// Neither input is modified. For a key present in both sides where
// both values are mappings, the merge recurses; otherwise the
// incoming value overwrites. Keys present only in main always
// survive; merging partial reads must never clobber sibling
// subtrees.
func Merge(main, add Nested) Nested {
	out := make(Nested, len(main))
	for k, v := range main {
		out[k] = v
	}
	for k, incoming := range add {
		existing, present := out[k]
		if present {
			existingMap, existingOK := existing.(Nested)
			incomingMap, incomingOK := incoming.(Nested)
			if existingOK && incomingOK {
				out[k] = Merge(existingMap, incomingMap)
				continue
			}
		}
		out[k] = incoming
	}
	return out
}

// Stringify returns a copy of the nested mapping with every key kept
// and every non-mapping value rendered with fmt.Sprint. Used by
// display surfaces that need a uniform textual tree.
func Stringify(nested Nested) Nested {
	out := make(Nested, len(nested))
	for k, v := range nested {
		if sub, ok := v.(Nested); ok {
			out[k] = Stringify(sub)
			continue
		}
		out[k] = fmt.Sprint(v)
	}
	return out
}

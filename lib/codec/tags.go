// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec maps logical values onto container nodes and back.
//
// Scalars and array-like sequences become a single tagged leaf holding
// a CBOR payload. Mappings become a group tagged "dict" with one child
// per key. Sequences that are ragged only in their first dimension
// become a group tagged "multiarray" holding the blocks concatenated
// along the first axis plus an index of split offsets. A group tag
// from OpaqueGroupTags marks the group as the representation of one
// logical value rather than a level of user hierarchy.
package codec

import (
	"fmt"

	"github.com/bureau-foundation/hive/lib/value"
)

// Leaf type tags.
const (
	TagBool    = "bool"
	TagInt     = "int"
	TagFloat   = "float"
	TagString  = "str"
	TagBytes   = "bytes"
	TagTime    = "time"
	TagNDArray = "ndarray"
	TagList    = "list"
	TagJSON    = "json"
)

// Group type tags marking a group as one logical value.
const (
	TagDict       = "dict"
	TagMultiarray = "multiarray"
	TagCSRMatrix  = "csr_matrix"
	TagCSCMatrix  = "csc_matrix"
	TagCOOMatrix  = "coo_matrix"
	TagBSRMatrix  = "bsr_matrix"
)

// OpaqueGroupTags is the fixed set of group tags whose groups are
// listed as nodes, not descended into, by the tree walker.
var OpaqueGroupTags = map[string]bool{
	TagDict:       true,
	TagMultiarray: true,
	TagCSRMatrix:  true,
	TagCSCMatrix:  true,
	TagCOOMatrix:  true,
	TagBSRMatrix:  true,
}

// IsOpaqueGroup reports whether tag marks a group as a single logical
// value.
func IsOpaqueGroup(tag string) bool { return OpaqueGroupTags[tag] }

// UnsupportedTypeError reports a value the codec cannot store, naming
// the container path and the offending type.
type UnsupportedTypeError struct {
	Path     string
	TypeName string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("cannot store value of type %s at %s", e.TypeName, e.Path)
}

func (e *UnsupportedTypeError) Unwrap() error { return value.ErrUnsupported }

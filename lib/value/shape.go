// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package value

// Shape returns the rectangular shape of a value. Scalars have the
// empty shape. A sequence is rectangular when all elements are
// rectangular with identical shapes; the second return is false for
// ragged or mixed-depth sequences.
func Shape(v Value) ([]int, bool) {
	if v.kind != KindSeq && v.kind != KindObjectArray {
		return nil, true
	}
	n := len(v.seq)
	if n == 0 {
		return []int{0}, true
	}
	first, ok := Shape(v.seq[0])
	if !ok {
		return nil, false
	}
	for _, e := range v.seq[1:] {
		s, ok := Shape(e)
		if !ok || !shapeEqual(s, first) {
			return nil, false
		}
	}
	return append([]int{n}, first...), true
}

// prefixShape returns the maximal rectangular prefix of a value's
// shape, mirroring how a shape probe on a ragged nested sequence
// reports only the dimensions that are still uniform. A ragged
// sequence of length n reports just [n].
func prefixShape(v Value) []int {
	if v.kind != KindSeq && v.kind != KindObjectArray {
		return nil
	}
	n := len(v.seq)
	if n == 0 {
		return []int{0}
	}
	first := prefixShape(v.seq[0])
	for _, e := range v.seq[1:] {
		if !shapeEqual(prefixShape(e), first) {
			return []int{n}
		}
	}
	return append([]int{n}, first...)
}

func shapeEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// scalarClass groups scalar kinds into dtype-like classes for the
// uniformity check: integers and floats share the numeric class the
// way a numeric array promotes int to float.
type scalarClass uint8

const (
	classNone scalarClass = iota
	classNumeric
	classBool
	classString
	classTime
	classBytes
	classMixed
)

func classOf(k Kind) scalarClass {
	switch k {
	case KindInt, KindFloat:
		return classNumeric
	case KindBool:
		return classBool
	case KindString:
		return classString
	case KindTime:
		return classTime
	case KindBytes:
		return classBytes
	default:
		return classMixed
	}
}

// leafClass returns the common scalar class of every leaf under v, or
// classMixed when leaves disagree (the object-dtype case). Maps count
// as mixed.
func leafClass(v Value) scalarClass {
	switch v.kind {
	case KindSeq, KindObjectArray:
		class := classNone
		for _, e := range v.seq {
			c := leafClass(e)
			if class == classNone {
				class = c
			} else if c != class {
				return classMixed
			}
			if class == classMixed {
				return classMixed
			}
		}
		return class
	case KindMap:
		return classMixed
	default:
		return classOf(v.kind)
	}
}

// IsRectangularUniform reports whether a sequence is rectangular with
// one scalar class across all leaves (the array-like case). Empty
// sequences qualify. Mixed leaf classes and maps anywhere disqualify.
func IsRectangularUniform(v Value) bool {
	if v.kind != KindSeq {
		return false
	}
	if _, rect := Shape(v); !rect {
		return false
	}
	return leafClass(v) != classMixed
}

// IsRaggedIn1stDimOnly reports whether a sequence of sequences is
// ragged in its first dimension and uniform everywhere else. This is
// the rule that distinguishes "genuinely jagged, store via
// concatenation with an index table" from "fully irregular, store per
// element":
//
//   - A uniformly-typed rectangular sequence is not ragged at all.
//   - Otherwise, each element's shape is split into (first-dimension
//     length, remaining dimensions). The value qualifies iff the
//     first-dimension lengths differ across elements while the
//     remaining dimension tuples are all identical.
func IsRaggedIn1stDimOnly(v Value) bool {
	if v.kind != KindSeq && v.kind != KindObjectArray {
		return false
	}
	if _, rect := Shape(v); rect && leafClass(v) != classMixed {
		return false
	}

	firstSeen := -1
	firstsDiffer := false
	var rest []int
	for i, e := range v.seq {
		if e.kind != KindSeq && e.kind != KindObjectArray {
			return false
		}
		dims := prefixShape(e)
		if len(dims) == 0 {
			return false
		}
		if i == 0 {
			firstSeen = dims[0]
			rest = dims[1:]
			continue
		}
		if dims[0] != firstSeen {
			firstsDiffer = true
		}
		if !shapeEqual(dims[1:], rest) {
			return false
		}
	}
	return firstsDiffer
}

// CheckJSONConversion decides how a value should be persisted. The
// default is the compact JSON aggregate encoding (use_json=true). The
// exception is a non-empty sequence of non-empty, non-string sequences
// that is ragged only in its first dimension: that is repacked as an
// object array so the codec stores one concatenated block plus an
// index table, and use_json comes back false.
func CheckJSONConversion(v Value) (Value, bool) {
	if v.kind == KindSeq && len(v.seq) > 0 {
		first := v.seq[0]
		if (first.kind == KindSeq || first.kind == KindObjectArray) && first.Len() > 0 &&
			first.Index(0).Kind() != KindString &&
			IsRaggedIn1stDimOnly(v) {
			return ObjectArray(v.seq), false
		}
	}
	return v, true
}

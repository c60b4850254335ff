// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package value defines the closed set of value types a hive container
// can store, and the pre-processing applied to values before they are
// written.
//
// Callers hand the façade plain Go values (ints, strings, slices, maps,
// time.Time). Normalize converts them into a tagged variant with an
// explicit discriminant at the storage boundary; everything downstream
// (the JSON-vs-native decision, the ragged-array heuristic, the codec)
// operates on the variant, never on open-ended runtime type inspection.
package value

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"time"
)

// ErrUnsupported marks a value whose type cannot be stored in a hive
// container. The façade wraps it with the offending path and type name.
var ErrUnsupported = errors.New("unsupported value type")

// Kind discriminates the closed set of storable value types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindBytes
	KindTime
	KindSeq
	KindMap

	// KindObjectArray is a sequence of rectangular blocks that is
	// ragged only in its first dimension. Produced by the
	// pre-processor, never by Normalize; the codec stores it with the
	// concatenation-with-index-table strategy.
	KindObjectArray
)

// String returns the kind name used in diagnostics and type tags.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "str"
	case KindBytes:
		return "bytes"
	case KindTime:
		return "time"
	case KindSeq:
		return "list"
	case KindMap:
		return "dict"
	case KindObjectArray:
		return "multiarray"
	default:
		return fmt.Sprintf("invalid(%d)", uint8(k))
	}
}

// Value is one storable value. The zero Value has KindInvalid.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	bs   []byte
	t    time.Time
	seq  []Value
	m    map[string]Value
}

// Constructors.

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer Value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating-point Value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Str returns a string Value.
func Str(s string) Value { return Value{kind: KindString, s: s} }

// Bytes returns a byte-string Value.
func Bytes(b []byte) Value { return Value{kind: KindBytes, bs: b} }

// Time returns a timestamp Value.
func Time(t time.Time) Value { return Value{kind: KindTime, t: t} }

// Seq returns a sequence Value.
func Seq(elems []Value) Value { return Value{kind: KindSeq, seq: elems} }

// Map returns a mapping Value.
func Map(entries map[string]Value) Value { return Value{kind: KindMap, m: entries} }

// ObjectArray returns a Value holding blocks that are ragged only in
// the first dimension. Used by the pre-processor.
func ObjectArray(blocks []Value) Value { return Value{kind: KindObjectArray, seq: blocks} }

// Accessors. Each accessor is only meaningful for the matching kind;
// calling it on another kind returns the zero value.

// Kind returns the discriminant.
func (v Value) Kind() Kind { return v.kind }

// BoolVal returns the boolean payload.
func (v Value) BoolVal() bool { return v.b }

// IntVal returns the integer payload.
func (v Value) IntVal() int64 { return v.i }

// FloatVal returns the float payload.
func (v Value) FloatVal() float64 { return v.f }

// StrVal returns the string payload.
func (v Value) StrVal() string { return v.s }

// BytesVal returns the byte-string payload.
func (v Value) BytesVal() []byte { return v.bs }

// TimeVal returns the timestamp payload.
func (v Value) TimeVal() time.Time { return v.t }

// Elems returns the elements of a sequence or object-array value.
func (v Value) Elems() []Value { return v.seq }

// Len returns the element count of a sequence, object array, or map.
func (v Value) Len() int {
	if v.kind == KindMap {
		return len(v.m)
	}
	return len(v.seq)
}

// Index returns element i of a sequence or object-array value.
func (v Value) Index(i int) Value { return v.seq[i] }

// Entries returns the entries of a mapping value.
func (v Value) Entries() map[string]Value { return v.m }

// Normalize converts a plain Go value into the variant. Supported
// inputs: bool, all integer and unsigned widths, float32/float64,
// string, []byte, time.Time, slices and arrays of supported values
// (fixed-size arrays are converted to plain sequences, so array-vs-
// slice is not distinguished on disk), maps with string keys, and
// Values themselves. Anything else returns ErrUnsupported.
func Normalize(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Value{}, fmt.Errorf("%w: nil", ErrUnsupported)
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return normalizeUint(uint64(x))
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return normalizeUint(x)
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case string:
		return Str(x), nil
	case []byte:
		return Bytes(x), nil
	case time.Time:
		return Time(x), nil
	case []any:
		return normalizeSeq(x)
	case map[string]any:
		entries := make(map[string]Value, len(x))
		for k, e := range x {
			nv, err := Normalize(e)
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			entries[k] = nv
		}
		return Map(entries), nil
	}
	return normalizeReflect(v)
}

func normalizeUint(x uint64) (Value, error) {
	if x > math.MaxInt64 {
		return Value{}, fmt.Errorf("%w: uint64 %d overflows int64", ErrUnsupported, x)
	}
	return Int(int64(x)), nil
}

func normalizeSeq(xs []any) (Value, error) {
	elems := make([]Value, len(xs))
	for i, e := range xs {
		nv, err := Normalize(e)
		if err != nil {
			return Value{}, fmt.Errorf("index %d: %w", i, err)
		}
		elems[i] = nv
	}
	return Seq(elems), nil
}

// normalizeReflect handles typed slices, arrays, and string-keyed maps
// ([]int, [3]float64, map[string]int, ...) that the type switch cannot
// enumerate.
func normalizeReflect(v any) (Value, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		elems := make([]Value, rv.Len())
		for i := range rv.Len() {
			nv, err := Normalize(rv.Index(i).Interface())
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			elems[i] = nv
		}
		return Seq(elems), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, fmt.Errorf("%w: map with %s keys (string keys required)",
				ErrUnsupported, rv.Type().Key())
		}
		entries := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			nv, err := Normalize(iter.Value().Interface())
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", iter.Key().String(), err)
			}
			entries[iter.Key().String()] = nv
		}
		return Map(entries), nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Value{}, fmt.Errorf("%w: nil %s", ErrUnsupported, rv.Type())
		}
		return Normalize(rv.Elem().Interface())
	}
	return Value{}, fmt.Errorf("%w: %T", ErrUnsupported, v)
}

// Interface converts the variant back into plain Go values: sequences
// become []any, mappings become map[string]any, scalars their obvious
// Go types.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindBytes:
		return v.bs
	case KindTime:
		return v.t
	case KindSeq, KindObjectArray:
		out := make([]any, len(v.seq))
		for i, e := range v.seq {
			out[i] = e.Interface()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.m))
		for k, e := range v.m {
			out[k] = e.Interface()
		}
		return out
	default:
		return nil
	}
}

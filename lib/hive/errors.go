// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hive

import (
	"io/fs"

	"github.com/bureau-foundation/hive/lib/codec"
	"github.com/bureau-foundation/hive/lib/value"
)

// ErrUsage marks caller mistakes: wrong argument types, invalid
// policies, invalid modes. It aliases fs.ErrInvalid so errors.Is
// matches either name. Usage errors are never retried.
var ErrUsage = fs.ErrInvalid

// ErrUnsupportedType marks a value whose type cannot be stored.
// Aliases the value package's sentinel.
var ErrUnsupportedType = value.ErrUnsupported

// UnsupportedTypeError names the path and type of a rejected value.
// Returned by WriteDict and Pointer.Set; wraps ErrUnsupportedType.
type UnsupportedTypeError = codec.UnsupportedTypeError

// SlashPolicy re-exports the codec's policy for "/" inside mapping
// sub-keys, so callers of the façade need only this package.
type SlashPolicy = codec.SlashPolicy

// Slash policy values. SlashError and SlashReplace are valid when
// writing; SlashIgnore and SlashReplace when reading.
const (
	SlashError   = codec.SlashError
	SlashReplace = codec.SlashReplace
	SlashIgnore  = codec.SlashIgnore
)

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tree

import (
	"fmt"
	"io/fs"
)

// Recursion is the parsed recursion argument of listing and reading
// operations: off (one level), unlimited, or a bounded number of
// levels.
type Recursion struct {
	all   bool
	depth int
}

// RecurseOff lists a single level.
var RecurseOff = Recursion{}

// RecurseAll descends without bound.
var RecurseAll = Recursion{all: true}

// RecurseDepth lists n levels below the starting path. Non-positive n
// behaves like RecurseOff.
func RecurseDepth(n int) Recursion {
	if n <= 0 {
		return RecurseOff
	}
	return Recursion{depth: n}
}

// ParseRecursion validates a caller-supplied recursion argument.
// Accepted: bool (false = one level, true = unlimited), any integer
// width (a depth bound; non-positive means one level), or a Recursion
// value. Anything else is a usage error (fs.ErrInvalid), never
// retried.
func ParseRecursion(v any) (Recursion, error) {
	switch x := v.(type) {
	case Recursion:
		return x, nil
	case bool:
		if x {
			return RecurseAll, nil
		}
		return RecurseOff, nil
	case int:
		return RecurseDepth(x), nil
	case int8:
		return RecurseDepth(int(x)), nil
	case int16:
		return RecurseDepth(int(x)), nil
	case int32:
		return RecurseDepth(int(x)), nil
	case int64:
		return RecurseDepth(int(x)), nil
	case uint:
		return RecurseDepth(int(x)), nil
	case uint8:
		return RecurseDepth(int(x)), nil
	case uint16:
		return RecurseDepth(int(x)), nil
	case uint32:
		return RecurseDepth(int(x)), nil
	case uint64:
		return RecurseDepth(int(x)), nil
	default:
		return Recursion{}, fmt.Errorf("recursive must be bool or int, got %T: %w", v, fs.ErrInvalid)
	}
}

// Active reports whether any descent happens at all.
func (r Recursion) Active() bool { return r.all || r.depth > 0 }

// Descend reports whether a group at the current level should be
// entered, and returns the Recursion to use below it.
func (r Recursion) Descend() (Recursion, bool) {
	if r.all {
		return r, true
	}
	if r.depth > 1 {
		return Recursion{depth: r.depth - 1}, true
	}
	return Recursion{}, false
}

// String renders the recursion setting for diagnostics.
func (r Recursion) String() string {
	switch {
	case r.all:
		return "all"
	case r.depth > 0:
		return fmt.Sprintf("depth=%d", r.depth)
	default:
		return "off"
	}
}

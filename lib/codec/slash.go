// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"io/fs"
	"strings"
)

// ForwardSlashToken is the reserved substring substituted for "/" in
// dict sub-keys under the replace policy. A key containing the token
// literally will read back as "/" under replace; callers who need the
// literal token must read with the ignore policy.
const ForwardSlashToken = "{FWDSLASH}"

// SlashPolicy controls how "/" inside mapping keys is handled. A key
// containing "/" would otherwise silently create an extra hierarchy
// level. The policy never applies to the top-level path argument of an
// operation, only to sub-keys inside a written or read mapping.
type SlashPolicy string

const (
	// SlashError rejects sub-keys containing "/". Write-side default.
	SlashError SlashPolicy = "error"

	// SlashReplace substitutes ForwardSlashToken for "/" on write and
	// restores "/" on read.
	SlashReplace SlashPolicy = "replace"

	// SlashIgnore leaves stored names untouched on read. Read-side
	// default.
	SlashIgnore SlashPolicy = "ignore"
)

// CheckWrite validates the policy for the write side.
func (p SlashPolicy) CheckWrite() error {
	switch p {
	case SlashError, SlashReplace:
		return nil
	}
	return fmt.Errorf("slash policy %q not valid for writing (want %q or %q): %w",
		string(p), SlashError, SlashReplace, fs.ErrInvalid)
}

// CheckRead validates the policy for the read side.
func (p SlashPolicy) CheckRead() error {
	switch p {
	case SlashIgnore, SlashReplace:
		return nil
	}
	return fmt.Errorf("slash policy %q not valid for reading (want %q or %q): %w",
		string(p), SlashIgnore, SlashReplace, fs.ErrInvalid)
}

// encodeKey applies the write-side policy to one mapping sub-key.
func encodeKey(key string, p SlashPolicy) (string, error) {
	if !strings.Contains(key, "/") {
		return key, nil
	}
	if p == SlashReplace {
		return strings.ReplaceAll(key, "/", ForwardSlashToken), nil
	}
	return "", fmt.Errorf("key %q contains a forward slash: %w", key, fs.ErrInvalid)
}

// decodeKey applies the read-side policy to one stored child name.
func decodeKey(name string, p SlashPolicy) string {
	if p == SlashReplace {
		return strings.ReplaceAll(name, ForwardSlashToken, "/")
	}
	return name
}

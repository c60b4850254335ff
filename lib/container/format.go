// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Format constants.
const (
	// formatVersion is the container format version recorded in the
	// magic header. Version 1 is the initial format.
	formatVersion = 1

	// headerSize is the fixed header: 8-byte magic including the
	// version byte. The CBOR-encoded entry tree follows immediately.
	headerSize = 8
)

// fileMagic is the 8-byte container file signature: "HIVEF" +
// version byte + two reserved bytes.
var fileMagic = [8]byte{'H', 'I', 'V', 'E', 'F', formatVersion, 0, 0}

// entry is one node in the container tree. A leaf carries a payload;
// a group carries children (possibly none). Groups may also carry a
// type tag; that is how the codec marks a physical group as the
// representation of a single logical value (a "dict" group, a
// "multiarray" group).
type entry struct {
	// Tag is the logical type tag of the value stored here.
	Tag string `cbor:"t,omitempty"`

	// Leaf distinguishes a payload-bearing node from a group. An
	// empty group and a leaf with an empty payload would otherwise be
	// ambiguous in the omitempty encoding.
	Leaf bool `cbor:"l,omitempty"`

	// Compression is the algorithm used for Payload.
	Compression CompressionTag `cbor:"c,omitempty"`

	// RawSize is the uncompressed payload length in bytes.
	RawSize int64 `cbor:"r,omitempty"`

	// Sum is the 32-byte BLAKE3 digest of the uncompressed payload,
	// verified on every read.
	Sum []byte `cbor:"s,omitempty"`

	// Payload is the stored (possibly compressed) leaf value.
	Payload []byte `cbor:"p,omitempty"`

	// Children maps child name to child entry for groups.
	Children map[string]*entry `cbor:"g,omitempty"`
}

// clone returns a deep copy of the entry subtree. Payload bytes are
// copied so that cross-file subtree copies never alias.
func (e *entry) clone() *entry {
	out := &entry{
		Tag:         e.Tag,
		Leaf:        e.Leaf,
		Compression: e.Compression,
		RawSize:     e.RawSize,
	}
	if e.Sum != nil {
		out.Sum = append([]byte(nil), e.Sum...)
	}
	if e.Payload != nil {
		out.Payload = append([]byte(nil), e.Payload...)
	}
	if e.Children != nil {
		out.Children = make(map[string]*entry, len(e.Children))
		for name, child := range e.Children {
			out.Children[name] = child.clone()
		}
	}
	return out
}

// encMode is the CBOR encoder configured with Core Deterministic
// Encoding: sorted map keys, smallest integer encoding. The same tree
// always produces identical bytes, so unchanged containers rewrite
// bit-identically.
var encMode cbor.EncMode

// decMode is the CBOR decoder for the entry tree.
var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("container: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("container: CBOR decoder initialization failed: " + err.Error())
	}
}

// encodeTree serializes the container: magic header followed by the
// CBOR entry tree.
func encodeTree(root *entry) ([]byte, error) {
	body, err := encMode.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("encoding container tree: %w", err)
	}
	out := make([]byte, 0, headerSize+len(body))
	out = append(out, fileMagic[:]...)
	out = append(out, body...)
	return out, nil
}

// decodeTree parses container bytes produced by encodeTree.
func decodeTree(data []byte) (*entry, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("container too short: %d bytes", len(data))
	}
	if data[0] != 'H' || data[1] != 'I' || data[2] != 'V' || data[3] != 'E' || data[4] != 'F' {
		return nil, fmt.Errorf("invalid container magic")
	}
	if data[5] != formatVersion {
		return nil, fmt.Errorf("unsupported container version %d (expected %d)",
			data[5], formatVersion)
	}
	root := &entry{}
	if err := decMode.Unmarshal(data[headerSize:], root); err != nil {
		return nil, fmt.Errorf("decoding container tree: %w", err)
	}
	if root.Children == nil && !root.Leaf {
		root.Children = make(map[string]*entry)
	}
	return root, nil
}

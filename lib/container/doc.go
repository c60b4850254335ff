// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package container implements the hive container file: a single file
// holding a tree of named groups and payload-bearing nodes, addressed
// by POSIX-style absolute paths.
//
// # Format
//
// A container is an 8-byte magic header ("HIVEF" + version) followed
// by a CBOR-encoded entry tree. Leaf payloads are individually
// compressed (gzip or LZ4, with incompressible data stored raw) and
// carry a BLAKE3 checksum of the uncompressed bytes, verified on every
// read.
//
// # Sessions
//
// Open loads the whole tree into memory; mutations accumulate on the
// in-memory tree and Close commits them with an atomic temp-file
// rename. The format does not arbitrate concurrent writers beyond a
// non-blocking flock per session: a conflicting lock surfaces as
// ErrBusy, which callers absorb with the retry guard. Every public
// hive operation opens and closes its own session.
package container

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package hive is the public façade over path-addressed container
// files: whole-dictionary reads and writes, listing, idempotent
// deletes, snapshot futures, and the Pointer cursor.
//
// Every operation opens its own container session and closes it before
// returning, so concurrent processes only contend during the open.
// Transient "file busy" contention is absorbed by the retry guard;
// callers tune it with the RetryPolicy option. Operations that take a
// file argument accept either a path string or an already-open
// *container.File, in which case the session is used as-is and left
// open (batching several operations under one lock).
package hive

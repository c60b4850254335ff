// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func tempContainer(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.hive")
}

func createWith(t *testing.T, name string, put func(f *File)) {
	t.Helper()
	f, err := Open(name, ReadOrCreate)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	put(f)
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestPutReadRoundtrip(t *testing.T) {
	name := tempContainer(t)
	payload := bytes.Repeat([]byte("hive data "), 100)

	createWith(t, name, func(f *File) {
		if err := f.PutLeaf("/a/b/c", "bytes", payload, CompressionGzip, 4); err != nil {
			t.Fatalf("PutLeaf: %v", err)
		}
	})

	f, err := Open(name, ReadOnly)
	if err != nil {
		t.Fatalf("Open read-only: %v", err)
	}
	defer f.Close()

	tag, raw, err := f.ReadLeaf("/a/b/c")
	if err != nil {
		t.Fatalf("ReadLeaf: %v", err)
	}
	if tag != "bytes" {
		t.Fatalf("tag = %q, want %q", tag, "bytes")
	}
	if !bytes.Equal(raw, payload) {
		t.Fatal("payload mismatch after roundtrip")
	}

	// Parent groups were created implicitly.
	for _, p := range []string{"/a", "/a/b"} {
		if f.IsLeaf(p) || !f.Exists(p) {
			t.Fatalf("%s should exist as a group", p)
		}
	}
}

func TestCompressionFallsBackForIncompressible(t *testing.T) {
	name := tempContainer(t)
	// High-entropy payload: every byte value once, shuffled enough to
	// defeat gzip at this size.
	payload := make([]byte, 256)
	for i := range payload {
		payload[i] = byte(i * 97)
	}
	createWith(t, name, func(f *File) {
		if err := f.PutLeaf("/x", "bytes", payload, CompressionGzip, 9); err != nil {
			t.Fatalf("PutLeaf: %v", err)
		}
		e := f.lookup("/x")
		if e.Compression != CompressionNone {
			t.Fatalf("compression = %v, want none for incompressible payload", e.Compression)
		}
	})
}

func TestLZ4Roundtrip(t *testing.T) {
	name := tempContainer(t)
	payload := bytes.Repeat([]byte("0123456789abcdef"), 64)
	createWith(t, name, func(f *File) {
		if err := f.PutLeaf("/n", "bytes", payload, CompressionLZ4, 0); err != nil {
			t.Fatalf("PutLeaf: %v", err)
		}
	})
	f, err := Open(name, ReadOnly)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	_, raw, err := f.ReadLeaf("/n")
	if err != nil {
		t.Fatalf("ReadLeaf: %v", err)
	}
	if !bytes.Equal(raw, payload) {
		t.Fatal("lz4 payload mismatch")
	}
}

func TestOpenModes(t *testing.T) {
	missing := tempContainer(t)

	if _, err := Open(missing, ReadOnly); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("ReadOnly on missing file: err = %v, want fs.ErrNotExist", err)
	}
	if _, err := Open(missing, ReadWrite); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("ReadWrite on missing file: err = %v, want fs.ErrNotExist", err)
	}

	f, err := Open(missing, CreateExclusive)
	if err != nil {
		t.Fatalf("CreateExclusive: %v", err)
	}
	if err := f.PutLeaf("/k", "bytes", []byte("v"), CompressionNone, 0); err != nil {
		t.Fatalf("PutLeaf: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := Open(missing, CreateExclusive); !errors.Is(err, fs.ErrExist) {
		t.Fatalf("CreateExclusive on existing file: err = %v, want fs.ErrExist", err)
	}

	// CreateTruncate discards prior content.
	f, err = Open(missing, CreateTruncate)
	if err != nil {
		t.Fatalf("CreateTruncate: %v", err)
	}
	if f.Exists("/k") {
		t.Fatal("CreateTruncate kept old content")
	}
	f.Close()
}

func TestReadOnlyRejectsMutation(t *testing.T) {
	name := tempContainer(t)
	createWith(t, name, func(f *File) {
		if err := f.PutLeaf("/k", "bytes", []byte("v"), CompressionNone, 0); err != nil {
			t.Fatalf("PutLeaf: %v", err)
		}
	})
	f, err := Open(name, ReadOnly)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	if err := f.PutLeaf("/other", "bytes", []byte("v"), CompressionNone, 0); !errors.Is(err, fs.ErrInvalid) {
		t.Fatalf("PutLeaf on read-only session: err = %v, want fs.ErrInvalid", err)
	}
}

func TestExclusiveLockSurfacesBusy(t *testing.T) {
	name := tempContainer(t)
	createWith(t, name, func(f *File) {})

	writer, err := Open(name, ReadWrite)
	if err != nil {
		t.Fatalf("Open writer: %v", err)
	}
	defer writer.Close()

	if _, err := Open(name, ReadWrite); !IsTransient(err) {
		t.Fatalf("second writer: err = %v, want ErrBusy", err)
	}
	if _, err := Open(name, ReadOnly); !IsTransient(err) {
		t.Fatalf("reader during write: err = %v, want ErrBusy", err)
	}

	// SWMR readers coexist with the live writer.
	reader, err := Open(name, ReadOnly, WithSWMR())
	if err != nil {
		t.Fatalf("SWMR reader during write: %v", err)
	}
	reader.Close()
}

func TestSharedReadersCoexist(t *testing.T) {
	name := tempContainer(t)
	createWith(t, name, func(f *File) {})

	first, err := Open(name, ReadOnly)
	if err != nil {
		t.Fatalf("first reader: %v", err)
	}
	defer first.Close()
	second, err := Open(name, ReadOnly)
	if err != nil {
		t.Fatalf("second reader: %v", err)
	}
	second.Close()

	// A writer cannot start while a shared reader holds the lock.
	if _, err := Open(name, ReadWrite); !IsTransient(err) {
		t.Fatalf("writer during read: err = %v, want ErrBusy", err)
	}
}

func TestStructuralConflicts(t *testing.T) {
	name := tempContainer(t)
	f, err := Open(name, ReadOrCreate)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	if err := f.PutLeaf("/g/node", "bytes", []byte("v"), CompressionNone, 0); err != nil {
		t.Fatalf("PutLeaf: %v", err)
	}

	// Leaf where a group exists.
	if err := f.PutLeaf("/g", "bytes", []byte("v"), CompressionNone, 0); !errors.Is(err, fs.ErrExist) {
		t.Fatalf("PutLeaf over group: err = %v, want fs.ErrExist", err)
	}
	// Group where a leaf exists.
	if err := f.EnsureGroup("/g/node", ""); !errors.Is(err, fs.ErrExist) {
		t.Fatalf("EnsureGroup over node: err = %v, want fs.ErrExist", err)
	}
	// Leaf blocking an intermediate segment.
	if err := f.PutLeaf("/g/node/deeper", "bytes", []byte("v"), CompressionNone, 0); !errors.Is(err, fs.ErrExist) {
		t.Fatalf("PutLeaf below node: err = %v, want fs.ErrExist", err)
	}
	// Same-shape overwrite is fine (update semantics).
	if err := f.PutLeaf("/g/node", "str", []byte("w"), CompressionNone, 0); err != nil {
		t.Fatalf("PutLeaf update: %v", err)
	}
	tag, raw, err := f.ReadLeaf("/g/node")
	if err != nil || tag != "str" || string(raw) != "w" {
		t.Fatalf("after update: tag=%q raw=%q err=%v", tag, raw, err)
	}
}

func TestDeleteAndMove(t *testing.T) {
	name := tempContainer(t)
	f, err := Open(name, ReadOrCreate)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	if err := f.PutLeaf("/a/x", "bytes", []byte("1"), CompressionNone, 0); err != nil {
		t.Fatalf("PutLeaf: %v", err)
	}
	if err := f.Delete("/missing"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Delete missing: err = %v, want fs.ErrNotExist", err)
	}

	if err := f.Move("/a", "/b/renamed"); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if f.Exists("/a") {
		t.Fatal("source survived Move")
	}
	if !f.IsLeaf("/b/renamed/x") {
		t.Fatal("moved subtree incomplete")
	}

	if err := f.PutLeaf("/occupied", "bytes", []byte("1"), CompressionNone, 0); err != nil {
		t.Fatalf("PutLeaf: %v", err)
	}
	if err := f.Move("/b/renamed", "/occupied"); !errors.Is(err, fs.ErrExist) {
		t.Fatalf("Move onto occupied: err = %v, want fs.ErrExist", err)
	}

	if err := f.Delete("/b"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if f.Exists("/b") {
		t.Fatal("subtree survived Delete")
	}
}

func TestCopyIntoAcrossFiles(t *testing.T) {
	srcName := tempContainer(t)
	dstName := filepath.Join(t.TempDir(), "dst.hive")

	createWith(t, srcName, func(f *File) {
		if err := f.PutLeaf("/data/a", "bytes", []byte("1"), CompressionNone, 0); err != nil {
			t.Fatalf("PutLeaf: %v", err)
		}
		if err := f.PutLeaf("/data/sub/b", "bytes", []byte("2"), CompressionNone, 0); err != nil {
			t.Fatalf("PutLeaf: %v", err)
		}
	})

	src, err := Open(srcName, ReadOnly)
	if err != nil {
		t.Fatalf("Open src: %v", err)
	}
	defer src.Close()
	dst, err := Open(dstName, ReadOrCreate)
	if err != nil {
		t.Fatalf("Open dst: %v", err)
	}
	if err := src.CopyInto("/data", dst, "/backup"); err != nil {
		t.Fatalf("CopyInto: %v", err)
	}
	if err := dst.Close(); err != nil {
		t.Fatalf("Close dst: %v", err)
	}

	check, err := Open(dstName, ReadOnly)
	if err != nil {
		t.Fatalf("Open check: %v", err)
	}
	defer check.Close()
	_, raw, err := check.ReadLeaf("/backup/data/sub/b")
	if err != nil || string(raw) != "2" {
		t.Fatalf("copied leaf: raw=%q err=%v", raw, err)
	}
}

func TestChecksumVerification(t *testing.T) {
	name := tempContainer(t)
	f, err := Open(name, ReadOrCreate)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	if err := f.PutLeaf("/k", "bytes", []byte("pristine"), CompressionNone, 0); err != nil {
		t.Fatalf("PutLeaf: %v", err)
	}
	// Corrupt the stored payload behind the API's back.
	f.lookup("/k").Payload[0] ^= 0xff

	if _, _, err := f.ReadLeaf("/k"); !errors.Is(err, ErrChecksum) {
		t.Fatalf("ReadLeaf on corrupted payload: err = %v, want ErrChecksum", err)
	}
}

func TestCloseCommitsAtomically(t *testing.T) {
	name := tempContainer(t)
	createWith(t, name, func(f *File) {
		if err := f.PutLeaf("/k", "bytes", []byte("v"), CompressionNone, 0); err != nil {
			t.Fatalf("PutLeaf: %v", err)
		}
	})

	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) <= headerSize || string(data[:5]) != "HIVEF" {
		t.Fatalf("committed file lacks container magic: % x", data[:min(len(data), 8)])
	}

	// No stray temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(name))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if e.Name() != filepath.Base(name) {
			t.Fatalf("unexpected file after commit: %s", e.Name())
		}
	}
}

func TestResolveName(t *testing.T) {
	name := tempContainer(t)
	createWith(t, name, func(f *File) {})

	f, err := Open(name, ReadOnly)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	got, err := ResolveName(f)
	if err != nil || got != name {
		t.Fatalf("ResolveName(*File) = %q, %v", got, err)
	}
	got, err = ResolveName("plain.hive")
	if err != nil || got != "plain.hive" {
		t.Fatalf("ResolveName(string) = %q, %v", got, err)
	}
	if _, err := ResolveName(42); !errors.Is(err, fs.ErrInvalid) {
		t.Fatalf("ResolveName(int): err = %v, want fs.ErrInvalid", err)
	}
}

func TestChildrenSorted(t *testing.T) {
	name := tempContainer(t)
	f, err := Open(name, ReadOrCreate)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	for _, k := range []string{"/g/zeta", "/g/alpha", "/g/mid"} {
		if err := f.PutLeaf(k, "bytes", []byte("v"), CompressionNone, 0); err != nil {
			t.Fatalf("PutLeaf: %v", err)
		}
	}
	if err := f.EnsureGroup("/g/sub", "dict"); err != nil {
		t.Fatalf("EnsureGroup: %v", err)
	}

	children, err := f.Children("/g")
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	var names []string
	for _, c := range children {
		names = append(names, c.Name)
	}
	want := []string{"alpha", "mid", "sub", "zeta"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("children = %v, want %v", names, want)
		}
	}
	for _, c := range children {
		if c.Name == "sub" {
			if c.Leaf || c.Tag != "dict" {
				t.Fatalf("sub: leaf=%v tag=%q, want group tagged dict", c.Leaf, c.Tag)
			}
		}
	}

	if _, err := f.Children("/missing"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Children missing: err = %v, want fs.ErrNotExist", err)
	}
	if _, err := f.Children("/g/alpha"); !errors.Is(err, fs.ErrInvalid) {
		t.Fatalf("Children on leaf: err = %v, want fs.ErrInvalid", err)
	}
}

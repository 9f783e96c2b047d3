package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTempSiblingKeepsDirectoryAndExtension(t *testing.T) {
	path := filepath.Join("/home/u", "wallswitch.jpg")
	tmp := TempSibling(path)
	if filepath.Dir(tmp) != "/home/u" {
		t.Fatalf("temp path left the directory: %s", tmp)
	}
	if filepath.Ext(tmp) != ".jpg" {
		t.Fatalf("temp path lost extension: %s", tmp)
	}
	if !strings.HasPrefix(filepath.Base(tmp), ".wallswitch.tmp") {
		t.Fatalf("temp path not hidden: %s", tmp)
	}
}

func TestReplaceMovesFile(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.png")
	if err := os.WriteFile(dst, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	src := TempSibling(dst)
	if err := os.WriteFile(src, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Replace(src, dst); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Fatalf("content mismatch: got %q", got)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("temp file still present: %v", err)
	}
}

func TestWriteAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallswitch.pid")
	if err := WriteAtomic(path, []byte("1234\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "1234\n" {
		t.Fatalf("content mismatch: got %q", got)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("leftover temp files: %v", entries)
	}
}

func TestCopyFileMode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")

	if err := os.WriteFile(src, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CopyFileMode(src, dst, 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "data" {
		t.Fatalf("content mismatch: got %q", got)
	}
}

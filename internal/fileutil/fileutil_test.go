package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFileCreatesParents(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	dst := filepath.Join(dir, "pages", "nested", "dst.jpg")

	content := []byte("image bytes")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CopyFile(src, dst); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
	if Size(dst) != int64(len(content)) || !Exists(dst) {
		t.Fatalf("unexpected size/exists for %s", dst)
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	if err := CopyFile(filepath.Join(t.TempDir(), "missing"), filepath.Join(t.TempDir(), "out")); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestSafeJoin(t *testing.T) {
	root := t.TempDir()
	got, err := SafeJoin(root, "a/b.png")
	if err != nil || got != filepath.Join(root, "a", "b.png") {
		t.Fatalf("SafeJoin = %q, %v", got, err)
	}
	if _, err := SafeJoin(root, "../etc/passwd"); !errors.Is(err, ErrOutsideRoot) {
		t.Fatalf("expected ErrOutsideRoot, got %v", err)
	}
}

func TestReplaceExt(t *testing.T) {
	if got := ReplaceExt("pages/001.png", ".webp"); got != "pages/001.webp" {
		t.Fatalf("ReplaceExt = %q", got)
	}
	if got := ReplaceExt("cover", ".jpg"); got != "cover.jpg" {
		t.Fatalf("ReplaceExt = %q", got)
	}
}

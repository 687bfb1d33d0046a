package archive_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"

	"acbfe/internal/archive"
)

type stubExecutor struct {
	binary string
	args   []string
	lines  []string
	err    error
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string, onStdout func(string)) error {
	s.binary = binary
	s.args = append([]string(nil), args...)
	for _, line := range s.lines {
		onStdout(line)
	}
	return s.err
}

func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	zw := zip.NewWriter(f)
	for name, body := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("file close: %v", err)
	}
}

func TestDetect(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name    string
		content []byte
		want    archive.Format
	}{
		{"book.cbz", []byte("PK\x03\x04rest"), archive.FormatZip},
		{"renamed.cbr", []byte("PK\x03\x04rest"), archive.FormatZip},
		{"book.cbr", []byte("Rar!\x1a\x07\x00"), archive.FormatRar},
		{"odd.bin", []byte("Rar!\x1a\x07\x01\x00"), archive.FormatRar},
		{"book.cb7", []byte("7z\xbc\xaf\x27\x1c"), archive.FormatSevenZip},
		{"short.cbr", []byte("x"), archive.FormatRar},
	}
	for _, tc := range cases {
		p := filepath.Join(dir, tc.name)
		if err := os.WriteFile(p, tc.content, 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
		got, err := archive.Detect(p)
		if err != nil {
			t.Fatalf("Detect(%s) returned error: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("Detect(%s) = %q, want %q", tc.name, got, tc.want)
		}
	}

	plain := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(plain, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := archive.Detect(plain); !errors.Is(err, archive.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestExtractZip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "book.cbz")
	writeZip(t, src, map[string]string{
		"book.acbf":      "<ACBF/>",
		"images/p1.jpg":  "jpeg",
		"images/p2.jpg":  "jpeg2",
		"images/folder/": "",
	})
	dst := filepath.Join(dir, "out")
	if err := os.Mkdir(dst, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	var calls int
	if err := archive.NewExtractor().Extract(context.Background(), src, dst, func(done, total int) {
		calls++
		if total != 4 {
			t.Errorf("total = %d, want 4", total)
		}
	}); err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if calls != 4 {
		t.Fatalf("progress calls = %d", calls)
	}
	for _, rel := range []string{"book.acbf", "images/p1.jpg", "images/p2.jpg"} {
		if _, err := os.Stat(filepath.Join(dst, rel)); err != nil {
			t.Fatalf("expected %s extracted: %v", rel, err)
		}
	}
}

func TestExtractZipRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "evil.cbz")
	writeZip(t, src, map[string]string{"../escape.txt": "x"})
	dst := filepath.Join(dir, "out")
	if err := os.Mkdir(dst, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := archive.NewExtractor().Extract(context.Background(), src, dst, nil); err == nil {
		t.Fatal("expected traversal entry to be rejected")
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.txt")); err == nil {
		t.Fatal("traversal entry was written")
	}
}

func TestExtractRarUsesUnrar(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "book.cbr")
	if err := os.WriteFile(src, []byte("Rar!\x1a\x07\x00"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	stub := &stubExecutor{lines: []string{"Extracting  p1.jpg   OK", "All OK"}}
	ex := archive.NewExtractor(archive.WithExecutor(stub), archive.WithTools("/opt/unrar", ""))

	var done int
	if err := ex.Extract(context.Background(), src, dir, func(d, _ int) { done = d }); err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if stub.binary != "/opt/unrar" {
		t.Fatalf("binary = %q", stub.binary)
	}
	if stub.args[0] != "x" || stub.args[len(stub.args)-2] != src {
		t.Fatalf("args = %v", stub.args)
	}
	if done != 1 {
		t.Fatalf("progress done = %d, want 1", done)
	}

	stub.err = errors.New("exit status 3")
	if err := ex.Extract(context.Background(), src, dir, nil); err == nil || !strings.Contains(err.Error(), "/opt/unrar") {
		t.Fatalf("expected wrapped unrar error, got %v", err)
	}
}

func TestExtractSevenZipArgs(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "book.cb7")
	if err := os.WriteFile(src, []byte("7z\xbc\xaf\x27\x1c"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	stub := &stubExecutor{}
	if err := archive.NewExtractor(archive.WithExecutor(stub)).Extract(context.Background(), src, "/tmp/ws", nil); err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	want := []string{"x", "-y", "-bb1", "-o/tmp/ws", src}
	if stub.binary != "7z" || !reflect.DeepEqual(stub.args, want) {
		t.Fatalf("7z call = %s %v", stub.binary, stub.args)
	}
}

func TestPackPutsACBFFirst(t *testing.T) {
	src := t.TempDir()
	for rel, body := range map[string]string{
		"a.jpg":        "1",
		"images/b.png": "2",
		"zzz.acbf":     "<ACBF/>",
		"Fonts/f.ttf":  "3",
	} {
		p := filepath.Join(src, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	dst := filepath.Join(t.TempDir(), "out.cbz")
	var last int
	if err := archive.Pack(context.Background(), src, dst, func(done, total int) { last = done }); err != nil {
		t.Fatalf("Pack returned error: %v", err)
	}
	if last != 4 {
		t.Fatalf("progress done = %d", last)
	}
	names, err := archive.List(dst)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	want := []string{"zzz.acbf", "Fonts/f.ttf", "a.jpg", "images/b.png"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	data, err := archive.ReadFile(dst, "/images/b.png")
	if err != nil || string(data) != "2" {
		t.Fatalf("ReadFile = %q, %v", data, err)
	}
}

func TestPackFileMode(t *testing.T) {
	src := t.TempDir()
	if err := os.WriteFile(filepath.Join(src, "book.acbf"), []byte("<ACBF/>"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	dir := t.TempDir()

	fresh := filepath.Join(dir, "new.cbz")
	if err := archive.Pack(context.Background(), src, fresh, nil); err != nil {
		t.Fatalf("Pack returned error: %v", err)
	}
	if got := fileMode(t, fresh); got != 0o644 {
		t.Fatalf("new archive mode = %v", got)
	}

	existing := filepath.Join(dir, "old.cbz")
	if err := os.WriteFile(existing, []byte("old"), 0o640); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Chmod(existing, 0o640); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	if err := archive.Pack(context.Background(), src, existing, nil); err != nil {
		t.Fatalf("Pack returned error: %v", err)
	}
	if got := fileMode(t, existing); got != 0o640 {
		t.Fatalf("replaced archive mode = %v", got)
	}
}

func fileMode(t *testing.T, path string) os.FileMode {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	return info.Mode().Perm()
}

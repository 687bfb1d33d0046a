package workspace_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"acbfe/internal/logging"
	"acbfe/internal/testsupport"
	"acbfe/internal/workspace"
)

func TestTempWorkspaceLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ws, err := workspace.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(ws.Dir()), "acbfe_") {
		t.Fatalf("workspace dir = %q", ws.Dir())
	}
	for _, rel := range []string{"b.jpg", "a/c.png"} {
		p := ws.Path(rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte("12345"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	files, err := ws.Files()
	if err != nil {
		t.Fatalf("Files returned error: %v", err)
	}
	if !reflect.DeepEqual(files, []string{"a/c.png", "b.jpg"}) {
		t.Fatalf("Files = %v", files)
	}
	if size, err := ws.Size(); err != nil || size != 10 {
		t.Fatalf("Size = %d, %v", size, err)
	}
	if err := ws.Cleanup(); err != nil {
		t.Fatalf("Cleanup returned error: %v", err)
	}
	if _, err := os.Stat(ws.Dir()); !os.IsNotExist(err) {
		t.Fatalf("expected workspace removed, stat err = %v", err)
	}
}

func TestTmpfsWorkspaceIsLockedAndReused(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Workspace.Tmpfs = true
	cfg.Workspace.TmpfsDir = t.TempDir()

	first, err := workspace.New(cfg, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if first.Dir() != filepath.Join(cfg.Workspace.TmpfsDir, "acbfe") {
		t.Fatalf("tmpfs dir = %q", first.Dir())
	}
	if _, err := workspace.New(cfg, nil); !errors.Is(err, workspace.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}

	if err := os.WriteFile(first.Path("leftover.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := first.Cleanup(); err != nil {
		t.Fatalf("Cleanup returned error: %v", err)
	}
	if _, err := os.Stat(first.Dir()); err != nil {
		t.Fatalf("shared workspace should survive cleanup: %v", err)
	}

	second, err := workspace.New(cfg, nil)
	if err != nil {
		t.Fatalf("New after release returned error: %v", err)
	}
	defer second.Cleanup()
	files, err := second.Files()
	if err != nil || len(files) != 0 {
		t.Fatalf("expected empty workspace, got %v, %v", files, err)
	}
}

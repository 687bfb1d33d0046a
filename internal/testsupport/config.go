// Package testsupport builds configuration and fixture files for tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"acbfe/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose directories all live under a per-test
// temp directory. Options are applied in order.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Workspace.BaseDir = filepath.Join(base, "work")
	cfgVal.Workspace.Tmpfs = false
	cfgVal.Library.DBPath = filepath.Join(base, "library", "library.db")
	cfgVal.Logging.Dir = filepath.Join(base, "logs")
	cfgVal.Convert.Workers = 2

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithTmpfs enables the shared tmpfs workspace rooted in the test directory.
func WithTmpfs() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Workspace.Tmpfs = true
		b.cfg.Workspace.TmpfsDir = filepath.Join(b.baseDir, "shm")
	}
}

// WithAuthor sets the default document author.
func WithAuthor(first, last string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Author.FirstName = first
		b.cfg.Author.LastName = last
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, the external tools acbfe uses
// are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"unrar", "7z", "kumiko", "fc-list"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Workspace.BaseDir)
}

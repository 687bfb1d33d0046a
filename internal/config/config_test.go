package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"acbfe/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantDB := filepath.Join(tempHome, ".local", "share", "acbfe", "library.db")
	if cfg.Library.DBPath != wantDB {
		t.Fatalf("unexpected library db path: got %q want %q", cfg.Library.DBPath, wantDB)
	}
	if cfg.Logging.Dir != filepath.Join(tempHome, ".local", "share", "acbfe", "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Logging.Dir)
	}
	if cfg.Editor.DefaultLanguage != "en" {
		t.Fatalf("unexpected default language: %q", cfg.Editor.DefaultLanguage)
	}
	if cfg.Workspace.Tmpfs {
		t.Fatal("expected tmpfs disabled by default")
	}
	if cfg.Workspace.TmpfsDir != "/dev/shm" {
		t.Fatalf("unexpected tmpfs dir: %q", cfg.Workspace.TmpfsDir)
	}
	if cfg.Colors.TextLayers != "#FF0000" {
		t.Fatalf("unexpected text layer colour: %q", cfg.Colors.TextLayers)
	}
	if cfg.Convert.Workers <= 0 {
		t.Fatalf("expected positive worker count, got %d", cfg.Convert.Workers)
	}
}

func TestLoadCustomConfigNormalizesValues(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	payload := map[string]any{
		"editor": map[string]any{
			"default_language":  " SK ",
			"reading_direction": "rtl",
		},
		"workspace": map[string]any{
			"tmpfs":     true,
			"tmpfs_dir": "~/shm",
		},
		"convert": map[string]any{
			"workers":        0,
			"default_filter": "bicubic",
		},
		"logging": map[string]any{
			"format": "JSON",
			"level":  "Debug",
		},
	}
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected config at %q to exist, got %q exists=%v", configPath, resolved, exists)
	}
	if cfg.Editor.DefaultLanguage != "sk" {
		t.Fatalf("expected lowercased language, got %q", cfg.Editor.DefaultLanguage)
	}
	if cfg.Editor.ReadingDirection != "RTL" {
		t.Fatalf("expected RTL, got %q", cfg.Editor.ReadingDirection)
	}
	if cfg.Workspace.TmpfsDir != filepath.Join(tempHome, "shm") {
		t.Fatalf("unexpected tmpfs dir: %q", cfg.Workspace.TmpfsDir)
	}
	if got := cfg.WorkspaceRoot(); got != filepath.Join(tempHome, "shm", "acbfe") {
		t.Fatalf("unexpected workspace root: %q", got)
	}
	if cfg.Convert.DefaultFilter != "BICUBIC" {
		t.Fatalf("unexpected filter: %q", cfg.Convert.DefaultFilter)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"direction", func(c *config.Config) { c.Editor.ReadingDirection = "TTB" }, "reading_direction"},
		{"colour", func(c *config.Config) { c.Colors.Frames = "black" }, "colors.frames"},
		{"filter", func(c *config.Config) { c.Convert.DefaultFilter = "LANCZOS" }, "default_filter"},
		{"format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"tmpfs", func(c *config.Config) {
			c.Workspace.Tmpfs = true
			c.Workspace.TmpfsDir = ""
		}, "tmpfs_dir"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ACBFE_LOG_LEVEL", "WARN")
	t.Setenv("ACBFE_TMPFS_DIR", "/run/shm")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected env log level, got %q", cfg.Logging.Level)
	}
	if cfg.Workspace.TmpfsDir != "/run/shm" {
		t.Fatalf("expected env tmpfs dir, got %q", cfg.Workspace.TmpfsDir)
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	if _, _, exists, err := config.Load(target); err != nil || !exists {
		t.Fatalf("expected sample config to load, exists=%v err=%v", exists, err)
	}
}

func TestDocumentAuthorName(t *testing.T) {
	cfg := config.Default()
	if got := cfg.DocumentAuthorName(); got != "" {
		t.Fatalf("expected empty author, got %q", got)
	}
	cfg.Author.Nickname = "inker"
	if got := cfg.DocumentAuthorName(); got != "inker" {
		t.Fatalf("expected nickname fallback, got %q", got)
	}
	cfg.Author.FirstName = "Jan"
	cfg.Author.LastName = "Novak"
	if got := cfg.DocumentAuthorName(); got != "Jan Novak" {
		t.Fatalf("unexpected author name %q", got)
	}
}

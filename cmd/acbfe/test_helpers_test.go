package main

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"acbfe/internal/config"
	"acbfe/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	book       string
}

// setupCLITestEnv writes a config whose directories live under a temp dir
// and a three page CBZ to edit.
func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	book := filepath.Join(base, "books", "book.cbz")
	testsupport.WriteCBZ(t, book, map[string][]byte{
		"001.png": testsupport.ImageBytes(t, 100, 100, color.White),
		"002.png": testsupport.ImageBytes(t, 100, 100, color.Black),
		"003.png": testsupport.ImageBytes(t, 100, 100, color.Gray{Y: 128}),
	})

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base, book: book}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	testsupport.WriteFile(t, path, data)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// runBook runs a command against the environment's book.
func (env *cliTestEnv) runBook(t *testing.T, args ...string) string {
	t.Helper()
	out, stderr, err := runCLI(t, append([]string{"-i", env.book}, args...), env.configPath)
	if err != nil {
		t.Fatalf("acbfe %s: %v\nstderr: %s", strings.Join(args, " "), err, stderr)
	}
	return out
}

// writeScript installs an executable shell script and returns its path.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script %s: %v", name, err)
	}
	return path
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"acbfe/internal/catalog"
	"acbfe/internal/testsupport"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.configPath)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse an existing file")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, env.cfg.Workspace.BaseDir)
}

func TestLibraryAddSearchRemove(t *testing.T) {
	env := setupCLITestEnv(t)
	env.runBook(t, "set", "title", "Night Train")
	env.runBook(t, "authors", "add", "Writer", "Mary Ann Evans")

	out, stderr, err := runCLI(t, []string{"library", "add", env.book}, env.configPath)
	if err != nil {
		t.Fatalf("library add: %v\n%s", err, stderr)
	}
	requireContains(t, out, "Indexed Night Train")

	out, _, err = runCLI(t, []string{"library", "search", "--author", "evans", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("library search: %v", err)
	}
	var results []catalog.Result
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode search: %v\n%s", err, out)
	}
	if len(results) != 1 || results[0].Entry.Path != env.book || results[0].Entry.Pages != 3 {
		t.Fatalf("search results = %+v", results)
	}

	out, _, err = runCLI(t, []string{"library", "search", "zeppelin"}, env.configPath)
	if err != nil {
		t.Fatalf("library search: %v", err)
	}
	requireContains(t, out, "No matches")

	if _, _, err := runCLI(t, []string{"library", "remove", env.book}, env.configPath); err != nil {
		t.Fatalf("library remove: %v", err)
	}
	out, _, err = runCLI(t, []string{"library", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("library list: %v", err)
	}
	requireContains(t, out, "Library is empty")
}

func TestWorkspaceListAndClean(t *testing.T) {
	env := setupCLITestEnv(t)
	stale := filepath.Join(env.cfg.WorkspaceRoot(), "acbfe_crashed")
	testsupport.WriteFile(t, filepath.Join(stale, "001.png"), []byte("x"))
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	out, _, err := runCLI(t, []string{"workspace", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("workspace list: %v", err)
	}
	requireContains(t, out, "acbfe_crashed")

	out, _, err = runCLI(t, []string{"workspace", "clean"}, env.configPath)
	if err != nil {
		t.Fatalf("workspace clean: %v", err)
	}
	requireContains(t, out, "Removed "+stale)
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("stale workspace still present: %v", err)
	}
}

func TestDoctorReportsTools(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())

	out, _, err := runCLI(t, []string{"doctor", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	var report doctorReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode doctor: %v\n%s", err, out)
	}
	found := map[string]bool{}
	for _, s := range report.Tools {
		found[s.Name] = s.Available
	}
	if !found["kumiko"] || !found["unrar"] {
		t.Fatalf("stubbed tools not found: %+v", report.Tools)
	}
	for _, c := range report.Checks {
		if !c.Passed {
			t.Fatalf("check %s failed: %s", c.Name, c.Detail)
		}
	}
}

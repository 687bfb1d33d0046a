package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"

	"acbfe/internal/archive"
)

func TestSetAndGetPersistAcrossRuns(t *testing.T) {
	env := setupCLITestEnv(t)

	out := env.runBook(t, "set", "title", "Night Train")
	requireContains(t, out, "title set")
	requireContains(t, out, "Saved "+env.book)

	out = env.runBook(t, "get", "title")
	if strings.TrimSpace(out) != "Night Train" {
		t.Fatalf("get title = %q, want Night Train", out)
	}

	env.runBook(t, "set", "keywords", "noir, rain")
	out = env.runBook(t, "info", "--json")
	var info bookInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("decode info: %v\n%s", err, out)
	}
	if info.Title != "Night Train" || info.Pages != 3 {
		t.Fatalf("info = %+v", info)
	}
	if strings.Join(info.Keywords, "|") != "noir|rain" {
		t.Fatalf("keywords = %v", info.Keywords)
	}
}

func TestSetRejectsUnknownField(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"-i", env.book, "set", "colour", "red"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestGroupCommandsAddListRemove(t *testing.T) {
	env := setupCLITestEnv(t)

	env.runBook(t, "authors", "add", "Writer", "Mary Ann Evans")
	env.runBook(t, "authors", "add", "Artist", "Jean Giraud")
	out := env.runBook(t, "authors", "list")
	requireContains(t, out, "Evans")
	requireContains(t, out, "Giraud")

	env.runBook(t, "authors", "remove", "1")
	out = env.runBook(t, "authors", "list")
	if strings.Contains(out, "Evans") {
		t.Fatalf("removed author still listed:\n%s", out)
	}
	requireContains(t, out, "Giraud")

	_, _, err := runCLI(t, []string{"-i", env.book, "authors", "add", "Juggler", "Nobody"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for unknown activity")
	}
}

func TestPageCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"-i", env.book, "page", "delete", "1"}, env.configPath); err == nil {
		t.Fatal("expected deleting the cover to fail")
	}

	env.runBook(t, "page", "set", "2", "--title", "Chapter One", "--lang", "en")
	out := env.runBook(t, "toc", "--lang", "en")
	requireContains(t, out, "Chapter One")

	env.runBook(t, "page", "text", "add", "2", "10,10 60,10 60,40 10,40", `Hello\nthere`, "--lang", "en")
	out = env.runBook(t, "page", "text", "list", "2", "--lang", "en")
	requireContains(t, out, "Hello")

	env.runBook(t, "page", "delete", "3")
	out = env.runBook(t, "pages", "--json")
	var rows []pageRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode pages: %v\n%s", err, out)
	}
	if len(rows) != 2 {
		t.Fatalf("pages = %d, want 2", len(rows))
	}
	if rows[1].TextAreas != 1 || rows[1].Title != "Chapter One" {
		t.Fatalf("page 2 = %+v", rows[1])
	}
}

func TestFramesDetectWithKumiko(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Tools.Kumiko = writeScript(t, filepath.Join(env.baseDir, "bin"), "kumiko",
		`echo '[{"filename":"page.png","size":[100,100],"panels":[[50,0,50,50],[0,0,50,50],[0,50,100,50]]}]'`)
	writeTestConfig(t, env.configPath, env.cfg)

	out := env.runBook(t, "frames", "detect", "2")
	requireContains(t, out, "Page 2: 3 frames")

	out = env.runBook(t, "frames", "list", "2")
	requireContains(t, out, "0,0 50,0 50,50 0,50")

	env.runBook(t, "frames", "clear", "2")
	out = env.runBook(t, "info", "--json")
	var info bookInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("decode info: %v", err)
	}
	if info.Frames {
		t.Fatal("frames still present after clear")
	}
}

func listFrames(t *testing.T, env *cliTestEnv, page string) []string {
	t.Helper()
	out := env.runBook(t, "frames", "list", page, "--json")
	var frames []string
	if err := json.Unmarshal([]byte(out), &frames); err != nil {
		t.Fatalf("decode frames: %v\n%s", err, out)
	}
	return frames
}

func TestFramesAddMoveRemove(t *testing.T) {
	env := setupCLITestEnv(t)
	left := "0,0 50,0 50,50 0,50"
	right := "50,0 100,0 100,50 50,50"
	bottom := "0,50 100,50 100,100 0,100"

	requireContains(t, env.runBook(t, "frames", "add", "2", left), "Frame 1 on page 2")
	requireContains(t, env.runBook(t, "frames", "add", "2", right, "--bgcolor", "#ffffff"), "Frame 2 on page 2")
	requireContains(t, env.runBook(t, "frames", "add", "2", bottom, "--at", "1"), "Frame 1 on page 2")
	if got := strings.Join(listFrames(t, env, "2"), "|"); got != bottom+"|"+left+"|"+right {
		t.Fatalf("frames after add = %s", got)
	}

	env.runBook(t, "frames", "move", "2", "1", "3")
	if got := strings.Join(listFrames(t, env, "2"), "|"); got != left+"|"+right+"|"+bottom {
		t.Fatalf("frames after move = %s", got)
	}

	env.runBook(t, "frames", "remove", "2", "2")
	if got := strings.Join(listFrames(t, env, "2"), "|"); got != left+"|"+bottom {
		t.Fatalf("frames after remove = %s", got)
	}

	for _, args := range [][]string{
		{"frames", "remove", "2", "9"},
		{"frames", "move", "2", "0", "1"},
		{"frames", "add", "2", "1,1 2,2"},
		{"frames", "add", "2", left, "--at", "7"},
	} {
		if _, _, err := runCLI(t, append([]string{"-i", env.book}, args...), env.configPath); err == nil {
			t.Fatalf("expected %v to fail", args)
		}
	}
}

func TestPageJumps(t *testing.T) {
	env := setupCLITestEnv(t)

	out := env.runBook(t, "page", "jumps", "add", "2", "3", "80,80 100,80 100,100 80,100")
	requireContains(t, out, "Jump 1 on page 2 leads to page 3")
	if _, _, err := runCLI(t, []string{"-i", env.book, "page", "jumps", "add", "2", "9", "0,0 1,0 1,1"}, env.configPath); err == nil {
		t.Fatal("expected a jump to a missing page to fail")
	}

	type jumpRow struct {
		Page   int    `json:"page"`
		Points string `json:"points"`
	}
	var jumps []jumpRow
	out = env.runBook(t, "page", "jumps", "list", "2", "--json")
	if err := json.Unmarshal([]byte(out), &jumps); err != nil {
		t.Fatalf("decode jumps: %v\n%s", err, out)
	}
	if len(jumps) != 1 || jumps[0].Page != 3 || jumps[0].Points != "80,80 100,80 100,100 80,100" {
		t.Fatalf("jumps = %+v", jumps)
	}

	env.runBook(t, "page", "jumps", "remove", "2", "1")
	out = env.runBook(t, "page", "jumps", "list", "2", "--json")
	jumps = nil
	if err := json.Unmarshal([]byte(out), &jumps); err != nil {
		t.Fatalf("decode jumps: %v\n%s", err, out)
	}
	if len(jumps) != 0 {
		t.Fatalf("jumps after remove = %+v", jumps)
	}
}

func TestPageTextBackground(t *testing.T) {
	env := setupCLITestEnv(t)
	env.runBook(t, "page", "text", "bg", "2", "#ffeedd", "--lang", "en")

	data, err := archive.ReadFile(env.book, "book.acbf")
	if err != nil {
		t.Fatalf("read acbf: %v", err)
	}
	requireContains(t, string(data), `<text-layer lang="en" bgcolor="#ffeedd">`)
}

func TestBatchConvertsBodyPages(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.baseDir, "converted.cbz")

	out, stderr, err := runCLI(t, []string{"-i", env.book, "-o", target, "-f", "JPG", "-q", "80", "-r", "50x50>"}, env.configPath)
	if err != nil {
		t.Fatalf("batch: %v\n%s", err, stderr)
	}
	requireContains(t, out, "Converting images")
	requireContains(t, out, "Saved "+target)

	zr, err := zip.OpenReader(target)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer zr.Close()
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	joined := strings.Join(names, " ")
	for _, want := range []string{"001.png", "002.jpg", "003.jpg", "book.acbf"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("output entries %v missing %s", names, want)
		}
	}
}

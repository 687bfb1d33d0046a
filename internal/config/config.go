package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Editor contains document defaults applied when editing comic books.
type Editor struct {
	DefaultLanguage  string `toml:"default_language"`
	ReadingDirection string `toml:"reading_direction"`
	HiDPI            bool   `toml:"hidpi"`
	Snap             bool   `toml:"snap"`
}

// Author is the default ACBF document author recorded in document-info.
type Author struct {
	FirstName  string `toml:"first_name"`
	MiddleName string `toml:"middle_name"`
	LastName   string `toml:"last_name"`
	Nickname   string `toml:"nickname"`
}

// Workspace controls where archives are extracted while editing.
type Workspace struct {
	Tmpfs    bool   `toml:"tmpfs"`
	TmpfsDir string `toml:"tmpfs_dir"`
	BaseDir  string `toml:"base_dir"`
}

// Tools names the external executables acbfe shells out to.
type Tools struct {
	Unrar         string `toml:"unrar"`
	SevenZip      string `toml:"sevenzip"`
	Kumiko        string `toml:"kumiko"`
	FcList        string `toml:"fc_list"`
	TesseractLang string `toml:"tesseract_lang"`
}

// Colors are the overlay colours used by the page viewer.
type Colors struct {
	Frames     string `toml:"frames"`
	TextLayers string `toml:"text_layers"`
}

// Convert contains batch image conversion defaults.
type Convert struct {
	Workers       int    `toml:"workers"`
	DefaultFilter string `toml:"default_filter"`
}

// Library contains configuration for the comic library index.
type Library struct {
	DBPath string `toml:"db_path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Config encapsulates all configuration values for acbfe.
//
// Configuration sections by subsystem:
//   - Editor: document defaults and viewer behaviour
//   - Author: default document author
//   - Workspace: extraction directory (tmpfs override)
//   - Tools: external executables (unrar, 7z, kumiko, fc-list)
//   - Colors: overlay colours for frames and text layers
//   - Convert: batch conversion worker count and resize filter
//   - Library: SQLite library index location
//   - Logging: log format, level, and directory
type Config struct {
	Editor    Editor    `toml:"editor"`
	Author    Author    `toml:"author"`
	Workspace Workspace `toml:"workspace"`
	Tools     Tools     `toml:"tools"`
	Colors    Colors    `toml:"colors"`
	Convert   Convert   `toml:"convert"`
	Library   Library   `toml:"library"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("acbfe.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log directory and the parent of the library database.
// The tmpfs directory is left alone; it usually lives on a mount the user manages.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Logging.Dir}
	if strings.TrimSpace(c.Library.DBPath) != "" {
		dirs = append(dirs, filepath.Dir(c.Library.DBPath))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// WorkspaceRoot returns the directory new workspaces are created under.
func (c *Config) WorkspaceRoot() string {
	if c.Workspace.Tmpfs {
		return filepath.Join(c.Workspace.TmpfsDir, "acbfe")
	}
	if c.Workspace.BaseDir != "" {
		return c.Workspace.BaseDir
	}
	return os.TempDir()
}

// DocumentAuthorName returns the configured document author as a single display string.
func (c *Config) DocumentAuthorName() string {
	parts := []string{c.Author.FirstName, c.Author.MiddleName, c.Author.LastName}
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return strings.TrimSpace(c.Author.Nickname)
	}
	return strings.Join(kept, " ")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	out, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return out, nil
}

package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeEditor()
	c.normalizeTools()
	c.normalizeColors()
	c.normalizeConvert()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("ACBFE_TMPFS_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Workspace.TmpfsDir = strings.TrimSpace(value)
	}

	var err error
	if c.Workspace.TmpfsDir, err = expandPath(strings.TrimSpace(c.Workspace.TmpfsDir)); err != nil {
		return fmt.Errorf("workspace.tmpfs_dir: %w", err)
	}
	if c.Workspace.BaseDir, err = expandPath(strings.TrimSpace(c.Workspace.BaseDir)); err != nil {
		return fmt.Errorf("workspace.base_dir: %w", err)
	}
	if c.Library.DBPath, err = expandPath(strings.TrimSpace(c.Library.DBPath)); err != nil {
		return fmt.Errorf("library.db_path: %w", err)
	}
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeEditor() {
	c.Editor.DefaultLanguage = strings.ToLower(strings.TrimSpace(c.Editor.DefaultLanguage))
	if c.Editor.DefaultLanguage == "" {
		c.Editor.DefaultLanguage = defaultLanguage
	}
	c.Editor.ReadingDirection = strings.ToUpper(strings.TrimSpace(c.Editor.ReadingDirection))
	if c.Editor.ReadingDirection == "" {
		c.Editor.ReadingDirection = defaultReadingDirection
	}
	c.Author.FirstName = strings.TrimSpace(c.Author.FirstName)
	c.Author.MiddleName = strings.TrimSpace(c.Author.MiddleName)
	c.Author.LastName = strings.TrimSpace(c.Author.LastName)
	c.Author.Nickname = strings.TrimSpace(c.Author.Nickname)
}

func (c *Config) normalizeTools() {
	c.Tools.Unrar = trimOr(c.Tools.Unrar, defaultUnrar)
	c.Tools.SevenZip = trimOr(c.Tools.SevenZip, defaultSevenZip)
	c.Tools.Kumiko = trimOr(c.Tools.Kumiko, defaultKumiko)
	c.Tools.FcList = trimOr(c.Tools.FcList, defaultFcList)
	c.Tools.TesseractLang = trimOr(c.Tools.TesseractLang, defaultTesseractLang)
}

func (c *Config) normalizeColors() {
	c.Colors.Frames = trimOr(c.Colors.Frames, defaultFramesColor)
	c.Colors.TextLayers = trimOr(c.Colors.TextLayers, defaultTextLayersColor)
}

func (c *Config) normalizeConvert() {
	if c.Convert.Workers <= 0 {
		c.Convert.Workers = runtime.NumCPU()
	}
	c.Convert.DefaultFilter = strings.ToUpper(trimOr(c.Convert.DefaultFilter, defaultResizeFilter))
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("ACBFE_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(trimOr(c.Logging.Format, defaultLogFormat))
	c.Logging.Level = strings.ToLower(trimOr(c.Logging.Level, defaultLogLevel))
}

func trimOr(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}

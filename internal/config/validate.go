package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateEditor(); err != nil {
		return err
	}
	if err := c.validateWorkspace(); err != nil {
		return err
	}
	if err := c.validateColors(); err != nil {
		return err
	}
	if err := c.validateConvert(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateEditor() error {
	switch c.Editor.ReadingDirection {
	case "LTR", "RTL":
	default:
		return fmt.Errorf("editor.reading_direction must be LTR or RTL, got %q", c.Editor.ReadingDirection)
	}
	if len(c.Editor.DefaultLanguage) < 2 {
		return fmt.Errorf("editor.default_language must be a language code, got %q", c.Editor.DefaultLanguage)
	}
	return nil
}

func (c *Config) validateWorkspace() error {
	if c.Workspace.Tmpfs && strings.TrimSpace(c.Workspace.TmpfsDir) == "" {
		return errors.New("workspace.tmpfs_dir must be set when workspace.tmpfs is true")
	}
	return nil
}

func (c *Config) validateColors() error {
	if !hexColorPattern.MatchString(c.Colors.Frames) {
		return fmt.Errorf("colors.frames must be a #rrggbb colour, got %q", c.Colors.Frames)
	}
	if !hexColorPattern.MatchString(c.Colors.TextLayers) {
		return fmt.Errorf("colors.text_layers must be a #rrggbb colour, got %q", c.Colors.TextLayers)
	}
	return nil
}

func (c *Config) validateConvert() error {
	switch c.Convert.DefaultFilter {
	case "NEAREST", "BILINEAR", "BICUBIC", "ANTIALIAS":
	default:
		return fmt.Errorf("convert.default_filter must be one of NEAREST, BILINEAR, BICUBIC, ANTIALIAS, got %q", c.Convert.DefaultFilter)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

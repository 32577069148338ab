package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.RomsetDir) == "" {
		if value, ok := os.LookupEnv("ROMSEL_ROMSET_DIR"); ok {
			c.Paths.RomsetDir = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.Paths.SelectionDir) == "" {
		if value, ok := os.LookupEnv("ROMSEL_SELECTION_DIR"); ok {
			c.Paths.SelectionDir = strings.TrimSpace(value)
		}
	}
	if c.Paths.RomsetDir, err = expandPath(strings.TrimSpace(c.Paths.RomsetDir)); err != nil {
		return fmt.Errorf("paths.romset_dir: %w", err)
	}
	if c.Paths.SelectionDir, err = expandPath(strings.TrimSpace(c.Paths.SelectionDir)); err != nil {
		return fmt.Errorf("paths.selection_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

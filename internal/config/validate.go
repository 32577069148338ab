package config

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.RomsetDir != "" && c.Paths.RomsetDir == c.Paths.SelectionDir {
		return errors.New("paths.romset_dir and paths.selection_dir must differ")
	}
	if c.Paths.StateDir == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q (use debug, info, warn, or error)", c.Logging.Level)
	}
}

// ResolveDirs picks the romset and selection directories for a command,
// preferring explicit overrides over configured values.
func (c *Config) ResolveDirs(romsetOverride, selectionOverride string) (string, string, error) {
	romset := c.Paths.RomsetDir
	selection := c.Paths.SelectionDir
	var err error
	if romsetOverride != "" {
		if romset, err = expandPath(romsetOverride); err != nil {
			return "", "", fmt.Errorf("romset: %w", err)
		}
	}
	if selectionOverride != "" {
		if selection, err = expandPath(selectionOverride); err != nil {
			return "", "", fmt.Errorf("selection: %w", err)
		}
	}
	if romset != "" && filepath.Clean(romset) == filepath.Clean(selection) {
		return "", "", errors.New("romset and selection directories must differ")
	}
	return romset, selection, nil
}

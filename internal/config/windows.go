// Package config loads the wavelength-window tuning file.
//
// The JSON schema is flat with every field optional; omitted fields fall
// back to the built-in defaults, so partial configs are safe. Loaded values
// are materialized into a spectrum.Config copy per call and never shared.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spectra-data/specnorm/spectrum"
)

// WindowConfig represents the root configuration for the wavelength windows
// consumed by the normalization pipeline.
type WindowConfig struct {
	IvarWindowLow  *float64 `json:"ivar_window_low,omitempty"`
	IvarWindowHigh *float64 `json:"ivar_window_high,omitempty"`
	TrimWindowLow  *float64 `json:"trim_window_low,omitempty"`
	TrimWindowHigh *float64 `json:"trim_window_high,omitempty"`
}

// Load reads a WindowConfig from a JSON file. The file must have a .json
// extension and stay under the max file size.
func Load(path string) (*WindowConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &WindowConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that each materialized window is a non-empty interval.
func (c *WindowConfig) Validate() error {
	if err := c.GetIvarWindow().Validate(); err != nil {
		return fmt.Errorf("ivar window: %w", err)
	}
	if err := c.GetTrimWindow().Validate(); err != nil {
		return fmt.Errorf("trim window: %w", err)
	}
	return nil
}

// GetIvarWindow returns the continuum window for ivar estimation, filling
// omitted bounds from the defaults.
func (c *WindowConfig) GetIvarWindow() spectrum.Window {
	w := spectrum.DefaultConfig().IvarWindow
	if c.IvarWindowLow != nil {
		w.Low = *c.IvarWindowLow
	}
	if c.IvarWindowHigh != nil {
		w.High = *c.IvarWindowHigh
	}
	return w
}

// GetTrimWindow returns the trim window, filling omitted bounds from the
// defaults.
func (c *WindowConfig) GetTrimWindow() spectrum.Window {
	w := spectrum.DefaultConfig().TrimWindow
	if c.TrimWindowLow != nil {
		w.Low = *c.TrimWindowLow
	}
	if c.TrimWindowHigh != nil {
		w.High = *c.TrimWindowHigh
	}
	return w
}

// Windows materializes the loaded values into a fresh spectrum.Config.
func (c *WindowConfig) Windows() spectrum.Config {
	return spectrum.Config{
		IvarWindow: c.GetIvarWindow(),
		TrimWindow: c.GetTrimWindow(),
	}
}

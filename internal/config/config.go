// Package config loads pagegrab configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Command-line flags (applied by the cmd layer)
//  2. Environment variables (PAGEGRAB_*)
//  3. Config file
//  4. Built-in defaults
//
// Config file search order:
//  1. .pagegrab.yaml in current directory
//  2. ~/.config/pagegrab/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all pagegrab configuration.
type Config struct {
	// Sequencer timing (Go duration strings, e.g. "1s", "500ms")
	PageDelay    string `yaml:"page_delay"`
	SettleDelay  string `yaml:"capture_settle_delay"`
	StartupDelay string `yaml:"startup_delay"`

	// AdvanceKey is the key synthesized to turn the page.
	AdvanceKey string `yaml:"advance_key"`

	// Assembler defaults
	Pattern string  `yaml:"pattern"`
	Sort    string  `yaml:"sort"`
	DPI     float64 `yaml:"dpi"`

	// OTEL
	OTELEndpoint string `yaml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers"` // Comma-separated key=value pairs

	// Parsed durations (not from YAML, set after loading)
	PageDelayDuration    time.Duration `yaml:"-"`
	SettleDelayDuration  time.Duration `yaml:"-"`
	StartupDelayDuration time.Duration `yaml:"-"`

	// ConfigFile is the path to the config file that was loaded (empty if none).
	ConfigFile string `yaml:"-"`
}

// Defaults returns a Config with all default values. The delays mirror the
// command surface defaults: 1s between pages, 500ms post-capture settle, and
// a 3s grace before the first page so the operator can focus the reader.
func Defaults() *Config {
	return &Config{
		PageDelay:    "1s",
		SettleDelay:  "500ms",
		StartupDelay: "3s",
		AdvanceKey:   "right",
		Pattern:      "*.jpeg",
		Sort:         "time",
		DPI:          150,
	}
}

// Load reads configuration from file and environment variables.
// Environment variables always override file values.
func Load() (*Config, error) {
	cfg := Defaults()

	if path, data, err := findConfigFile(); err == nil {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
		mergeFile(cfg, &fileCfg)
	}

	mergeEnv(cfg)

	var err error
	cfg.PageDelayDuration, err = parseDelay(cfg.PageDelay, time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid page_delay %q: %w", cfg.PageDelay, err)
	}
	cfg.SettleDelayDuration, err = parseDelay(cfg.SettleDelay, 500*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("invalid capture_settle_delay %q: %w", cfg.SettleDelay, err)
	}
	cfg.StartupDelayDuration, err = parseDelay(cfg.StartupDelay, 3*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid startup_delay %q: %w", cfg.StartupDelay, err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file and returns its path and contents.
func findConfigFile() (string, []byte, error) {
	// 1. Current directory
	if data, err := os.ReadFile(".pagegrab.yaml"); err == nil {
		return ".pagegrab.yaml", data, nil
	}

	// 2. XDG config dir / ~/.config
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "pagegrab", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			return path, data, nil
		}
	}

	return "", nil, fmt.Errorf("no config file found")
}

// mergeFile applies non-zero file values onto cfg.
func mergeFile(cfg *Config, file *Config) {
	if file.PageDelay != "" {
		cfg.PageDelay = file.PageDelay
	}
	if file.SettleDelay != "" {
		cfg.SettleDelay = file.SettleDelay
	}
	if file.StartupDelay != "" {
		cfg.StartupDelay = file.StartupDelay
	}
	if file.AdvanceKey != "" {
		cfg.AdvanceKey = file.AdvanceKey
	}
	if file.Pattern != "" {
		cfg.Pattern = file.Pattern
	}
	if file.Sort != "" {
		cfg.Sort = file.Sort
	}
	if file.DPI > 0 {
		cfg.DPI = file.DPI
	}
	if file.OTELEndpoint != "" {
		cfg.OTELEndpoint = file.OTELEndpoint
	}
	if file.OTELHeaders != "" {
		cfg.OTELHeaders = file.OTELHeaders
	}
}

// mergeEnv applies environment variables onto cfg. Env always wins.
func mergeEnv(cfg *Config) {
	if v := os.Getenv("PAGEGRAB_PAGE_DELAY"); v != "" {
		cfg.PageDelay = v
	}
	if v := os.Getenv("PAGEGRAB_SETTLE_DELAY"); v != "" {
		cfg.SettleDelay = v
	}
	if v := os.Getenv("PAGEGRAB_STARTUP_DELAY"); v != "" {
		cfg.StartupDelay = v
	}
	if v := os.Getenv("PAGEGRAB_ADVANCE_KEY"); v != "" {
		cfg.AdvanceKey = v
	}
	if v := os.Getenv("PAGEGRAB_PATTERN"); v != "" {
		cfg.Pattern = v
	}
	if v := os.Getenv("PAGEGRAB_SORT"); v != "" {
		cfg.Sort = v
	}
	if v := os.Getenv("PAGEGRAB_DPI"); v != "" {
		if dpi, err := strconv.ParseFloat(v, 64); err == nil && dpi > 0 {
			cfg.DPI = dpi
		}
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		cfg.OTELHeaders = v
	}
}

// parseDelay parses a duration string. "0" disables the delay; an empty
// string returns the fallback.
func parseDelay(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	if s == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return d, nil
}

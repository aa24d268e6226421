package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// chdir changes into dir for the duration of the test; t.Chdir needs go1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore wd: %v", err)
		}
	})
}

// isolate runs Load without picking up the developer's real config files.
func isolate(t *testing.T) {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PageDelayDuration != time.Second {
		t.Fatalf("expected 1s page delay, got %v", cfg.PageDelayDuration)
	}
	if cfg.SettleDelayDuration != 500*time.Millisecond {
		t.Fatalf("expected 500ms settle delay, got %v", cfg.SettleDelayDuration)
	}
	if cfg.Pattern != "*.jpeg" {
		t.Fatalf("expected *.jpeg pattern, got %q", cfg.Pattern)
	}
	if cfg.AdvanceKey != "right" {
		t.Fatalf("expected right advance key, got %q", cfg.AdvanceKey)
	}
}

func TestLoad_FileValues(t *testing.T) {
	isolate(t)

	yaml := "page_delay: 2s\npattern: '*.png'\ndpi: 300\n"
	if err := os.WriteFile(".pagegrab.yaml", []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PageDelayDuration != 2*time.Second {
		t.Fatalf("expected 2s page delay from file, got %v", cfg.PageDelayDuration)
	}
	if cfg.Pattern != "*.png" {
		t.Fatalf("expected *.png from file, got %q", cfg.Pattern)
	}
	if cfg.DPI != 300 {
		t.Fatalf("expected 300 dpi from file, got %v", cfg.DPI)
	}
	// Unset fields keep defaults.
	if cfg.SettleDelayDuration != 500*time.Millisecond {
		t.Fatalf("expected default settle delay, got %v", cfg.SettleDelayDuration)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)

	if err := os.WriteFile(".pagegrab.yaml", []byte("page_delay: 2s\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PAGEGRAB_PAGE_DELAY", "250ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PageDelayDuration != 250*time.Millisecond {
		t.Fatalf("expected env to win, got %v", cfg.PageDelayDuration)
	}
}

func TestLoad_HomeConfigFallback(t *testing.T) {
	chdir(t, t.TempDir())
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "pagegrab")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("advance_key: pagedown\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AdvanceKey != "pagedown" {
		t.Fatalf("expected advance key from home config, got %q", cfg.AdvanceKey)
	}
}

func TestLoad_ZeroDisablesDelay(t *testing.T) {
	isolate(t)
	t.Setenv("PAGEGRAB_STARTUP_DELAY", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StartupDelayDuration != 0 {
		t.Fatalf("expected disabled startup delay, got %v", cfg.StartupDelayDuration)
	}
}

func TestLoad_RejectsInvalidDuration(t *testing.T) {
	isolate(t)
	t.Setenv("PAGEGRAB_PAGE_DELAY", "fast")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestLoad_RejectsNegativeDuration(t *testing.T) {
	isolate(t)
	t.Setenv("PAGEGRAB_PAGE_DELAY", "-1s")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative duration")
	}
}

// Package cmd implements the pagegrab command surface.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pagegrab/pagegrab/internal/config"
	pgotel "github.com/pagegrab/pagegrab/internal/otel"
	"github.com/pagegrab/pagegrab/internal/permissions"
)

// Version is injected by the linker at release build time.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "pagegrab",
	Short: "Capture e-book pages from a reader app and compile them into a lossless PDF",
	Long: `pagegrab automates page-by-page extraction from an e-book reader that only
displays content on screen. It simulates the clicks and key presses a human
would make, captures pixels where needed, and compiles the captured images
into a single PDF without recompressing them.

The reader window must stay focused for the whole run: pagegrab posts input
events to whatever application owns focus and cannot detect a focus change.
Keep hands off mouse and keyboard until the run finishes.`,
	SilenceUsage: true,
	Version:      Version,
}

// Execute runs the root command with the given context. Interrupt signals
// cancel the context; long-running commands honor that at safe boundaries.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file and environment once per invocation.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.ConfigFile != "" {
		fmt.Fprintf(os.Stderr, "using config %s\n", cfg.ConfigFile)
	}
	return cfg, nil
}

// setupTelemetry initializes OTEL from config. Telemetry failures never
// block a capture run; they degrade to a warning and no-op instruments.
func setupTelemetry(ctx context.Context, cfg *config.Config) *pgotel.Telemetry {
	pgotel.Version = Version
	tel, err := pgotel.Init(ctx, pgotel.OTELConfig{
		Endpoint: cfg.OTELEndpoint,
		Headers:  cfg.OTELHeaders,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: telemetry disabled: %v\n", err)
		return nil
	}
	return tel
}

// metricsOf returns the telemetry instruments, nil when telemetry is off.
func metricsOf(tel *pgotel.Telemetry) *pgotel.Metrics {
	if tel == nil {
		return nil
	}
	return tel.Metrics
}

// requireGrant fails fast with remediation guidance when a permission probe
// comes back denied. Consulted once, before any automation begins.
func requireGrant(name string, probe permissions.Probe) error {
	if probe.Granted {
		return nil
	}
	return fmt.Errorf("%s permission not granted: %s", name, probe.Guidance)
}

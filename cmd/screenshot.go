package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pagegrab/pagegrab/internal/assembler"
	"github.com/pagegrab/pagegrab/internal/capture"
	"github.com/pagegrab/pagegrab/internal/input"
	"github.com/pagegrab/pagegrab/internal/model"
	"github.com/pagegrab/pagegrab/internal/permissions"
)

var (
	flagShotPages  int
	flagShotOutput string
	flagShotRegion string
	flagShotDelay  time.Duration
	flagShotFrames string
)

var screenshotCmd = &cobra.Command{
	Use:   "screenshot",
	Short: "Capture pages by taking direct screenshots",
	Long: `Capture a fixed number of pages by grabbing screen pixels directly,
bypassing any in-app capture button.

Per page: grab the configured region (or the whole primary display), save it
as a lossless PNG frame, then press the advance key and wait for the next
page to render. When all pages are captured the frames are compiled into the
output PDF. Frames are kept on disk, so a failed compile can be retried with
'pagegrab compile' without recapturing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := requireGrant("screen recording", permissions.ScreenRecording()); err != nil {
			return err
		}
		if err := requireGrant("accessibility", permissions.Accessibility()); err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if flagShotPages < 1 {
			return fmt.Errorf("page count must be at least 1, got %d", flagShotPages)
		}

		var region *model.Region
		if flagShotRegion != "" {
			r, err := model.ParseRegion(flagShotRegion)
			if err != nil {
				return err
			}
			region = &r
		}

		pageDelay := cfg.PageDelayDuration
		if cmd.Flags().Changed("delay") {
			pageDelay = flagShotDelay
		}

		framesDir := flagShotFrames
		if framesDir == "" {
			framesDir, err = os.MkdirTemp("", "pagegrab-frames-")
			if err != nil {
				return fmt.Errorf("frames dir: %w", err)
			}
		}
		store, err := capture.NewStore(framesDir)
		if err != nil {
			return err
		}

		tel := setupTelemetry(ctx, cfg)
		defer tel.Shutdown(ctx)

		fmt.Printf("Capturing %d pages to %s\n", flagShotPages, framesDir)
		fmt.Println("Focus the reader window now.")
		if cfg.StartupDelayDuration > 0 {
			fmt.Printf("Starting in %s...\n", cfg.StartupDelayDuration)
		}
		time.Sleep(cfg.StartupDelayDuration)

		screen := capture.NewScreen()
		robot := input.NewRobot()
		metrics := metricsOf(tel)

		for page := 1; page <= flagShotPages; page++ {
			// Interrupts are honored here, never mid-page.
			if err := ctx.Err(); err != nil {
				fmt.Fprintf(os.Stderr, "Interrupted after %d/%d pages; frames kept in %s\n", page-1, flagShotPages, framesDir)
				return err
			}

			frame, err := screen.Capture(region)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Aborted after %d/%d pages\n", page-1, flagShotPages)
				return err
			}
			if _, err := store.Save(frame); err != nil {
				fmt.Fprintf(os.Stderr, "Aborted after %d/%d pages\n", page-1, flagShotPages)
				return err
			}
			metrics.RecordPageCaptured(ctx)
			fmt.Printf("Page %d/%d: captured\n", page, flagShotPages)

			if page < flagShotPages {
				if err := robot.PressKey(cfg.AdvanceKey); err != nil {
					fmt.Fprintf(os.Stderr, "Aborted after %d/%d pages; frames kept in %s\n", page, flagShotPages, framesDir)
					return err
				}
				metrics.RecordInputEvent(ctx, "key")
				time.Sleep(pageDelay)
			}
		}

		fmt.Printf("Compiling %s...\n", flagShotOutput)
		a := &assembler.Assembler{Metrics: metrics}
		report, err := a.Assemble(ctx, assembler.Options{
			Dir:        store.Dir(),
			Pattern:    "*.png",
			Sort:       model.SortByName,
			OutputPath: flagShotOutput,
			DPI:        cfg.DPI,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Compile failed; frames kept in %s\n", framesDir)
			return err
		}

		fmt.Printf("Done. Created %s (%d pages).\n", report.OutputPath, report.PageCount)
		return nil
	},
}

func init() {
	screenshotCmd.Flags().IntVarP(&flagShotPages, "pages", "p", 0, "number of pages to capture (required)")
	screenshotCmd.Flags().StringVarP(&flagShotOutput, "output", "o", "", "output PDF path (required)")
	screenshotCmd.Flags().StringVarP(&flagShotRegion, "region", "r", "", "capture region as x,y,width,height (default: whole display)")
	screenshotCmd.Flags().DurationVarP(&flagShotDelay, "delay", "d", time.Second, "delay between pages")
	screenshotCmd.Flags().StringVar(&flagShotFrames, "frames", "", "directory for captured frames (default: temp dir)")
	_ = screenshotCmd.MarkFlagRequired("pages")
	_ = screenshotCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(screenshotCmd)
}

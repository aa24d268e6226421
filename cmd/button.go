package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pagegrab/pagegrab/internal/input"
	"github.com/pagegrab/pagegrab/internal/model"
	"github.com/pagegrab/pagegrab/internal/permissions"
	"github.com/pagegrab/pagegrab/internal/sequencer"
)

var (
	flagButtonPages        int
	flagButtonPos          string
	flagButtonConfirm      string
	flagButtonDelay        time.Duration
	flagButtonCaptureDelay time.Duration
	flagButtonOutputDir    string
)

var buttonCmd = &cobra.Command{
	Use:   "button",
	Short: "Capture pages by clicking the reader's own capture button",
	Long: `Drive the reader's in-app capture button across a fixed number of pages.

Per page: click the capture button, wait for the reader to write its
artifact, optionally click a confirm button to dismiss the reader's warning
dialog, then press the advance key and wait for the next page to render.
The reader saves the captures itself; combine them afterwards with
'pagegrab compile'.

The first failed click or key press aborts the run and reports the last
completed page so you can resume manually from there.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := requireGrant("accessibility", permissions.Accessibility()); err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		captureButton, err := model.ParsePoint(flagButtonPos)
		if err != nil {
			return err
		}

		var confirmButton *model.Point
		if flagButtonConfirm != "" {
			p, err := model.ParsePoint(flagButtonConfirm)
			if err != nil {
				return err
			}
			confirmButton = &p
		}

		pageDelay := cfg.PageDelayDuration
		if cmd.Flags().Changed("delay") {
			pageDelay = flagButtonDelay
		}
		settleDelay := cfg.SettleDelayDuration
		if cmd.Flags().Changed("capture-delay") {
			settleDelay = flagButtonCaptureDelay
		}

		session := sequencer.Session{
			PageCount:     flagButtonPages,
			CaptureButton: captureButton,
			ConfirmButton: confirmButton,
			SettleDelay:   settleDelay,
			PageDelay:     pageDelay,
			StartupDelay:  cfg.StartupDelayDuration,
			AdvanceKey:    cfg.AdvanceKey,
			OutputDir:     flagButtonOutputDir,
		}
		if err := session.Validate(); err != nil {
			return err
		}

		tel := setupTelemetry(ctx, cfg)
		defer tel.Shutdown(ctx)

		fmt.Printf("Capturing %d pages via capture button at %s\n", session.PageCount, captureButton)
		if confirmButton != nil {
			fmt.Printf("Confirm button at %s\n", confirmButton)
		}
		fmt.Println("Focus the reader window now.")
		if session.StartupDelay > 0 {
			fmt.Printf("Starting in %s...\n", session.StartupDelay)
		}

		seq := &sequencer.Sequencer{
			Input:   input.NewRobot(),
			Metrics: metricsOf(tel),
			Progress: func(page, total int) {
				fmt.Printf("Page %d/%d: captured\n", page, total)
			},
		}

		result := seq.Run(ctx, session)
		if result.Err != nil {
			fmt.Fprintf(os.Stderr, "Aborted after %d/%d pages\n", result.PagesCompleted, result.TotalRequested)
			return result.Err
		}

		fmt.Printf("Done. Captured %d pages.\n", result.PagesCompleted)
		if session.OutputDir != "" {
			fmt.Printf("Combine them with 'pagegrab compile -i %s' when ready.\n", session.OutputDir)
		} else {
			fmt.Println("Combine them with 'pagegrab compile' when ready.")
		}
		return nil
	},
}

func init() {
	buttonCmd.Flags().IntVarP(&flagButtonPages, "pages", "p", 0, "number of pages to capture (required)")
	buttonCmd.Flags().StringVarP(&flagButtonPos, "button", "b", "", "capture button position as x,y (required)")
	buttonCmd.Flags().StringVar(&flagButtonConfirm, "confirm", "", "confirm button position as x,y (dismisses dialogs)")
	buttonCmd.Flags().DurationVarP(&flagButtonDelay, "delay", "d", time.Second, "delay between pages")
	buttonCmd.Flags().DurationVarP(&flagButtonCaptureDelay, "capture-delay", "c", 500*time.Millisecond, "delay after clicking capture")
	buttonCmd.Flags().StringVar(&flagButtonOutputDir, "output-dir", "", "directory where the reader saves its captures")
	_ = buttonCmd.MarkFlagRequired("pages")
	_ = buttonCmd.MarkFlagRequired("button")
	rootCmd.AddCommand(buttonCmd)
}

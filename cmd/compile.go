package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pagegrab/pagegrab/internal/assembler"
	"github.com/pagegrab/pagegrab/internal/model"
)

var (
	flagCompileInput   string
	flagCompileOutput  string
	flagCompilePattern string
	flagCompileSort    string
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile captured images into a single lossless PDF",
	Long: `Combine a directory of captured page images into one PDF.

Pages are ordered by the sort policy: 'name' (filename ascending), 'time'
(oldest first), or 'time-desc' (newest first). Each page is sized to the
image's native pixel dimensions at the configured DPI and the image bytes
are embedded without recompression — the output is exactly as lossless as
the captures themselves.

Assembly is all-or-nothing: an unreadable image fails the run and no
output file is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		pattern := cfg.Pattern
		if cmd.Flags().Changed("pattern") {
			pattern = flagCompilePattern
		}
		sortName := cfg.Sort
		if cmd.Flags().Changed("sort") {
			sortName = flagCompileSort
		}
		policy, err := model.ParseSortPolicy(sortName)
		if err != nil {
			return err
		}

		tel := setupTelemetry(ctx, cfg)
		defer tel.Shutdown(ctx)

		fmt.Printf("Compiling %s/%s (%s) into %s...\n", flagCompileInput, pattern, policy, flagCompileOutput)

		a := &assembler.Assembler{Metrics: metricsOf(tel)}
		report, err := a.Assemble(ctx, assembler.Options{
			Dir:        flagCompileInput,
			Pattern:    pattern,
			Sort:       policy,
			OutputPath: flagCompileOutput,
			DPI:        cfg.DPI,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Created %s (%d pages).\n", report.OutputPath, report.PageCount)
		return nil
	},
}

func init() {
	compileCmd.Flags().StringVarP(&flagCompileInput, "input", "i", "", "directory with captured images (required)")
	compileCmd.Flags().StringVarP(&flagCompileOutput, "output", "o", "", "output PDF path (required)")
	compileCmd.Flags().StringVar(&flagCompilePattern, "pattern", "*.jpeg", "filename glob to match")
	compileCmd.Flags().StringVar(&flagCompileSort, "sort", "time", "page order: name, time, time-desc")
	_ = compileCmd.MarkFlagRequired("input")
	_ = compileCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(compileCmd)
}

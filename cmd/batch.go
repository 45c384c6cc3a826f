package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/exifreport/internal/batch"
	"github.com/lehigh-university-libraries/exifreport/internal/models"
	"github.com/lehigh-university-libraries/exifreport/internal/output"
	"github.com/lehigh-university-libraries/exifreport/internal/ui"
)

func newBatchCmd(a *app) *cobra.Command {
	var (
		input       string
		outputPath  string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Report on every image listed in a file",
		Long: `Reads image URLs or paths from a .txt (one per line), .jsonl ({"url": ...})
or .parquet (url column) file and inspects them concurrently.

Results go to a .parquet file (one row per reported field) or a .yaml file
(run config, summary and full reports). Without --output the reports are
printed in the configured output format.`,
		Example: `  # Inspect a list and keep the results as parquet
  exifreport batch -i photos.txt -o exif.parquet

  # Eight downloads at a time, YAML summary
  exifreport batch -i photos.jsonl -o exif.yaml -c 8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("concurrency") {
				a.cfg.Batch.Concurrency = concurrency
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			sources, err := batch.NewLoader(input).Load()
			if err != nil {
				return err
			}
			if len(sources) == 0 {
				return fmt.Errorf("no sources found in %s", input)
			}

			results := batch.Run(cmd.Context(), a.service(), sources, a.cfg.Batch.Concurrency)
			summary := batch.Summarize(results)

			if outputPath != "" {
				if err := batch.Save(outputPath, input, a.cfg.Batch.Concurrency, results); err != nil {
					return err
				}
				slog.Info("Batch results saved", "path", outputPath)
			} else if err := printResults(cmd, a, results); err != nil {
				return err
			}

			slog.Info("Batch complete",
				"total", summary.Total,
				"reported", summary.Reported,
				"no_metadata", summary.NoMetadata,
				"failed", summary.Failed,
			)
			if summary.Failed == summary.Total {
				return fmt.Errorf("all %d sources failed", summary.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "File listing image URLs or paths (.txt, .jsonl, .parquet)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Results file (.parquet or .yaml)")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 4, "Number of images inspected at once (overrides config)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func printResults(cmd *cobra.Command, a *app, results []batch.Result) error {
	writer, err := output.New(cmd.OutOrStdout(), a.cfg.Output.Format, a.cfg.Output.Color)
	if err != nil {
		return err
	}
	writer.SetBanner(len(results) > 1)
	styles := ui.NewStyles(cmd.ErrOrStderr(), a.cfg.Output.Color)

	var reports []*models.Report
	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", r.Source, styles.Paint(styles.Error, r.Error))
			continue
		}
		reports = append(reports, r.Report)
	}
	if len(reports) == 0 {
		return nil
	}
	return writer.Write(reports...)
}

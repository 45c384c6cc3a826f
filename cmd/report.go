package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/exifreport/internal/config"
	"github.com/lehigh-university-libraries/exifreport/internal/inspect"
	"github.com/lehigh-university-libraries/exifreport/internal/models"
	"github.com/lehigh-university-libraries/exifreport/internal/output"
	"github.com/lehigh-university-libraries/exifreport/internal/ui"
)

// Prompt is shown when report runs without arguments
const Prompt = "Image URL (e.g. www.example.com/image.png): "

func newReportCmd(a *app) *cobra.Command {
	var (
		format    string
		noColor   bool
		timeout   string
		userAgent string
	)

	cmd := &cobra.Command{
		Use:   "report [URL|PATH ...]",
		Short: "Print the EXIF report of one or more images",
		Long: `Downloads each image URL (or opens each local file) and prints its EXIF
metadata grouped by category.

With no arguments the image URL is read from standard input.`,
		Example: `  # Report on a remote image, https:// is added when missing
  exifreport report www.example.com/image.jpg

  # Several images as JSON
  exifreport report -f json photo1.jpg photo2.jpg

  # Prompt for the URL
  exifreport report`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if cmd.Flags().Changed("format") {
				cfg.Output.Format = strings.ToLower(format)
			}
			if noColor {
				cfg.Output.Color = false
			}
			if timeout != "" {
				if err := cfg.Fetch.Timeout.UnmarshalText([]byte(timeout)); err != nil {
					return err
				}
			}
			if userAgent != "" {
				cfg.Fetch.UserAgent = userAgent
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			sources := args
			if len(sources) == 0 {
				src, err := promptSource(cmd.InOrStdin(), cmd.OutOrStdout())
				if err != nil {
					return err
				}
				sources = []string{src}
			}

			return runReport(cmd, a, sources)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: "+strings.Join(config.Formats, ", "))
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored text output")
	cmd.Flags().StringVar(&timeout, "timeout", "", "Download timeout, e.g. 10s (default from config)")
	cmd.Flags().StringVar(&userAgent, "user-agent", "", "User-Agent sent with downloads")

	return cmd
}

func promptSource(in io.Reader, out io.Writer) (string, error) {
	if _, err := fmt.Fprint(out, Prompt); err != nil {
		return "", err
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read image URL: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("no image URL given")
	}
	return line, nil
}

func runReport(cmd *cobra.Command, a *app, sources []string) error {
	ctx := cmd.Context()
	svc := a.service()
	stderr := cmd.ErrOrStderr()
	styles := ui.NewStyles(stderr, a.cfg.Output.Color)

	writer, err := output.New(cmd.OutOrStdout(), a.cfg.Output.Format, a.cfg.Output.Color)
	if err != nil {
		return err
	}
	writer.SetBanner(len(sources) > 1)

	var (
		reports []*models.Report
		failed  []string
	)
	for _, src := range sources {
		rep, err := ui.SpinWhile(stderr, "Reading "+src, func() (*models.Report, error) {
			return svc.Inspect(ctx, src)
		})
		if err != nil {
			slog.Debug("Inspection failed", "source", src, "error", err)
			failed = append(failed, inspect.Describe(err))
			continue
		}
		reports = append(reports, rep)
	}

	if len(reports) > 0 {
		if err := writer.Write(reports...); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	switch {
	case len(failed) == 0:
		return nil
	case len(sources) == 1:
		return errors.New(failed[0])
	default:
		for _, msg := range failed {
			fmt.Fprintln(stderr, styles.Paint(styles.Error, msg))
		}
		return fmt.Errorf("%d of %d images failed", len(failed), len(sources))
	}
}

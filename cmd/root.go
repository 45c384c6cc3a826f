package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/exifreport/internal/config"
	"github.com/lehigh-university-libraries/exifreport/internal/exiftags"
	"github.com/lehigh-university-libraries/exifreport/internal/images"
	"github.com/lehigh-university-libraries/exifreport/internal/inspect"
)

// app carries the state shared by every subcommand
type app struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "exifreport",
		Short: "Read EXIF metadata from images and print a categorized report",
		Long: `exifreport downloads or opens an image, extracts its EXIF tags and prints
them grouped into General Informations, Camera Settings, GPS Information,
Miscellaneous, Thumbnail Settings and Additional Information.

Reports can be printed once, served over HTTP, produced in bulk from a list
of sources, or generated as images land in a watched directory.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := a.logLevel
			if level == "" {
				level = os.Getenv("LOG_LEVEL")
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: config.ParseLevel(level),
			})))

			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if err := cfg.ApplyEnv(); err != nil {
				return err
			}
			if cfg.Path != "" {
				slog.Debug("Loaded configuration", "path", cfg.Path)
			}
			a.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a TOML config file")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error (default info, or $LOG_LEVEL)")

	cmd.AddCommand(newReportCmd(a))
	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newBatchCmd(a))
	cmd.AddCommand(newWatchCmd(a))
	cmd.AddCommand(newCatalogCmd())

	return cmd
}

// service builds the inspector from the loaded configuration
func (a *app) service() *inspect.Service {
	fetcher := images.NewFetcher(images.FetchOptions{
		Timeout:   a.cfg.Fetch.Timeout.Duration,
		UserAgent: a.cfg.Fetch.UserAgent,
		MaxBytes:  a.cfg.Fetch.MaxBytes,
	})
	return inspect.NewService(fetcher, images.NewDecoder(), exiftags.Default)
}

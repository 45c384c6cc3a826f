package cmd

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/exifreport/internal/inspect"
	"github.com/lehigh-university-libraries/exifreport/internal/output"
	"github.com/lehigh-university-libraries/exifreport/internal/ui"
	"github.com/lehigh-university-libraries/exifreport/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		recursive  bool
		settle     string
		extensions []string
	)

	cmd := &cobra.Command{
		Use:   "watch [DIR ...]",
		Short: "Print a report for every image written to a directory",
		Long: `Watches directories and prints the EXIF report of each new or modified
image once it has stopped changing.

Directories default to watch.paths from the config file.`,
		Example: `  # Follow a camera import folder
  exifreport watch ~/Pictures/import

  # Include subdirectories, JPEG only
  exifreport watch -r --ext .jpg,.jpeg ~/Pictures`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.cfg.Watch
			if len(args) > 0 {
				opts.Paths = args
			}
			if cmd.Flags().Changed("recursive") {
				opts.Recursive = recursive
			}
			if cmd.Flags().Changed("ext") {
				opts.Extensions = extensions
			}
			if settle != "" {
				if err := opts.Settle.UnmarshalText([]byte(settle)); err != nil {
					return err
				}
			}
			if len(opts.Paths) == 0 {
				return errors.New("no directories to watch: pass them as arguments or set watch.paths")
			}

			writer, err := output.New(cmd.OutOrStdout(), a.cfg.Output.Format, a.cfg.Output.Color)
			if err != nil {
				return err
			}
			stderr := cmd.ErrOrStderr()
			styles := ui.NewStyles(stderr, a.cfg.Output.Color)
			rule := ui.NewStyles(cmd.OutOrStdout(), a.cfg.Output.Color).Rule
			svc := a.service()

			// settle timers fire concurrently
			var mu sync.Mutex
			handle := func(ctx context.Context, path string) error {
				rep, err := svc.InspectFile(ctx, path)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					fmt.Fprintf(stderr, "%s: %s\n", path, styles.Paint(styles.Error, inspect.Describe(err)))
					return nil
				}
				if rule != "" {
					fmt.Fprintln(cmd.OutOrStdout(), rule)
				}
				return writer.Write(rep)
			}

			w, err := watch.New(opts.Paths, watch.Options{
				Extensions: opts.Extensions,
				Settle:     opts.Settle.Duration,
				Recursive:  opts.Recursive,
			}, handle)
			if err != nil {
				return err
			}
			return w.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Also watch subdirectories")
	cmd.Flags().StringVar(&settle, "settle", "", "Quiet period before a file is read, e.g. 1s (default from config)")
	cmd.Flags().StringSliceVar(&extensions, "ext", nil, "File extensions to report on (default from config)")

	return cmd
}

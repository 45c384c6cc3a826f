package batch

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/lehigh-university-libraries/exifreport/internal/inspect"
	"github.com/lehigh-university-libraries/exifreport/internal/models"
)

// Inspector reports on one source
type Inspector interface {
	Inspect(ctx context.Context, source string) (*models.Report, error)
}

// Result is the outcome for one source. Exactly one of Report and Error is
// set.
type Result struct {
	Source string         `yaml:"source"`
	Report *models.Report `yaml:"report,omitempty"`
	Error  string         `yaml:"error,omitempty"`
}

// Summary counts batch outcomes
type Summary struct {
	Total      int `yaml:"total"`
	Reported   int `yaml:"reported"`
	NoMetadata int `yaml:"no_metadata"`
	Failed     int `yaml:"failed"`
}

// Run inspects sources with at most concurrency in flight. Failures are
// recorded per source. Results keep the input order.
func Run(ctx context.Context, inspector Inspector, sources []string, concurrency int) []Result {
	if concurrency < 1 {
		concurrency = 1
	}

	slog.Info("Processing sources", "count", len(sources), "concurrency", concurrency)

	results := make([]Result, len(sources))

	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, src := range sources {
		g.Go(func() error {
			results[i].Source = src

			if err := ctx.Err(); err != nil {
				results[i].Error = inspect.Describe(err)
				return nil
			}

			slog.Info("Processing source", "source", src, "progress", fmt.Sprintf("%d/%d", i+1, len(sources)))

			rep, err := inspector.Inspect(ctx, src)
			if err != nil {
				slog.Warn("Source failed", "source", src, "error", err)
				results[i].Error = inspect.Describe(err)
				return nil
			}
			results[i].Report = rep
			return nil
		})
	}

	_ = g.Wait()

	return results
}

// Summarize counts the outcomes of a run
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Error != "":
			s.Failed++
		case r.Report.NoMetadata:
			s.NoMetadata++
		default:
			s.Reported++
		}
	}
	return s
}

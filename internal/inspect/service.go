package inspect

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/exifreport/internal/exiftags"
	"github.com/lehigh-university-libraries/exifreport/internal/images"
	"github.com/lehigh-university-libraries/exifreport/internal/models"
	"github.com/lehigh-university-libraries/exifreport/internal/report"
)

// Fetcher downloads image bytes
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Decoder opens image bytes and extracts their EXIF tags
type Decoder interface {
	Decode(data []byte) (*images.Decoded, error)
}

// Service turns image sources into reports. It is safe for concurrent use.
type Service struct {
	fetcher Fetcher
	decoder Decoder
	catalog *exiftags.Catalog
	now     func() time.Time
}

// NewService creates an inspector. A nil catalog selects exiftags.Default.
func NewService(fetcher Fetcher, decoder Decoder, catalog *exiftags.Catalog) *Service {
	if catalog == nil {
		catalog = exiftags.Default
	}
	return &Service{
		fetcher: fetcher,
		decoder: decoder,
		catalog: catalog,
		now:     time.Now,
	}
}

// Inspect reports on source, read from disk when it names an existing file
// and downloaded otherwise.
func (s *Service) Inspect(ctx context.Context, source string) (*models.Report, error) {
	if IsLocal(source) {
		return s.InspectFile(ctx, source)
	}
	return s.InspectURL(ctx, source)
}

// InspectURL downloads the image at url and reports on it
func (s *Service) InspectURL(ctx context.Context, url string) (*models.Report, error) {
	data, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return s.InspectBytes(url, data)
}

// InspectFile reads the image at path and reports on it
func (s *Service) InspectFile(ctx context.Context, path string) (*models.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}
	return s.InspectBytes(path, data)
}

// InspectBytes reports on an image already in memory
func (s *Service) InspectBytes(source string, data []byte) (*models.Report, error) {
	decoded, err := s.decoder.Decode(data)
	if err != nil {
		return nil, err
	}

	sum := md5.Sum(data)
	rep := Build(decoded.Tags, s.catalog)
	rep.ID = hex.EncodeToString(sum[:])
	rep.Source = source
	rep.Format = decoded.Format
	rep.Width = decoded.Width
	rep.Height = decoded.Height
	rep.CreatedAt = s.now().UTC()

	slog.Debug("Generated report",
		"source", source,
		"id", rep.ID,
		"format", rep.Format,
		"fields", rep.FieldCount(),
	)

	return rep, nil
}

// Build converts a tag map into a report body
func Build(tags exiftags.Map, catalog *exiftags.Catalog) *models.Report {
	res := report.Collect(tags, catalog)

	rep := &models.Report{
		NoMetadata: res.NoMetadata,
		Notice:     res.Notice,
		Categories: make([]models.Category, 0, len(res.Categories)),
	}
	for _, cat := range res.Categories {
		mc := models.Category{
			Name:   cat.Name,
			Fields: make([]models.Field, 0, len(cat.Fields)),
		}
		for _, f := range cat.Fields {
			mc.Fields = append(mc.Fields, models.Field{Name: f.Field, Tag: f.Tag, Value: f.Value})
		}
		rep.Categories = append(rep.Categories, mc)
	}
	return rep
}

// IsLocal reports whether source should be read from disk
func IsLocal(source string) bool {
	if strings.Contains(source, "://") {
		return false
	}
	info, err := os.Stat(source)
	return err == nil && !info.IsDir()
}

// Describe renders an inspection failure as a single user-facing message
func Describe(err error) string {
	var (
		fe *images.FetchError
		de *images.DecodeError
		pe *fs.PathError
	)
	switch {
	case errors.As(err, &fe):
		return "Error downloading the image: " + fe.Error()
	case errors.As(err, &de):
		return "Error opening the image: " + de.Error()
	case errors.As(err, &pe):
		return "Error opening the image: " + pe.Error()
	default:
		return "Unexpected error: " + err.Error()
	}
}

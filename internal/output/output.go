package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/exifreport/internal/models"
	"github.com/lehigh-university-libraries/exifreport/internal/report"
	"github.com/lehigh-university-libraries/exifreport/internal/ui"
)

// Writer renders reports in one of the supported formats
type Writer struct {
	out    io.Writer
	format string
	styles ui.Styles
	banner bool
}

// New creates a writer for format (text, json, yaml or csv)
func New(w io.Writer, format string, color bool) (*Writer, error) {
	switch format {
	case "text", "json", "yaml", "csv":
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	return &Writer{
		out:    w,
		format: format,
		styles: ui.NewStyles(w, color),
	}, nil
}

// SetBanner makes text output name the source of every report, even when
// only one is written. Callers reporting on several sources set it so a
// failed source does not drop the banners of the others.
func (w *Writer) SetBanner(on bool) {
	w.banner = on
}

// Write renders reports to the underlying writer
func (w *Writer) Write(reports ...*models.Report) error {
	switch w.format {
	case "json":
		return writeJSON(w.out, reports)
	case "yaml":
		return writeYAML(w.out, reports)
	case "csv":
		return writeCSV(w.out, reports)
	default:
		return w.writeText(reports)
	}
}

func (w *Writer) writeText(reports []*models.Report) error {
	banner := w.banner || len(reports) > 1
	for i, rep := range reports {
		if banner {
			if i > 0 {
				if _, err := fmt.Fprintln(w.out); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w.out, "==> %s <==\n", rep.Source); err != nil {
				return err
			}
		}
		if err := Text(w.out, rep, w.styles); err != nil {
			return err
		}
	}
	return nil
}

// Text writes rep in the report text layout, painted with s
func Text(out io.Writer, rep *models.Report, s ui.Styles) error {
	style := report.Style{
		Header: func(t string) string { return s.Paint(s.Header, t) },
		Field:  func(t string) string { return s.Paint(s.Field, t) },
		Notice: func(t string) string { return s.Paint(s.Notice, t) },
	}
	for line := range report.Text(report.Replay(rep), style) {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}

// PlainText renders rep without any styling
func PlainText(rep *models.Report) string {
	var b strings.Builder
	_ = Text(&b, rep, ui.NewStyles(&b, false))
	return b.String()
}

func writeJSON(out io.Writer, reports []*models.Report) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if len(reports) == 1 {
		return encoder.Encode(reports[0])
	}
	return encoder.Encode(reports)
}

func writeYAML(out io.Writer, reports []*models.Report) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	for _, rep := range reports {
		if err := encoder.Encode(rep); err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
	}
	return encoder.Close()
}

// CSVHeader is the column layout of the csv format
var CSVHeader = []string{"source", "category", "field", "tag", "value"}

func writeCSV(out io.Writer, reports []*models.Report) error {
	writer := csv.NewWriter(out)

	if err := writer.Write(CSVHeader); err != nil {
		return err
	}

	for _, rep := range reports {
		if rep.NoMetadata {
			if err := writer.Write([]string{rep.Source, "", "", "", rep.Notice}); err != nil {
				return err
			}
			continue
		}
		for _, cat := range rep.Categories {
			for _, f := range cat.Fields {
				row := []string{rep.Source, cat.Name, f.Name, strconv.Itoa(int(f.Tag)), f.Value}
				if err := writer.Write(row); err != nil {
					return err
				}
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// Row is one line of the parquet output: a reported field, or the single
// notice or error row of a source without fields.
type Row struct {
	Source     string `parquet:"source"`
	ReportID   string `parquet:"report_id"`
	Format     string `parquet:"format"`
	Category   string `parquet:"category"`
	Field      string `parquet:"field"`
	Tag        int32  `parquet:"tag"`
	Value      string `parquet:"value"`
	NoMetadata bool   `parquet:"no_metadata"`
	Error      string `parquet:"error"`
}

// Rows flattens results into parquet rows
func Rows(results []Result) []Row {
	var rows []Row
	for _, r := range results {
		if r.Error != "" {
			rows = append(rows, Row{Source: r.Source, Error: r.Error})
			continue
		}

		rep := r.Report
		if rep.NoMetadata {
			rows = append(rows, Row{
				Source:     r.Source,
				ReportID:   rep.ID,
				Format:     rep.Format,
				Value:      rep.Notice,
				NoMetadata: true,
			})
			continue
		}

		for _, cat := range rep.Categories {
			for _, f := range cat.Fields {
				rows = append(rows, Row{
					Source:   r.Source,
					ReportID: rep.ID,
					Format:   rep.Format,
					Category: cat.Name,
					Field:    f.Name,
					Tag:      int32(f.Tag),
					Value:    f.Value,
				})
			}
		}
	}
	return rows
}

// Document is the file written by the yaml output
type Document struct {
	Config struct {
		Input       string `yaml:"input"`
		Concurrency int    `yaml:"concurrency"`
		Timestamp   string `yaml:"timestamp"`
	} `yaml:"config"`
	Summary Summary  `yaml:"summary"`
	Results []Result `yaml:"results"`
}

// Save writes results to path, choosing the format from its extension
func Save(path, input string, concurrency int, results []Result) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".parquet":
		return SaveParquet(path, results)
	case ".yaml", ".yml":
		return SaveYAML(path, input, concurrency, results)
	default:
		return fmt.Errorf("unsupported output format: %s (supported: .parquet, .yaml)", ext)
	}
}

// SaveParquet writes one row per reported field
func SaveParquet(path string, results []Result) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}

	writer := parquet.NewGenericWriter[Row](file)
	if _, err := writer.Write(Rows(results)); err != nil {
		file.Close()
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		file.Close()
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return file.Close()
}

// SaveYAML writes the run configuration, summary and every result
func SaveYAML(path, input string, concurrency int, results []Result) error {
	var doc Document
	doc.Config.Input = input
	doc.Config.Concurrency = concurrency
	doc.Config.Timestamp = time.Now().Format("2006-01-02_15-04-05")
	doc.Summary = Summarize(results)
	doc.Results = results

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}
	return nil
}

package batch

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// Source is one input row naming an image URL or path
type Source struct {
	URL string `json:"url" parquet:"url"`
}

// Loader reads batch sources from a file
type Loader struct {
	path string
}

// NewLoader creates a new source loader
func NewLoader(path string) *Loader {
	return &Loader{
		path: path,
	}
}

// Load reads sources from a text, JSONL or Parquet file
func (l *Loader) Load() ([]string, error) {
	ext := strings.ToLower(filepath.Ext(l.path))

	var (
		sources []string
		err     error
	)
	switch ext {
	case ".parquet":
		sources, err = l.loadParquet()
	case ".jsonl", ".json":
		sources, err = l.loadJSONL()
	case ".txt", ".list", "":
		sources, err = l.loadText()
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .txt, .jsonl, .parquet)", ext)
	}
	if err != nil {
		return nil, err
	}

	slog.Debug("Loaded batch sources", "path", l.path, "count", len(sources))
	return sources, nil
}

// loadText reads one source per line, skipping blanks and # comments
func (l *Loader) loadText() ([]string, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}
	defer file.Close()

	var sources []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sources = append(sources, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading sources: %w", err)
	}
	return sources, nil
}

func (l *Loader) loadJSONL() ([]string, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}
	defer file.Close()

	var sources []string
	scanner := bufio.NewScanner(file)

	const maxCapacity = 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var src Source
		if err := json.Unmarshal(line, &src); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		if src.URL == "" {
			return nil, fmt.Errorf("line %d has no url", lineNum)
		}
		sources = append(sources, src.URL)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading sources: %w", err)
	}
	return sources, nil
}

func (l *Loader) loadParquet() ([]string, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet file opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[Source](pf)
	defer reader.Close()

	var sources []string
	rows := make([]Source, 128)
	for {
		n, err := reader.Read(rows)
		for _, r := range rows[:n] {
			if u := strings.TrimSpace(r.URL); u != "" {
				sources = append(sources, u)
			}
		}
		if err != nil {
			break
		}
	}

	return sources, nil
}

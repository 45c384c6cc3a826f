package report

import "github.com/lehigh-university-libraries/exifreport/internal/exiftags"

// CategoryReport holds the present fields of one category
type CategoryReport struct {
	Name   string
	Fields []Line
}

// Result is a materialized report walk
type Result struct {
	NoMetadata bool
	Notice     string
	Categories []CategoryReport
}

// Collect runs Lines to completion and groups the fields by category
func Collect(raw exiftags.Map, catalog *exiftags.Catalog) Result {
	var res Result
	for line := range Lines(raw, catalog) {
		switch line.Kind {
		case Notice:
			res.NoMetadata = true
			res.Notice = line.Value
		case Header:
			res.Categories = append(res.Categories, CategoryReport{Name: line.Category})
		case FieldLine:
			last := &res.Categories[len(res.Categories)-1]
			last.Fields = append(last.Fields, line)
		}
	}
	return res
}

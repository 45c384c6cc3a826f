package report

import (
	"iter"
	"strings"

	"github.com/lehigh-university-libraries/exifreport/internal/exiftags"
	"github.com/lehigh-university-libraries/exifreport/internal/models"
)

// NoMetadataNotice is the only line produced for an image without EXIF data
const NoMetadataNotice = "No EXIF data found in the image. " +
	"Note that if the photo is from social media platforms, " +
	"they often remove EXIF data during the upload process " +
	"for privacy and data compression reasons."

// LineKind distinguishes the lines of a report
type LineKind uint8

const (
	// Notice is the no-metadata explanation
	Notice LineKind = iota + 1
	// Header opens a category
	Header
	// FieldLine is one present tag
	FieldLine
)

// Line is one element of a report walk
type Line struct {
	Kind     LineKind
	Category string
	Field    string
	Tag      uint16
	Value    string
}

// Lines walks the catalog over raw and yields the report lines in order.
// Categories without any present tag produce nothing.
func Lines(raw exiftags.Map, catalog *exiftags.Catalog) iter.Seq[Line] {
	return func(yield func(Line) bool) {
		if len(raw) == 0 {
			yield(Line{Kind: Notice, Value: NoMetadataNotice})
			return
		}

		for _, category := range catalog.Categories() {
			fields := catalog.FieldsOf(category)
			if !anyPresent(raw, fields) {
				continue
			}

			if !yield(Line{Kind: Header, Category: category}) {
				return
			}

			for _, f := range fields {
				v, ok := raw[f.Tag]
				if !ok {
					continue
				}
				line := Line{
					Kind:     FieldLine,
					Category: category,
					Field:    f.Name,
					Tag:      f.Tag,
					Value:    exiftags.Normalize(v),
				}
				if !yield(line) {
					return
				}
			}
		}
	}
}

// Replay walks an already built report, yielding the lines Lines produced
// for it.
func Replay(rep *models.Report) iter.Seq[Line] {
	return func(yield func(Line) bool) {
		if rep.NoMetadata {
			yield(Line{Kind: Notice, Value: rep.Notice})
			return
		}

		for _, cat := range rep.Categories {
			if !yield(Line{Kind: Header, Category: cat.Name}) {
				return
			}
			for _, f := range cat.Fields {
				line := Line{
					Kind:     FieldLine,
					Category: cat.Name,
					Field:    f.Name,
					Tag:      f.Tag,
					Value:    f.Value,
				}
				if !yield(line) {
					return
				}
			}
		}
	}
}

// Style decorates parts of the text layout. Nil functions leave their part
// unchanged; field values are never decorated.
type Style struct {
	Header func(string) string
	Field  func(string) string
	Notice func(string) string
}

func apply(f func(string) string, s string) string {
	if f == nil {
		return s
	}
	return f(s)
}

// Text lays lines out for display: upper-cased headers, fields indented by
// two spaces as "Field: value" and a blank line between categories.
func Text(lines iter.Seq[Line], style Style) iter.Seq[string] {
	return func(yield func(string) bool) {
		first := true
		for line := range lines {
			var text string
			switch line.Kind {
			case Header:
				if !first && !yield("") {
					return
				}
				first = false
				text = apply(style.Header, strings.ToUpper(line.Category))
			case FieldLine:
				text = "  " + apply(style.Field, line.Field) + ": " + line.Value
			default:
				text = apply(style.Notice, line.Value)
			}
			if !yield(text) {
				return
			}
		}
	}
}

func anyPresent(raw exiftags.Map, fields []exiftags.Field) bool {
	for _, f := range fields {
		if _, ok := raw[f.Tag]; ok {
			return true
		}
	}
	return false
}

package models

import "time"

// Report is the EXIF report of one image
type Report struct {
	ID         string     `json:"id" yaml:"id"`
	Source     string     `json:"source" yaml:"source"`
	Format     string     `json:"format" yaml:"format"`
	Width      int        `json:"width" yaml:"width"`
	Height     int        `json:"height" yaml:"height"`
	NoMetadata bool       `json:"no_metadata" yaml:"no_metadata"`
	Notice     string     `json:"notice,omitempty" yaml:"notice,omitempty"`
	Categories []Category `json:"categories" yaml:"categories"`
	CreatedAt  time.Time  `json:"created_at" yaml:"created_at"`
}

// Category is one section of a report
type Category struct {
	Name   string  `json:"name" yaml:"name"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// Field is one present tag with its normalized value
type Field struct {
	Name  string `json:"name" yaml:"name"`
	Tag   uint16 `json:"tag" yaml:"tag"`
	Value string `json:"value" yaml:"value"`
}

// FieldCount returns the number of fields across all categories
func (r *Report) FieldCount() int {
	n := 0
	for _, c := range r.Categories {
		n += len(c.Fields)
	}
	return n
}

package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/exifreport/internal/exiftags"
	"github.com/lehigh-university-libraries/exifreport/internal/inspect"
	"github.com/lehigh-university-libraries/exifreport/internal/models"
	"github.com/lehigh-university-libraries/exifreport/internal/report"
)

func sampleTags() exiftags.Map {
	return exiftags.Map{
		271:   exiftags.String("Canon"),
		272:   exiftags.String("EOS 90D"),
		33434: exiftags.Rat(1, 200),
		1:     exiftags.String("N"),
	}
}

func sampleReport(source string) *models.Report {
	rep := inspect.Build(sampleTags(), exiftags.Default)
	rep.ID = "0123456789abcdef0123456789abcdef"
	rep.Source = source
	rep.Format = "jpeg"
	rep.Width, rep.Height = 4, 3
	rep.CreatedAt = time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	return rep
}

func TestTextMatchesReportLines(t *testing.T) {
	var buf bytes.Buffer
	w, err := New(&buf, "text", true)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, w.Write(sampleReport("a.jpg")), qt.IsNil)

	var want strings.Builder
	for line := range report.Text(report.Lines(sampleTags(), exiftags.Default), report.Style{}) {
		want.WriteString(line + "\n")
	}

	if diff := cmp.Diff(want.String(), buf.String()); diff != "" {
		t.Errorf("text output mismatch (-want +got):\n%s", diff)
	}
}

func TestTextNoMetadata(t *testing.T) {
	rep := inspect.Build(nil, exiftags.Default)
	qt.Assert(t, PlainText(rep), qt.Equals, report.NoMetadataNotice+"\n")
}

func TestTextBannerForSingleReport(t *testing.T) {
	c := qt.New(t)

	var buf bytes.Buffer
	w, err := New(&buf, "text", false)
	c.Assert(err, qt.IsNil)
	c.Assert(w.Write(sampleReport("a.jpg")), qt.IsNil)
	c.Assert(buf.String(), qt.Not(qt.Contains), "==>")

	buf.Reset()
	w.SetBanner(true)
	c.Assert(w.Write(sampleReport("a.jpg")), qt.IsNil)
	c.Assert(strings.HasPrefix(buf.String(), "==> a.jpg <==\nGENERAL INFORMATIONS\n"), qt.IsTrue)
}

func TestTextMultipleReports(t *testing.T) {
	c := qt.New(t)

	var buf bytes.Buffer
	w, err := New(&buf, "text", false)
	c.Assert(err, qt.IsNil)
	c.Assert(w.Write(sampleReport("a.jpg"), inspect.Build(nil, exiftags.Default)), qt.IsNil)

	out := buf.String()
	c.Assert(strings.HasPrefix(out, "==> a.jpg <==\nGENERAL INFORMATIONS\n"), qt.IsTrue)
	c.Assert(out, qt.Contains, "\n\n==>  <==\n"+report.NoMetadataNotice+"\n")
}

func TestJSON(t *testing.T) {
	c := qt.New(t)

	var buf bytes.Buffer
	w, err := New(&buf, "json", false)
	c.Assert(err, qt.IsNil)
	c.Assert(w.Write(sampleReport("a.jpg")), qt.IsNil)

	var got models.Report
	c.Assert(json.Unmarshal(buf.Bytes(), &got), qt.IsNil)
	c.Assert(got.Source, qt.Equals, "a.jpg")
	c.Assert(got.Categories[0].Fields[0], qt.DeepEquals, models.Field{Name: "Make", Tag: 271, Value: "Canon"})

	buf.Reset()
	c.Assert(w.Write(sampleReport("a.jpg"), sampleReport("b.jpg")), qt.IsNil)
	var list []models.Report
	c.Assert(json.Unmarshal(buf.Bytes(), &list), qt.IsNil)
	c.Assert(list, qt.HasLen, 2)
}

func TestYAML(t *testing.T) {
	c := qt.New(t)

	var buf bytes.Buffer
	w, err := New(&buf, "yaml", false)
	c.Assert(err, qt.IsNil)
	c.Assert(w.Write(sampleReport("a.jpg"), sampleReport("b.jpg")), qt.IsNil)

	dec := yaml.NewDecoder(&buf)
	var sources []string
	for {
		var rep models.Report
		if err := dec.Decode(&rep); err != nil {
			break
		}
		sources = append(sources, rep.Source)
	}
	c.Assert(sources, qt.DeepEquals, []string{"a.jpg", "b.jpg"})
}

func TestCSV(t *testing.T) {
	c := qt.New(t)

	var buf bytes.Buffer
	w, err := New(&buf, "csv", false)
	c.Assert(err, qt.IsNil)

	empty := inspect.Build(nil, exiftags.Default)
	empty.Source = "plain.jpg"
	c.Assert(w.Write(sampleReport("a.jpg"), empty), qt.IsNil)

	rows, err := csv.NewReader(&buf).ReadAll()
	c.Assert(err, qt.IsNil)
	c.Assert(rows[0], qt.DeepEquals, CSVHeader)
	c.Assert(rows[1], qt.DeepEquals, []string{"a.jpg", exiftags.GeneralInformation, "Make", "271", "Canon"})
	c.Assert(rows[len(rows)-1], qt.DeepEquals, []string{"plain.jpg", "", "", "", report.NoMetadataNotice})
	// header, 2 general, 1 camera, 1 gps, 2 thumbnail, 1 additional, notice
	c.Assert(rows, qt.HasLen, 9)
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "xml", false)
	qt.Assert(t, err, qt.ErrorMatches, "unsupported format: xml")
}

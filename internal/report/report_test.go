package report

import (
	"slices"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/go-cmp/cmp"

	"github.com/lehigh-university-libraries/exifreport/internal/exiftags"
	"github.com/lehigh-university-libraries/exifreport/internal/models"
)

func textOf(raw exiftags.Map) []string {
	return slices.Collect(Text(Lines(raw, exiftags.Default), Style{}))
}

func headers(lines []string) []string {
	var out []string
	for _, l := range lines {
		if l != "" && !strings.HasPrefix(l, " ") {
			out = append(out, l)
		}
	}
	return out
}

func TestMakeAndModel(t *testing.T) {
	c := qt.New(t)

	raw := exiftags.Map{
		271: exiftags.Bytes([]byte("Canon")),
		272: exiftags.Bytes([]byte("EOS 90D")),
	}

	got := textOf(raw)

	// 271 and 272 are also thumbnail ids, so both categories report them
	want := []string{
		"GENERAL INFORMATIONS",
		"  Make: Canon",
		"  Model: EOS 90D",
		"",
		"THUMBNAIL SETTINGS",
		"  ThumbnailMake: Canon",
		"  ThumbnailModel: EOS 90D",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}

	c.Assert(got, qt.Not(qt.Contains), "CAMERA SETTINGS")
	c.Assert(got, qt.Not(qt.Contains), "GPS INFORMATION")
}

func TestEmptyMap(t *testing.T) {
	tests := []struct {
		name string
		raw  exiftags.Map
	}{
		{"nil map", nil},
		{"empty map", exiftags.Map{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qt.Assert(t, textOf(tt.raw), qt.DeepEquals, []string{NoMetadataNotice})
		})
	}
}

func TestExposureTime(t *testing.T) {
	got := textOf(exiftags.Map{33434: exiftags.Rat(1, 200)})

	qt.Assert(t, got, qt.DeepEquals, []string{
		"CAMERA SETTINGS",
		"  ExposureTime: 1/200",
	})
}

func TestUndecodableMakerNote(t *testing.T) {
	c := qt.New(t)

	got := textOf(exiftags.Map{37500: exiftags.Bytes([]byte{0xff, 0xfe, 0x00, 0x01})})

	c.Assert(got, qt.HasLen, 2)
	c.Assert(got[0], qt.Equals, "CAMERA SETTINGS")
	c.Assert(got[1], qt.Equals, `  MakerNote: "\xff\xfe\x00\x01"`)
}

func TestCategoryOrderAndFieldOrder(t *testing.T) {
	c := qt.New(t)

	// inserted out of catalog order on purpose
	raw := exiftags.Map{
		42016: exiftags.String("abc123"),
		4:     exiftags.Rats(exiftags.Rational{Num: 2, Den: 1}, exiftags.Rational{Num: 10, Den: 1}, exiftags.Rational{Num: 0, Den: 1}),
		2:     exiftags.Rats(exiftags.Rational{Num: 48, Den: 1}, exiftags.Rational{Num: 51, Den: 1}, exiftags.Rational{Num: 30, Den: 1}),
		37386: exiftags.Rat(50, 1),
		33437: exiftags.Rat(28, 10),
	}

	got := textOf(raw)

	c.Assert(headers(got), qt.DeepEquals, []string{
		"CAMERA SETTINGS",
		"GPS INFORMATION",
		"MISCELLANEOUS INFORMATION",
		"ADDITIONAL INFORMATION",
	})

	want := []string{
		"CAMERA SETTINGS",
		"  FNumber: 28/10",
		"  FocalLength: 50/1",
		"",
		"GPS INFORMATION",
		"  GPSLatitude: 48/1, 51/1, 30/1",
		"  GPSLongitude: 2/1, 10/1, 0/1",
		"",
		"MISCELLANEOUS INFORMATION",
		"  ImageUniqueID: abc123",
		"",
		"ADDITIONAL INFORMATION",
		"  InteroperabilityVersion: 48/1, 51/1, 30/1",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestDisjointCategoriesProduceNothing(t *testing.T) {
	c := qt.New(t)

	raw := exiftags.Map{
		// ids not present in any category
		50000: exiftags.Int(1),
		50001: exiftags.String("ignored"),
	}

	got := slices.Collect(Lines(raw, exiftags.Default))
	c.Assert(got, qt.HasLen, 0)
}

func TestFieldLineFormat(t *testing.T) {
	raw := exiftags.Map{
		274:   exiftags.Int(1),
		34855: exiftags.Ints(100, 200),
		37510: exiftags.Bytes([]byte("hello")),
	}

	for line := range Lines(raw, exiftags.Default) {
		if line.Kind != FieldLine {
			continue
		}
		want := "  " + line.Field + ": " + exiftags.Normalize(raw[line.Tag])
		got := slices.Collect(Text(slices.Values([]Line{line}), Style{}))
		qt.Assert(t, got, qt.DeepEquals, []string{want})
	}
}

func TestIdempotent(t *testing.T) {
	raw := exiftags.Map{
		271:   exiftags.String("Canon"),
		33434: exiftags.Rat(1, 60),
		0:     exiftags.Ints(2, 3, 0, 0),
		37500: exiftags.Bytes([]byte{0x00, 0xff}),
	}

	first := strings.Join(textOf(raw), "\n")
	second := strings.Join(textOf(raw), "\n")

	qt.Assert(t, second, qt.Equals, first)
}

func TestEarlyStop(t *testing.T) {
	raw := exiftags.Map{
		271:   exiftags.String("Canon"),
		33434: exiftags.Rat(1, 60),
	}

	var n int
	for range Lines(raw, exiftags.Default) {
		n++
		if n == 2 {
			break
		}
	}
	qt.Assert(t, n, qt.Equals, 2)
}

func TestCustomCatalog(t *testing.T) {
	catalog := exiftags.MustNew(
		exiftags.Category{Name: "Lens", Fields: []exiftags.Field{{Name: "LensModel", Tag: 42036}}},
		exiftags.Category{Name: "Body", Fields: []exiftags.Field{{Name: "Model", Tag: 272}}},
	)

	got := slices.Collect(Text(Lines(exiftags.Map{272: exiftags.String("X-T4")}, catalog), Style{}))

	qt.Assert(t, got, qt.DeepEquals, []string{"BODY", "  Model: X-T4"})
}

func TestCollect(t *testing.T) {
	c := qt.New(t)

	raw := exiftags.Map{
		271:   exiftags.String("Canon"),
		33434: exiftags.Rat(1, 200),
	}

	res := Collect(raw, exiftags.Default)

	c.Assert(res.NoMetadata, qt.IsFalse)
	c.Assert(res.Categories, qt.HasLen, 3)
	c.Assert(res.Categories[0].Name, qt.Equals, exiftags.GeneralInformation)
	c.Assert(res.Categories[1].Name, qt.Equals, exiftags.CameraSettings)
	c.Assert(res.Categories[2].Name, qt.Equals, exiftags.ThumbnailSettings)
	c.Assert(res.Categories[1].Fields[0].Value, qt.Equals, "1/200")
	c.Assert(res.Categories[0].Fields, qt.HasLen, 1)
	c.Assert(res.Categories[2].Fields, qt.HasLen, 1)
}

func TestCollectNoMetadata(t *testing.T) {
	c := qt.New(t)

	res := Collect(nil, exiftags.Default)

	c.Assert(res.NoMetadata, qt.IsTrue)
	c.Assert(res.Notice, qt.Equals, NoMetadataNotice)
	c.Assert(res.Categories, qt.HasLen, 0)
}

func TestReplayRendersLikeLines(t *testing.T) {
	raw := exiftags.Map{
		271:   exiftags.String("Canon"),
		33434: exiftags.Rat(1, 200),
		1:     exiftags.String("N"),
	}

	res := Collect(raw, exiftags.Default)
	rep := &models.Report{}
	for _, cat := range res.Categories {
		mc := models.Category{Name: cat.Name}
		for _, f := range cat.Fields {
			mc.Fields = append(mc.Fields, models.Field{Name: f.Field, Tag: f.Tag, Value: f.Value})
		}
		rep.Categories = append(rep.Categories, mc)
	}

	if diff := cmp.Diff(textOf(raw), slices.Collect(Text(Replay(rep), Style{}))); diff != "" {
		t.Errorf("replayed text mismatch (-want +got):\n%s", diff)
	}

	empty := &models.Report{NoMetadata: true, Notice: NoMetadataNotice}
	qt.Assert(t, slices.Collect(Text(Replay(empty), Style{})), qt.DeepEquals, []string{NoMetadataNotice})
}

func TestTextStyle(t *testing.T) {
	wrap := func(s string) string { return "<" + s + ">" }
	got := slices.Collect(Text(Lines(exiftags.Map{271: exiftags.String("Canon")}, exiftags.Default), Style{Header: wrap, Field: wrap}))
	qt.Assert(t, got[0], qt.Equals, "<GENERAL INFORMATIONS>")
	qt.Assert(t, got[1], qt.Equals, "  <Make>: Canon")
}

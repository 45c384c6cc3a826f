package images

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/png"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/go-cmp/cmp"

	"github.com/lehigh-university-libraries/exifreport/internal/exiftags"
	"github.com/lehigh-university-libraries/exifreport/internal/images/jpegtest"
)

var valueEquals = qt.CmpEquals(cmp.AllowUnexported(exiftags.Value{}))

func TestDecodeSample(t *testing.T) {
	c := qt.New(t)

	d, err := NewDecoder().Decode(jpegtest.Sample())
	c.Assert(err, qt.IsNil)

	c.Assert(d.Format, qt.Equals, "jpeg")
	c.Assert(d.Width, qt.Equals, 4)
	c.Assert(d.Height, qt.Equals, 3)

	want := map[uint16]string{
		271:   "Canon",
		272:   "EOS 90D",
		274:   "1",
		33434: "1/200",
		33437: "28/10",
		34855: "400",
	}
	for id, value := range want {
		v, ok := d.Tags[id]
		c.Assert(ok, qt.IsTrue, qt.Commentf("tag %d missing", id))
		c.Assert(exiftags.Normalize(v), qt.Equals, value, qt.Commentf("tag %d", id))
	}
}

func TestDecodeValueKinds(t *testing.T) {
	c := qt.New(t)

	l := jpegtest.Layout{
		IFD0: []jpegtest.Entry{
			jpegtest.ASCII(305, "darktable 4.6"),
			jpegtest.Short(530, 2, 1),
			jpegtest.Rational(282, 72, 1),
		},
		Exif: []jpegtest.Entry{
			jpegtest.Undefined(36864, []byte("0232")),
			jpegtest.Undefined(37500, []byte{0xff, 0xfe, 0x00, 0x01, 0x02}),
		},
	}
	d, err := NewDecoder().Decode(jpegtest.WithEXIF(jpegtest.JPEG(2, 2), l.TIFF()))
	c.Assert(err, qt.IsNil)

	want := exiftags.Map{
		305:   exiftags.String("darktable 4.6"),
		530:   exiftags.Ints(2, 1),
		282:   exiftags.Rat(72, 1),
		36864: exiftags.Bytes([]byte("0232")),
		37500: exiftags.Bytes([]byte{0xff, 0xfe, 0x00, 0x01, 0x02}),
	}
	for id, v := range want {
		c.Assert(d.Tags[id], valueEquals, v, qt.Commentf("tag %d", id))
	}

	c.Assert(exiftags.Normalize(d.Tags[530]), qt.Equals, "2, 1")
	c.Assert(exiftags.Normalize(d.Tags[37500]), qt.Equals, `"\xff\xfe\x00\x01\x02"`)
}

func TestDecodeGPSWinsOverInterop(t *testing.T) {
	c := qt.New(t)

	l := jpegtest.Layout{
		IFD0: []jpegtest.Entry{jpegtest.ASCII(271, "Canon")},
		Exif: []jpegtest.Entry{jpegtest.Rational(33434, 1, 60)},
		GPS: []jpegtest.Entry{
			jpegtest.ASCII(1, "N"),
			jpegtest.Rational(2, 48, 1, 51, 1, 30, 1),
		},
		Interop: []jpegtest.Entry{
			jpegtest.ASCII(1, "R98"),
		},
	}
	data := jpegtest.WithEXIF(jpegtest.JPEG(2, 2), l.TIFF())

	d, err := NewDecoder().Decode(data)
	c.Assert(err, qt.IsNil)
	c.Assert(exiftags.Normalize(d.Tags[1]), qt.Equals, "N")
	c.Assert(d.Tags[2], valueEquals, exiftags.Rats(
		exiftags.Rational{Num: 48, Den: 1},
		exiftags.Rational{Num: 51, Den: 1},
		exiftags.Rational{Num: 30, Den: 1},
	))
	c.Assert(exiftags.Normalize(d.Tags[2]), qt.Equals, "48/1, 51/1, 30/1")
}

func TestDecodeWithoutExif(t *testing.T) {
	c := qt.New(t)

	d, err := NewDecoder().Decode(jpegtest.JPEG(8, 8))
	c.Assert(err, qt.IsNil)
	c.Assert(d.Format, qt.Equals, "jpeg")
	c.Assert(d.Tags, qt.HasLen, 0)
}

func TestDecodePNG(t *testing.T) {
	c := qt.New(t)

	var buf bytes.Buffer
	c.Assert(png.Encode(&buf, image.NewGray(image.Rect(0, 0, 5, 7))), qt.IsNil)

	d, err := NewDecoder().Decode(buf.Bytes())
	c.Assert(err, qt.IsNil)
	c.Assert(d.Format, qt.Equals, "png")
	c.Assert(d.Width, qt.Equals, 5)
	c.Assert(d.Height, qt.Equals, 7)
	c.Assert(d.Tags, qt.HasLen, 0)
}

func TestDecodeBrokenExifBlock(t *testing.T) {
	c := qt.New(t)

	data := jpegtest.WithEXIF(jpegtest.JPEG(2, 2), []byte("II*\x00\xff\xff\xff\xff"))

	d, err := NewDecoder().Decode(data)
	c.Assert(err, qt.IsNil)
	c.Assert(d.Tags, qt.HasLen, 0)
}

func TestDecodeNotAnImage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"text", []byte("this is not an image")},
		{"html", []byte("<!doctype html><html><body>404</body></html>")},
		{"truncated jpeg header", []byte{0xff, 0xd8, 0xff}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			_, err := NewDecoder().Decode(tt.data)
			c.Assert(err, qt.IsNotNil)

			var de *DecodeError
			c.Assert(errors.As(err, &de), qt.IsTrue)
		})
	}
}

func TestDecodeTagsOutsideGoexifTables(t *testing.T) {
	c := qt.New(t)

	l := jpegtest.Layout{
		IFD0: []jpegtest.Entry{
			jpegtest.ASCII(271, "Canon"),
			jpegtest.Long(278, 3),
			jpegtest.Rational(318, 313, 1000, 329, 1000),
		},
		Exif: []jpegtest.Entry{
			jpegtest.ASCII(42032, "Jane Doe"),
			jpegtest.ASCII(42033, "025021001234"),
			jpegtest.Rational(42034, 18, 1, 55, 1, 35, 10, 56, 10),
			jpegtest.ASCII(42037, "0000c1a2b3"),
			jpegtest.Rational(42240, 22, 10),
		},
		Interop: []jpegtest.Entry{
			jpegtest.ASCII(1, "R98"),
			jpegtest.Long(4097, 6000),
		},
	}
	d, err := NewDecoder().Decode(jpegtest.WithEXIF(jpegtest.JPEG(2, 2), l.TIFF()))
	c.Assert(err, qt.IsNil)

	want := map[uint16]string{
		271:   "Canon",
		278:   "3",
		318:   "313/1000, 329/1000",
		42032: "Jane Doe",
		42033: "025021001234",
		42034: "18/1, 55/1, 35/10, 56/10",
		42037: "0000c1a2b3",
		42240: "22/10",
		1:     "R98",
		4097:  "6000",
	}
	for id, value := range want {
		v, ok := d.Tags[id]
		c.Assert(ok, qt.IsTrue, qt.Commentf("tag %d missing", id))
		c.Assert(exiftags.Normalize(v), qt.Equals, value, qt.Commentf("tag %d", id))
	}
}

func TestDecodeBadSubIFDPointer(t *testing.T) {
	c := qt.New(t)

	tiffData := jpegtest.Layout{
		IFD0: []jpegtest.Entry{jpegtest.ASCII(271, "Canon")},
		GPS:  []jpegtest.Entry{jpegtest.ASCII(1, "N")},
	}.TIFF()

	// point the GPS entry past the end of the block
	entry := []byte{0x25, 0x88, jpegtest.TypeLong, 0, 1, 0, 0, 0}
	i := bytes.Index(tiffData, entry)
	c.Assert(i, qt.Not(qt.Equals), -1)
	binary.LittleEndian.PutUint32(tiffData[i+len(entry):], 0xfffff0)

	d, err := NewDecoder().Decode(jpegtest.WithEXIF(jpegtest.JPEG(2, 2), tiffData))
	c.Assert(err, qt.IsNil)
	c.Assert(exiftags.Normalize(d.Tags[271]), qt.Equals, "Canon")
	_, ok := d.Tags[1]
	c.Assert(ok, qt.IsFalse)
}

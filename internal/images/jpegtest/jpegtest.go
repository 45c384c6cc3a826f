// Package jpegtest builds small JPEG files with hand-made EXIF blocks for
// tests.
package jpegtest

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"slices"
)

// TIFF field types
const (
	TypeByte      = 1
	TypeASCII     = 2
	TypeShort     = 3
	TypeLong      = 4
	TypeRational  = 5
	TypeUndefined = 7
	TypeSRational = 10
)

const (
	exifPointer    = 0x8769
	gpsPointer     = 0x8825
	interopPointer = 0xa005
)

var le = binary.LittleEndian

// Entry is one IFD entry with its value already encoded little-endian
type Entry struct {
	Tag   uint16
	Type  uint16
	Count uint32
	Data  []byte
}

// ASCII is a NUL-terminated string entry
func ASCII(tag uint16, s string) Entry {
	b := append([]byte(s), 0)
	return Entry{Tag: tag, Type: TypeASCII, Count: uint32(len(b)), Data: b}
}

// Short is a SHORT entry with one or more values
func Short(tag uint16, v ...uint16) Entry {
	b := make([]byte, 2*len(v))
	for i, x := range v {
		le.PutUint16(b[2*i:], x)
	}
	return Entry{Tag: tag, Type: TypeShort, Count: uint32(len(v)), Data: b}
}

// Long is a LONG entry with one or more values
func Long(tag uint16, v ...uint32) Entry {
	b := make([]byte, 4*len(v))
	for i, x := range v {
		le.PutUint32(b[4*i:], x)
	}
	return Entry{Tag: tag, Type: TypeLong, Count: uint32(len(v)), Data: b}
}

// Rational is an unsigned RATIONAL entry; pairs holds num, den, num, den...
func Rational(tag uint16, pairs ...uint32) Entry {
	b := make([]byte, 4*len(pairs))
	for i, x := range pairs {
		le.PutUint32(b[4*i:], x)
	}
	return Entry{Tag: tag, Type: TypeRational, Count: uint32(len(pairs) / 2), Data: b}
}

// Undefined is an UNDEFINED entry holding raw bytes
func Undefined(tag uint16, b []byte) Entry {
	return Entry{Tag: tag, Type: TypeUndefined, Count: uint32(len(b)), Data: slices.Clone(b)}
}

// Layout describes the directories of an EXIF block. Pointer entries to
// the Exif, GPS and Interoperability directories are added automatically
// for the non-empty ones.
type Layout struct {
	IFD0    []Entry
	Exif    []Entry
	GPS     []Entry
	Interop []Entry
}

// TIFF encodes the layout as a little-endian TIFF stream
func (l Layout) TIFF() []byte {
	ifd0 := slices.Clone(l.IFD0)
	exif := slices.Clone(l.Exif)
	gps := slices.Clone(l.GPS)
	interop := slices.Clone(l.Interop)

	if len(interop) > 0 {
		exif = append(exif, Long(interopPointer, 0))
	}
	if len(exif) > 0 {
		ifd0 = append(ifd0, Long(exifPointer, 0))
	}
	if len(gps) > 0 {
		ifd0 = append(ifd0, Long(gpsPointer, 0))
	}

	dirs := [][]Entry{ifd0, exif, gps, interop}
	offsets := make([]uint32, len(dirs))
	next := uint32(8)
	for i, d := range dirs {
		if len(d) == 0 && i > 0 {
			continue
		}
		offsets[i] = next
		next += uint32(2 + 12*len(d) + 4)
	}
	dataStart := next

	setPointer(ifd0, exifPointer, offsets[1])
	setPointer(ifd0, gpsPointer, offsets[2])
	setPointer(exif, interopPointer, offsets[3])

	var out, data bytes.Buffer
	out.WriteString("II")
	_ = binary.Write(&out, le, uint16(42))
	_ = binary.Write(&out, le, uint32(8))

	for i, d := range dirs {
		if len(d) == 0 && i > 0 {
			continue
		}
		writeIFD(&out, &data, d, dataStart)
	}
	out.Write(data.Bytes())

	return out.Bytes()
}

func setPointer(entries []Entry, tag uint16, offset uint32) {
	for i := range entries {
		if entries[i].Tag == tag {
			le.PutUint32(entries[i].Data, offset)
		}
	}
}

func writeIFD(out, data *bytes.Buffer, entries []Entry, dataStart uint32) {
	slices.SortFunc(entries, func(a, b Entry) int {
		return int(a.Tag) - int(b.Tag)
	})

	_ = binary.Write(out, le, uint16(len(entries)))
	for _, e := range entries {
		_ = binary.Write(out, le, e.Tag)
		_ = binary.Write(out, le, e.Type)
		_ = binary.Write(out, le, e.Count)
		if len(e.Data) <= 4 {
			var v [4]byte
			copy(v[:], e.Data)
			out.Write(v[:])
			continue
		}
		_ = binary.Write(out, le, dataStart+uint32(data.Len()))
		data.Write(e.Data)
		if data.Len()%2 == 1 {
			data.WriteByte(0)
		}
	}
	_ = binary.Write(out, le, uint32(0))
}

// JPEG encodes a plain w x h image without any metadata
func JPEG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// WithEXIF inserts an APP1 Exif segment holding tiff right after the SOI
// marker of jpegData.
func WithEXIF(jpegData, tiff []byte) []byte {
	var seg bytes.Buffer
	seg.Write([]byte{0xff, 0xe1})
	_ = binary.Write(&seg, binary.BigEndian, uint16(2+6+len(tiff)))
	seg.WriteString("Exif\x00\x00")
	seg.Write(tiff)

	out := make([]byte, 0, len(jpegData)+seg.Len())
	out = append(out, jpegData[:2]...)
	out = append(out, seg.Bytes()...)
	out = append(out, jpegData[2:]...)
	return out
}

// Sample is a 4x3 JPEG carrying Make, Model, Orientation, ExposureTime,
// FNumber and ISOSpeedRatings.
func Sample() []byte {
	l := Layout{
		IFD0: []Entry{
			ASCII(271, "Canon"),
			ASCII(272, "EOS 90D"),
			Short(274, 1),
		},
		Exif: []Entry{
			Rational(33434, 1, 200),
			Rational(33437, 28, 10),
			Short(34855, 400),
		},
	}
	return WithEXIF(JPEG(4, 3), l.TIFF())
}

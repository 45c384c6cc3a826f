package images

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/riff"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/lehigh-university-libraries/exifreport/internal/exiftags"
)

var (
	fccWEBP = riff.FourCC{'W', 'E', 'B', 'P'}
	fccEXIF = riff.FourCC{'E', 'X', 'I', 'F'}

	pngSignature = []byte("\x89PNG\r\n\x1a\n")
)

// Decoded is an opened image and its flattened EXIF tags
type Decoded struct {
	Format string
	Width  int
	Height int
	Tags   exiftags.Map
}

// DecodeError reports bytes that are not a readable image
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot identify image file: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decoder opens images and extracts their EXIF tags. The zero value is
// ready to use.
type Decoder struct{}

// NewDecoder creates a new decoder
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode identifies the image in data and reads its EXIF block. An image
// without EXIF data decodes to an empty tag map.
func (d *Decoder) Decode(data []byte) (*Decoded, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	out := &Decoded{
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
		Tags:   exiftags.Map{},
	}

	payload, err := exifPayload(format, data)
	if err != nil {
		slog.Debug("Could not locate EXIF block", "format", format, "error", err)
		return out, nil
	}
	if payload == nil {
		return out, nil
	}

	tags, err := readTags(payload)
	if err != nil {
		slog.Debug("Could not read EXIF block", "format", format, "error", err)
		return out, nil
	}
	out.Tags = tags

	return out, nil
}

// exifPayload returns the bytes goexif should decode, nil when the format
// carries no EXIF block.
func exifPayload(format string, data []byte) ([]byte, error) {
	switch format {
	case "jpeg", "tiff":
		return data, nil
	case "png":
		return pngExif(data)
	case "webp":
		return webpExif(data)
	default:
		return nil, nil
	}
}

func pngExif(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, pngSignature) {
		return nil, errors.New("not a PNG stream")
	}
	rest := data[len(pngSignature):]
	for len(rest) >= 12 {
		length := binary.BigEndian.Uint32(rest[:4])
		typ := string(rest[4:8])
		if uint64(length) > uint64(len(rest)-12) {
			return nil, fmt.Errorf("truncated %s chunk", typ)
		}
		body := rest[8 : 8+length]
		switch typ {
		case "eXIf":
			return body, nil
		case "IEND":
			return nil, nil
		}
		rest = rest[12+length:]
	}
	return nil, nil
}

func webpExif(data []byte) ([]byte, error) {
	formType, r, err := riff.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if formType != fccWEBP {
		return nil, errors.New("not a WebP stream")
	}

	for {
		id, _, chunk, err := r.Next()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if id == fccEXIF {
			return io.ReadAll(chunk)
		}
	}
}

// pointer tags to the Exif, GPS and Interoperability sub-IFDs
const (
	exifPointer    = 0x8769
	gpsPointer     = 0x8825
	interopPointer = 0xa005
)

// readTags decodes an EXIF block and flattens every entry of IFD0, the
// Exif, GPS and Interoperability sub-IFDs and IFD1 into one map keyed by
// tag id. When an id appears in more than one directory the first one in
// that order keeps the slot.
func readTags(payload []byte) (tags exiftags.Map, err error) {
	defer func() {
		if r := recover(); r != nil {
			tags, err = nil, fmt.Errorf("malformed EXIF block: %v", r)
		}
	}()

	x, err := exif.Decode(bytes.NewReader(payload))
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return nil, err
	}
	if err != nil {
		slog.Debug("Partially decoded EXIF block", "error", err)
	}

	tags = exiftags.Map{}
	if x.Tiff == nil || len(x.Tiff.Dirs) == 0 {
		return tags, nil
	}

	ifd0 := x.Tiff.Dirs[0]
	exifDir := subDir(x, ifd0, exifPointer)
	dirs := []*tiff.Dir{
		ifd0,
		exifDir,
		subDir(x, ifd0, gpsPointer),
		subDir(x, exifDir, interopPointer),
	}
	if len(x.Tiff.Dirs) > 1 {
		dirs = append(dirs, x.Tiff.Dirs[1])
	}

	for _, dir := range dirs {
		if dir == nil {
			continue
		}
		for _, tag := range dir.Tags {
			if _, ok := tags[tag.Id]; ok {
				continue
			}
			if v, ok := tagValue(tag); ok {
				tags[tag.Id] = v
			}
		}
	}

	return tags, nil
}

// subDir decodes the directory parent points to with the pointer tag, nil
// when the pointer is absent or unusable.
func subDir(x *exif.Exif, parent *tiff.Dir, pointer uint16) *tiff.Dir {
	if parent == nil {
		return nil
	}
	for _, tag := range parent.Tags {
		if tag.Id != pointer {
			continue
		}
		offset, err := tag.Int64(0)
		if err != nil || offset <= 0 || offset >= int64(len(x.Raw)) {
			slog.Debug("Invalid sub-IFD pointer", "tag", pointer, "offset", offset, "error", err)
			return nil
		}

		r := bytes.NewReader(x.Raw)
		if _, err := r.Seek(offset, io.SeekStart); err != nil {
			return nil
		}
		dir, _, err := tiff.DecodeDir(r, x.Tiff.Order)
		if err != nil {
			slog.Debug("Could not decode sub-IFD", "tag", pointer, "error", err)
			return nil
		}
		return dir
	}
	return nil
}

func tagValue(tag *tiff.Tag) (exiftags.Value, bool) {
	n := int(tag.Count)

	switch tag.Format() {
	case tiff.StringVal:
		s, err := tag.StringVal()
		if err != nil {
			return exiftags.Value{}, false
		}
		return exiftags.String(strings.TrimRight(s, "\x00")), true

	case tiff.UndefVal:
		return exiftags.Bytes(tag.Val), true

	case tiff.IntVal:
		ints := make([]int64, 0, n)
		for i := 0; i < n; i++ {
			v, err := tag.Int64(i)
			if err != nil {
				return exiftags.Value{}, false
			}
			ints = append(ints, v)
		}
		if n == 1 {
			return exiftags.Int(ints[0]), true
		}
		return exiftags.Ints(ints...), true

	case tiff.RatVal:
		rats := make([]exiftags.Rational, 0, n)
		for i := 0; i < n; i++ {
			num, den, err := tag.Rat2(i)
			if err != nil {
				return exiftags.Value{}, false
			}
			rats = append(rats, exiftags.Rational{Num: num, Den: den})
		}
		if n == 1 {
			return exiftags.Rat(rats[0].Num, rats[0].Den), true
		}
		return exiftags.Rats(rats...), true

	case tiff.FloatVal:
		floats := make([]float64, 0, n)
		for i := 0; i < n; i++ {
			v, err := tag.Float(i)
			if err != nil {
				return exiftags.Value{}, false
			}
			floats = append(floats, v)
		}
		return exiftags.Floats(floats...), true

	default:
		return exiftags.Bytes(tag.Val), true
	}
}

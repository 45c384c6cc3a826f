package exiftags

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Normalize renders v as display text.
// It never fails: byte sequences that are not valid UTF-8 fall back to
// their quoted literal form.
func Normalize(v Value) string {
	switch v.kind {
	case kindInteger:
		return strconv.FormatInt(v.ints[0], 10)
	case kindIntegers:
		parts := make([]string, len(v.ints))
		for i, n := range v.ints {
			parts[i] = strconv.FormatInt(n, 10)
		}
		return strings.Join(parts, ", ")
	case kindRational:
		return v.rats[0].String()
	case kindRationals:
		parts := make([]string, len(v.rats))
		for i, r := range v.rats {
			parts[i] = r.String()
		}
		return strings.Join(parts, ", ")
	case kindFloats:
		parts := make([]string, len(v.floats))
		for i, f := range v.floats {
			parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
		}
		return strings.Join(parts, ", ")
	case kindBytes:
		return decodeBytes(v.bytes)
	case kindString:
		return v.str
	default:
		return ""
	}
}

func decodeBytes(b []byte) string {
	text, _, err := transform.Bytes(encoding.UTF8Validator, b)
	if err != nil {
		return fmt.Sprintf("%q", b)
	}
	// fixed-size UNDEFINED fields are commonly NUL padded
	return string(bytes.TrimRight(text, "\x00"))
}

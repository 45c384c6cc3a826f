package exiftags

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"integer", Int(6), "6"},
		{"negative integer", Int(-3), "-3"},
		{"integer sequence", Ints(2, 2, 0, 0), "2, 2, 0, 0"},
		{"rational", Rat(1, 200), "1/200"},
		{"rational zero denominator", Rat(0, 0), "0/0"},
		{"rational sequence", Rats(Rational{41, 1}, Rational{24, 1}, Rational{1230, 100}), "41/1, 24/1, 1230/100"},
		{"floats", Floats(2.2, 1), "2.2, 1"},
		{"string", String("Canon"), "Canon"},
		{"utf8 bytes", Bytes([]byte("Canon")), "Canon"},
		{"utf8 bytes with padding", Bytes([]byte("0232\x00\x00")), "0232"},
		{"multibyte utf8", Bytes([]byte("Zoë")), "Zoë"},
		{"invalid utf8 bytes", Bytes([]byte{0xff, 0xfe, 0x00, 0x01}), `"\xff\xfe\x00\x01"`},
		{"truncated utf8 sequence", Bytes([]byte("Zo\xc3")), `"Zo\xc3"`},
		{"empty bytes", Bytes(nil), ""},
		{"zero value", Value{}, ""},
		{"empty sequence", Ints(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qt.Assert(t, Normalize(tt.value), qt.Equals, tt.want)
		})
	}
}

func TestNormalizeIsTotal(t *testing.T) {
	c := qt.New(t)

	// every single byte value, alone and mixed with text
	for i := 0; i < 256; i++ {
		b := []byte{byte(i), 'x', byte(i)}
		c.Assert(Normalize(Bytes(b)), qt.Not(qt.Equals), "")
	}
}

func TestBytesCopiesInput(t *testing.T) {
	b := []byte("Nikon")
	v := Bytes(b)
	b[0] = 'M'

	qt.Assert(t, Normalize(v), qt.Equals, "Nikon")
}

func TestConstructorKinds(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		kind  kind
	}{
		{"integer", Int(1), kindInteger},
		{"integers", Ints(1, 2, 3), kindIntegers},
		{"rational", Rat(1, 2), kindRational},
		{"rationals", Rats(Rational{1, 2}, Rational{3, 4}), kindRationals},
		{"floats", Floats(1.5), kindFloats},
		{"bytes", Bytes([]byte{1, 2}), kindBytes},
		{"string", String("x"), kindString},
		{"zero", Value{}, kindInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qt.Assert(t, tt.value.kind, qt.Equals, tt.kind)
		})
	}
}

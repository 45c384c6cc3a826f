package exiftags

import "fmt"

// kind identifies the shape of a raw tag value
type kind uint8

const (
	kindInvalid kind = iota
	kindInteger
	kindRational
	kindIntegers
	kindRationals
	kindFloats
	kindBytes
	kindString
)

// Rational is an EXIF RATIONAL or SRATIONAL value
type Rational struct {
	Num int64
	Den int64
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// Value is the decoded but unnormalized value of one tag.
// The zero Value is valid and normalizes to an empty string.
type Value struct {
	kind   kind
	ints   []int64
	rats   []Rational
	floats []float64
	bytes  []byte
	str    string
}

// Map is the flat tag id -> value mapping read from one image
type Map map[uint16]Value

// Int returns a single integer value
func Int(v int64) Value {
	return Value{kind: kindInteger, ints: []int64{v}}
}

// Ints returns an integer sequence value
func Ints(v ...int64) Value {
	return Value{kind: kindIntegers, ints: append([]int64(nil), v...)}
}

// Rat returns a single rational value
func Rat(num, den int64) Value {
	return Value{kind: kindRational, rats: []Rational{{Num: num, Den: den}}}
}

// Rats returns a rational sequence value, e.g. GPS degrees/minutes/seconds
func Rats(v ...Rational) Value {
	return Value{kind: kindRationals, rats: append([]Rational(nil), v...)}
}

// Floats returns a floating point sequence value
func Floats(v ...float64) Value {
	return Value{kind: kindFloats, floats: append([]float64(nil), v...)}
}

// Bytes returns a byte sequence value. b is copied.
func Bytes(b []byte) Value {
	return Value{kind: kindBytes, bytes: append([]byte(nil), b...)}
}

// String returns a text value
func String(s string) Value {
	return Value{kind: kindString, str: s}
}

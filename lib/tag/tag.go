package tag

import (
	"fmt"
	"strings"
)

// --------------------------------------------------------------------------
// Type Definitions
// --------------------------------------------------------------------------

// Tag is the single byte describing one serialized value.
type Tag byte

// TypeCode is the 3 bit type discriminant stored in the high bits of a Tag.
type TypeCode uint8

const (
	VariableInteger TypeCode = iota // minimal width integer
	FixedInteger                    // full width or elided integer
	VariableFloat                   // minimal width IEEE 754 bits
	FixedFloat                      // full width or elided IEEE 754 bits
	Boolean                         // value carried in the tag
	Char                            // single character or string
)

// String returns the string representation of a TypeCode.
func (c TypeCode) String() string {
	switch c {
	case VariableInteger:
		return "VariableInteger"
	case FixedInteger:
		return "FixedInteger"
	case VariableFloat:
		return "VariableFloat"
	case FixedFloat:
		return "FixedFloat"
	case Boolean:
		return "Boolean"
	case Char:
		return "Char"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(c))
	}
}

// Valid reports whether the type code is one of the assigned codes.
func (c TypeCode) Valid() bool {
	return c <= Char
}

// Sign is the sign flag of variable width numbers.
type Sign uint8

const (
	PositiveOrUnsigned Sign = iota
	Negative
)

// String returns the string representation of a Sign.
func (s Sign) String() string {
	if s == Negative {
		return "negative"
	}
	return "positive"
}

// CharShape distinguishes a single character from a string.
type CharShape uint8

const (
	SingleChar CharShape = iota
	String
)

// String returns the string representation of a CharShape.
func (s CharShape) String() string {
	if s == String {
		return "string"
	}
	return "char"
}

// CharEncoding is the 2 bit text encoding stored in char tags.
type CharEncoding uint8

const (
	UTF16 CharEncoding = iota // 2 bytes per code unit, little endian
	ASCII                     // 1 byte, lossy above code point 127
	UTF8                      // 1 to 4 bytes
	Raw                       // uninterpreted bytes, only valid for strings
)

// String returns the string representation of a CharEncoding.
func (e CharEncoding) String() string {
	switch e {
	case UTF16:
		return "utf-16"
	case ASCII:
		return "ascii"
	case UTF8:
		return "utf-8"
	default:
		return "raw"
	}
}

// ParseCharEncoding converts a name as printed by CharEncoding.String back
// into a CharEncoding.
func ParseCharEncoding(name string) (CharEncoding, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "-", "")) {
	case "utf16", "unicode":
		return UTF16, nil
	case "ascii":
		return ASCII, nil
	case "utf8":
		return UTF8, nil
	case "raw":
		return Raw, nil
	default:
		return 0, fmt.Errorf("unknown char encoding: %s (expected one of utf-16, ascii, utf-8, raw)", name)
	}
}

// --------------------------------------------------------------------------
// Bit Layout
// --------------------------------------------------------------------------

const (
	typeShift  = 5
	flagShift  = 4 // boolean value, char shape, number sign
	countMask  = 0xF
	fixedShift = 1
)

// TypeCode returns the type discriminant of the tag. It never depends on the
// payload.
func (t Tag) TypeCode() TypeCode {
	return TypeCode(t >> typeShift)
}

func (t Tag) flag() uint8 {
	return uint8(t>>flagShift) & 0x1
}

// String returns a human readable description of the tag, decoded according
// to its own type code.
func (t Tag) String() string {
	switch t.TypeCode() {
	case Boolean:
		return fmt.Sprintf("Boolean value=%t", t.flag() == 1)
	case Char:
		c := ParseCharTag(t)
		return fmt.Sprintf("Char shape=%s encoding=%s default=%t empty=%t", c.Shape, c.Encoding, c.IsDefault, c.IsEmpty)
	case VariableInteger, VariableFloat, FixedInteger, FixedFloat:
		n := ParseNumberTag(t)
		if n.Type == VariableInteger || n.Type == VariableFloat {
			return fmt.Sprintf("%s sign=%s bytes=%d", n.Type, n.Sign, n.ByteCount)
		}
		return fmt.Sprintf("%s bytes=%d", n.Type, n.ByteCount)
	default:
		return fmt.Sprintf("%s raw=0x%02x", t.TypeCode(), byte(t))
	}
}

// --------------------------------------------------------------------------
// Boolean
// --------------------------------------------------------------------------

// MakeBooleanTag returns the tag for v. Booleans carry no payload.
func MakeBooleanTag(v bool) Tag {
	t := Tag(Boolean) << typeShift
	if v {
		t |= 1 << flagShift
	}
	return t
}

// ParseBooleanTag returns the value stored in a boolean tag.
func ParseBooleanTag(t Tag) (bool, error) {
	if t.TypeCode() != Boolean {
		return false, typeMismatch(Boolean, t.TypeCode())
	}
	return t.flag() == 1, nil
}

// --------------------------------------------------------------------------
// Char / String
// --------------------------------------------------------------------------

// CharTag is the decoded form of a char tag.
type CharTag struct {
	Shape     CharShape
	IsDefault bool
	Encoding  CharEncoding
	IsEmpty   bool
}

// Tag packs c into a tag byte.
func (c CharTag) Tag() Tag {
	t := Tag(Char)<<typeShift | Tag(c.Shape&0x1)<<flagShift | Tag(c.Encoding&0x3)<<1
	if c.IsDefault {
		t |= 1 << 3
	}
	if c.IsEmpty {
		t |= 1
	}
	return t
}

// Match checks that the tag is a char tag of the given shape and encoding.
func (c CharTag) Match(shape CharShape, encoding CharEncoding) error {
	if c.Shape != shape {
		return &MismatchError{Field: "shape", Expected: shape.String(), Actual: c.Shape.String()}
	}
	if c.Encoding != encoding {
		return &MismatchError{Field: "encoding", Expected: encoding.String(), Actual: c.Encoding.String()}
	}
	return nil
}

// MakeCharTag returns the tag for a single character. The null character is
// the default value and is written without payload.
func MakeCharTag(r rune, encoding CharEncoding) (Tag, bool) {
	isDefault := r == 0
	return CharTag{Shape: SingleChar, IsDefault: isDefault, Encoding: encoding}.Tag(), isDefault
}

// MakeStringTag returns the tag for a string. A nil pointer is the default
// value, a pointer to "" is the empty string; both are written without payload.
func MakeStringTag(s *string, encoding CharEncoding) (t Tag, isDefault, isEmpty bool) {
	isDefault = s == nil
	isEmpty = s != nil && *s == ""
	return CharTag{Shape: String, IsDefault: isDefault, Encoding: encoding, IsEmpty: isEmpty}.Tag(), isDefault, isEmpty
}

// ParseCharTag unpacks a char tag without checking its type code.
func ParseCharTag(t Tag) CharTag {
	return CharTag{
		Shape:     CharShape(t.flag()),
		IsDefault: (t>>3)&0x1 == 1,
		Encoding:  CharEncoding((t >> 1) & 0x3),
		IsEmpty:   t&0x1 == 1,
	}
}

// ParseChar unpacks a char tag and checks its type code.
func ParseChar(t Tag) (CharTag, error) {
	if t.TypeCode() != Char {
		return CharTag{}, typeMismatch(Char, t.TypeCode())
	}
	return ParseCharTag(t), nil
}

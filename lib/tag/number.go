package tag

import (
	"fmt"
	"strconv"
)

// --------------------------------------------------------------------------
// Number Tags
// --------------------------------------------------------------------------

// Number is the decoded form of a number tag (variable or fixed, integer or
// float). Sign is always PositiveOrUnsigned for fixed tags.
type Number struct {
	Type      TypeCode
	Sign      Sign
	ByteCount int
}

// ParseNumberTag unpacks a number tag according to its type code. The result
// is meaningless for boolean and char tags.
func ParseNumberTag(t Tag) Number {
	switch t.TypeCode() {
	case FixedInteger, FixedFloat:
		return Number{
			Type:      t.TypeCode(),
			Sign:      PositiveOrUnsigned,
			ByteCount: int(t>>fixedShift) & countMask,
		}
	default:
		return Number{
			Type:      t.TypeCode(),
			Sign:      Sign(t.flag()),
			ByteCount: int(t) & countMask,
		}
	}
}

// ParseVariableNumberTag unpacks a variable integer or variable float tag
func ParseVariableNumberTag(t Tag) (Number, error) {
	switch t.TypeCode() {
	case VariableInteger, VariableFloat:
		return ParseNumberTag(t), nil
	default:
		return Number{}, typeMismatch(VariableInteger, t.TypeCode())
	}
}

// ParseFixedNumberTag unpacks a fixed integer or fixed float tag
func ParseFixedNumberTag(t Tag) (Number, error) {
	switch t.TypeCode() {
	case FixedInteger, FixedFloat:
		return ParseNumberTag(t), nil
	default:
		return Number{}, typeMismatch(FixedInteger, t.TypeCode())
	}
}

// CheckInteger validates that the tag can be read into an integer of width
// bytes using the variable or fixed layout.
func (n Number) CheckInteger(variable bool, width int, signed bool) error {
	want := FixedInteger
	if variable {
		want = VariableInteger
	}
	if n.Type != want {
		return typeMismatch(want, n.Type)
	}
	if !variable {
		return checkFixedWidth(n.ByteCount, width)
	}
	if n.ByteCount > width {
		return widthMismatch(width, n.ByteCount)
	}
	if !signed && n.Sign == Negative {
		return &MismatchError{Field: "sign", Expected: PositiveOrUnsigned.String(), Actual: n.Sign.String()}
	}
	return nil
}

// CheckFloat validates that the tag can be read into a float of width bytes
// using the variable or fixed layout.
func (n Number) CheckFloat(variable bool, width int) error {
	want := FixedFloat
	if variable {
		want = VariableFloat
	}
	if n.Type != want {
		return typeMismatch(want, n.Type)
	}
	if !variable {
		return checkFixedWidth(n.ByteCount, width)
	}
	if n.ByteCount > width {
		return widthMismatch(width, n.ByteCount)
	}
	if n.Sign != PositiveOrUnsigned {
		return &MismatchError{Field: "sign", Expected: PositiveOrUnsigned.String(), Actual: n.Sign.String()}
	}
	return nil
}

func checkFixedWidth(byteCount, width int) error {
	if byteCount != 0 && byteCount != width {
		return &MismatchError{
			Field:    "width",
			Expected: "0 or " + strconv.Itoa(width) + " bytes",
			Actual:   strconv.Itoa(byteCount) + " bytes",
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// Integer Encoding
// --------------------------------------------------------------------------

// Mask returns a mask covering the low width bytes.
func Mask(width int) uint64 {
	if width >= 8 {
		return ^uint64(0)
	}
	return 1<<(uint(width)*8) - 1
}

// UsedByteCount returns the number of low order bytes of v (limited to width)
// needed to hold every set bit, scanning from the most significant byte down.
// Zero yields 0.
func UsedByteCount(v uint64, width int) int {
	for width > 0 && byte(v>>(uint(width-1)*8)) == 0 {
		width--
	}
	return width
}

// MakeVariableIntegerTag returns the tag, the payload byte count and the
// payload bits for an integer of width bytes. For signed integers the sign is
// read from the most significant bit of the width; negative values are
// inverted before counting bytes.
func MakeVariableIntegerTag(bits uint64, width int, signed bool) (Tag, int, uint64) {
	bits &= Mask(width)
	sign := PositiveOrUnsigned
	if signed && (bits>>(uint(width)*8-1))&0x1 == 1 {
		sign = Negative
		bits = ^bits & Mask(width)
	}
	n := UsedByteCount(bits, width)
	return Tag(VariableInteger)<<typeShift | Tag(sign)<<flagShift | Tag(n), n, bits
}

// MakeFixedIntegerTag returns the tag and payload byte count for an integer of
// width bytes: 0 for zero, width otherwise.
func MakeFixedIntegerTag(bits uint64, width int) (Tag, int) {
	n := 0
	if bits&Mask(width) != 0 {
		n = width
	}
	return Tag(FixedInteger)<<typeShift | Tag(n)<<fixedShift, n
}

// DecodeVariableInteger turns a variable payload back into the bits of an
// integer of width bytes. Negative payloads are inverted, which sign extends
// values written from narrower types. A payload that does not fit the signed
// range of the destination is a width mismatch.
func DecodeVariableInteger(payload uint64, sign Sign, width int, signed bool) (uint64, error) {
	if signed && (payload>>(uint(width)*8-1))&0x1 == 1 {
		return 0, &MismatchError{
			Field:    "width",
			Expected: "signed " + strconv.Itoa(width*8) + "-bit range",
			Actual:   "magnitude 0x" + strconv.FormatUint(payload, 16),
		}
	}
	if sign == Negative {
		return ^payload & Mask(width), nil
	}
	return payload, nil
}

// --------------------------------------------------------------------------
// Float Encoding
// --------------------------------------------------------------------------

// MakeVariableFloatTag returns the tag and payload byte count for the IEEE 754
// bits of a float of width bytes. The sign bit is trimmed together with the
// rest of the representation, so the tag sign is always positive.
func MakeVariableFloatTag(bits uint64, width int) (Tag, int) {
	n := UsedByteCount(bits&Mask(width), width)
	return Tag(VariableFloat)<<typeShift | Tag(PositiveOrUnsigned)<<flagShift | Tag(n), n
}

// MakeFixedFloatTag returns the tag and payload byte count for the IEEE 754
// bits of a float of width bytes. Only positive zero is elided, so negative
// zero survives a round trip.
func MakeFixedFloatTag(bits uint64, width int) (Tag, int) {
	n := 0
	if bits&Mask(width) != 0 {
		n = width
	}
	return Tag(FixedFloat)<<typeShift | Tag(n)<<fixedShift, n
}

// --------------------------------------------------------------------------
// Errors
// --------------------------------------------------------------------------

// MismatchError reports a tag that cannot be read as the requested kind.
// Field is one of "type code", "sign", "width", "encoding" or "shape".
type MismatchError struct {
	Field    string
	Expected string
	Actual   string
}

// Error implements the error interface
func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s mismatch: expected %s, got %s", e.Field, e.Expected, e.Actual)
}

func typeMismatch(expected, actual TypeCode) error {
	return &MismatchError{Field: "type code", Expected: expected.String(), Actual: actual.String()}
}

func widthMismatch(width, byteCount int) error {
	return &MismatchError{
		Field:    "width",
		Expected: "at most " + strconv.Itoa(width) + " bytes",
		Actual:   strconv.Itoa(byteCount) + " bytes",
	}
}

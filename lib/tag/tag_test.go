package tag

import (
	"errors"
	"math"
	"testing"
)

// TestBooleanTag tests the boolean layout and its inverse
func TestBooleanTag(t *testing.T) {
	if got := MakeBooleanTag(true); got != 0x90 {
		t.Errorf("MakeBooleanTag(true) = 0x%02x, want 0x90", byte(got))
	}
	if got := MakeBooleanTag(false); got != 0x80 {
		t.Errorf("MakeBooleanTag(false) = 0x%02x, want 0x80", byte(got))
	}

	for _, v := range []bool{true, false} {
		got, err := ParseBooleanTag(MakeBooleanTag(v))
		if err != nil {
			t.Fatalf("ParseBooleanTag: %v", err)
		}
		if got != v {
			t.Errorf("ParseBooleanTag = %v, want %v", got, v)
		}
	}

	_, err := ParseBooleanTag(Tag(0x01))
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) || mismatch.Field != "type code" {
		t.Errorf("expected type code mismatch, got %v", err)
	}
}

// TestCharTag tests the char layout for every shape, encoding and flag
func TestCharTag(t *testing.T) {
	testCases := []struct {
		name    string
		tag     Tag
		want    byte
		def     bool
		empty   bool
		decoded CharTag
	}{
		{
			name:    "utf-8 char",
			tag:     mustChar('A', UTF8),
			want:    0xA4,
			decoded: CharTag{Shape: SingleChar, Encoding: UTF8},
		},
		{
			name:    "null char",
			tag:     mustChar(0, UTF8),
			want:    0xAC,
			def:     true,
			decoded: CharTag{Shape: SingleChar, Encoding: UTF8, IsDefault: true},
		},
		{
			name:    "utf-16 char",
			tag:     mustChar('x', UTF16),
			want:    0xA0,
			decoded: CharTag{Shape: SingleChar, Encoding: UTF16},
		},
		{
			name:    "ascii string",
			tag:     mustString(ptr("x"), ASCII),
			want:    0xB2,
			decoded: CharTag{Shape: String, Encoding: ASCII},
		},
		{
			name:    "null string",
			tag:     mustString(nil, UTF8),
			want:    0xBC,
			def:     true,
			decoded: CharTag{Shape: String, Encoding: UTF8, IsDefault: true},
		},
		{
			name:    "empty string",
			tag:     mustString(ptr(""), UTF8),
			want:    0xB5,
			empty:   true,
			decoded: CharTag{Shape: String, Encoding: UTF8, IsEmpty: true},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if byte(tc.tag) != tc.want {
				t.Errorf("tag = 0x%02x, want 0x%02x", byte(tc.tag), tc.want)
			}
			got, err := ParseChar(tc.tag)
			if err != nil {
				t.Fatalf("ParseChar: %v", err)
			}
			if got != tc.decoded {
				t.Errorf("ParseChar = %+v, want %+v", got, tc.decoded)
			}
		})
	}

	// null, empty and non-empty strings must produce distinct tags
	seen := map[Tag]bool{}
	for _, s := range []*string{nil, ptr(""), ptr("x")} {
		tg, _, _ := MakeStringTag(s, UTF8)
		if seen[tg] {
			t.Errorf("duplicate tag 0x%02x", byte(tg))
		}
		seen[tg] = true
	}
}

// TestCharTagMatch tests shape and encoding validation
func TestCharTagMatch(t *testing.T) {
	c := ParseCharTag(mustChar('a', UTF8))

	if err := c.Match(SingleChar, UTF8); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	var mismatch *MismatchError
	if err := c.Match(String, UTF8); !errors.As(err, &mismatch) || mismatch.Field != "shape" {
		t.Errorf("expected shape mismatch, got %v", err)
	}
	if err := c.Match(SingleChar, ASCII); !errors.As(err, &mismatch) || mismatch.Field != "encoding" {
		t.Errorf("expected encoding mismatch, got %v", err)
	}
	if _, err := ParseChar(MakeBooleanTag(true)); !errors.As(err, &mismatch) || mismatch.Field != "type code" {
		t.Errorf("expected type code mismatch, got %v", err)
	}
}

// TestVariableIntegerTag tests sign handling and minimal byte counts
func TestVariableIntegerTag(t *testing.T) {
	testCases := []struct {
		name    string
		bits    uint64
		width   int
		signed  bool
		tag     byte
		count   int
		payload uint64
	}{
		{"zero", 0, 4, true, 0x00, 0, 0},
		{"one", 1, 4, true, 0x01, 1, 1},
		{"minus one", signedBits(-1), 4, true, 0x10, 0, 0},
		{"300", 300, 4, true, 0x02, 2, 300},
		{"minus 300", signedBits(-300), 4, true, 0x12, 2, 299},
		{"int8 min", signedBits(math.MinInt8), 1, true, 0x11, 1, 0x7F},
		{"int64 max", math.MaxInt64, 8, true, 0x08, 8, math.MaxInt64},
		{"int64 min", 1 << 63, 8, true, 0x18, 8, math.MaxInt64},
		{"uint8 max", 0xFF, 1, false, 0x01, 1, 0xFF},
		{"uint64 max", math.MaxUint64, 8, false, 0x08, 8, math.MaxUint64},
		{"uint32 high byte", 0x01000000, 4, false, 0x04, 4, 0x01000000},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tg, n, payload := MakeVariableIntegerTag(tc.bits, tc.width, tc.signed)
			if byte(tg) != tc.tag {
				t.Errorf("tag = 0x%02x, want 0x%02x", byte(tg), tc.tag)
			}
			if n != tc.count {
				t.Errorf("byte count = %d, want %d", n, tc.count)
			}
			if payload != tc.payload {
				t.Errorf("payload = 0x%x, want 0x%x", payload, tc.payload)
			}

			num := ParseNumberTag(tg)
			if num.Type != VariableInteger || num.ByteCount != n {
				t.Errorf("ParseNumberTag = %+v", num)
			}
			if err := num.CheckInteger(true, tc.width, tc.signed); err != nil {
				t.Fatalf("CheckInteger: %v", err)
			}
			back, err := DecodeVariableInteger(payload, num.Sign, tc.width, tc.signed)
			if err != nil {
				t.Fatalf("DecodeVariableInteger: %v", err)
			}
			if back != tc.bits&Mask(tc.width) {
				t.Errorf("decoded 0x%x, want 0x%x", back, tc.bits&Mask(tc.width))
			}
		})
	}
}

// TestVariableIntegerMismatch tests sign and width validation on read
func TestVariableIntegerMismatch(t *testing.T) {
	var mismatch *MismatchError

	// negative value read as unsigned
	tg, _, _ := MakeVariableIntegerTag(signedBits(-5), 4, true)
	if err := ParseNumberTag(tg).CheckInteger(true, 4, false); !errors.As(err, &mismatch) || mismatch.Field != "sign" {
		t.Errorf("expected sign mismatch, got %v", err)
	}

	// 8 byte value read into 4 bytes
	tg, _, _ = MakeVariableIntegerTag(math.MaxUint64, 8, false)
	if err := ParseNumberTag(tg).CheckInteger(true, 4, false); !errors.As(err, &mismatch) || mismatch.Field != "width" {
		t.Errorf("expected width mismatch, got %v", err)
	}

	// unsigned 0x80 does not fit into int8
	tg, _, payload := MakeVariableIntegerTag(0x80, 1, false)
	num := ParseNumberTag(tg)
	if err := num.CheckInteger(true, 1, true); err != nil {
		t.Fatalf("CheckInteger: %v", err)
	}
	if _, err := DecodeVariableInteger(payload, num.Sign, 1, true); !errors.As(err, &mismatch) || mismatch.Field != "width" {
		t.Errorf("expected width mismatch, got %v", err)
	}

	// fixed tag read as variable
	tg, _ = MakeFixedIntegerTag(1, 4)
	if err := ParseNumberTag(tg).CheckInteger(true, 4, true); !errors.As(err, &mismatch) || mismatch.Field != "type code" {
		t.Errorf("expected type code mismatch, got %v", err)
	}
}

// TestFixedTags tests default elision and full width encoding
func TestFixedTags(t *testing.T) {
	tg, n := MakeFixedIntegerTag(0, 4)
	if byte(tg) != 0x20 || n != 0 {
		t.Errorf("fixed zero = (0x%02x, %d), want (0x20, 0)", byte(tg), n)
	}
	tg, n = MakeFixedIntegerTag(5, 4)
	if byte(tg) != 0x28 || n != 4 {
		t.Errorf("fixed 5 = (0x%02x, %d), want (0x28, 4)", byte(tg), n)
	}
	if got := ParseNumberTag(tg); got.ByteCount != 4 || got.Type != FixedInteger {
		t.Errorf("ParseNumberTag = %+v", got)
	}

	tg, n = MakeFixedFloatTag(math.Float64bits(1.5), 8)
	if byte(tg) != 0x70 || n != 8 {
		t.Errorf("fixed 1.5 = (0x%02x, %d), want (0x70, 8)", byte(tg), n)
	}
	tg, n = MakeFixedFloatTag(0, 8)
	if byte(tg) != 0x60 || n != 0 {
		t.Errorf("fixed 0.0 = (0x%02x, %d), want (0x60, 0)", byte(tg), n)
	}
	_, n = MakeFixedFloatTag(math.Float64bits(math.Copysign(0, -1)), 8)
	if n != 8 {
		t.Errorf("negative zero must not be elided, byte count = %d", n)
	}

	var mismatch *MismatchError
	tg, _ = MakeFixedIntegerTag(7, 8)
	if err := ParseNumberTag(tg).CheckInteger(false, 4, true); !errors.As(err, &mismatch) || mismatch.Field != "width" {
		t.Errorf("expected width mismatch, got %v", err)
	}
	tg, _ = MakeFixedFloatTag(math.Float64bits(2), 8)
	if err := ParseNumberTag(tg).CheckFloat(false, 4); !errors.As(err, &mismatch) || mismatch.Field != "width" {
		t.Errorf("expected width mismatch, got %v", err)
	}
}

// TestVariableFloatTag tests byte count pruning on IEEE bits
func TestVariableFloatTag(t *testing.T) {
	tg, n := MakeVariableFloatTag(uint64(math.Float32bits(1)), 4)
	if byte(tg) != 0x44 || n != 4 {
		t.Errorf("float32 1.0 = (0x%02x, %d), want (0x44, 4)", byte(tg), n)
	}
	tg, n = MakeVariableFloatTag(0, 4)
	if byte(tg) != 0x40 || n != 0 {
		t.Errorf("float32 0.0 = (0x%02x, %d), want (0x40, 0)", byte(tg), n)
	}
	// smallest denormal only needs one byte
	_, n = MakeVariableFloatTag(math.Float64bits(math.SmallestNonzeroFloat64), 8)
	if n != 1 {
		t.Errorf("smallest denormal byte count = %d, want 1", n)
	}
	// the sign bit is part of the magnitude
	tg, n = MakeVariableFloatTag(math.Float64bits(math.Copysign(0, -1)), 8)
	if n != 8 || ParseNumberTag(tg).Sign != PositiveOrUnsigned {
		t.Errorf("negative zero = (0x%02x, %d)", byte(tg), n)
	}
	if err := ParseNumberTag(tg).CheckFloat(true, 4); err == nil {
		t.Errorf("expected width mismatch for 8 byte float read as float32")
	}
}

// TestUsedByteCount tests the minimal byte count scan
func TestUsedByteCount(t *testing.T) {
	testCases := []struct {
		v     uint64
		width int
		want  int
	}{
		{0, 8, 0},
		{1, 8, 1},
		{0xFF, 8, 1},
		{0x100, 8, 2},
		{0xFFFF, 2, 2},
		{0x00FF0000, 4, 3},
		{1 << 63, 8, 8},
	}

	for _, tc := range testCases {
		if got := UsedByteCount(tc.v, tc.width); got != tc.want {
			t.Errorf("UsedByteCount(0x%x, %d) = %d, want %d", tc.v, tc.width, got, tc.want)
		}
	}
}

// TestTagString tests that descriptions are derived from the type code alone
func TestTagString(t *testing.T) {
	testCases := map[Tag]string{
		MakeBooleanTag(true): "Boolean value=true",
		Tag(0x12):            "VariableInteger sign=negative bytes=2",
		Tag(0x28):            "FixedInteger bytes=4",
		Tag(0xB5):            "Char shape=string encoding=utf-8 default=false empty=true",
		Tag(0xE0):            "Unknown(7) raw=0xe0",
	}
	for tg, want := range testCases {
		if got := tg.String(); got != want {
			t.Errorf("Tag(0x%02x).String() = %q, want %q", byte(tg), got, want)
		}
	}
}

// TestParseCharEncoding tests the encoding name parser
func TestParseCharEncoding(t *testing.T) {
	for _, enc := range []CharEncoding{UTF16, ASCII, UTF8, Raw} {
		got, err := ParseCharEncoding(enc.String())
		if err != nil {
			t.Fatalf("ParseCharEncoding(%q): %v", enc.String(), err)
		}
		if got != enc {
			t.Errorf("ParseCharEncoding(%q) = %v, want %v", enc.String(), got, enc)
		}
	}
	if _, err := ParseCharEncoding("latin1"); err == nil {
		t.Errorf("expected error for unknown encoding")
	}
}

// TestParseNumberTagKinds tests the variable and fixed number tag decoders
func TestParseNumberTagKinds(t *testing.T) {
	variable, n, _ := MakeVariableIntegerTag(uint64(0x1234), 4, false)
	fixed, _ := MakeFixedFloatTag(math.Float64bits(1.5), 8)

	v, err := ParseVariableNumberTag(variable)
	if err != nil || v.ByteCount != n || v.Type != VariableInteger {
		t.Errorf("ParseVariableNumberTag = %+v, %v", v, err)
	}
	f, err := ParseFixedNumberTag(fixed)
	if err != nil || f.ByteCount != 8 || f.Type != FixedFloat {
		t.Errorf("ParseFixedNumberTag = %+v, %v", f, err)
	}

	var mismatch *MismatchError
	if _, err := ParseVariableNumberTag(fixed); !errors.As(err, &mismatch) {
		t.Errorf("expected MismatchError for fixed tag, got %v", err)
	}
	if _, err := ParseFixedNumberTag(MakeBooleanTag(true)); !errors.As(err, &mismatch) {
		t.Errorf("expected MismatchError for boolean tag, got %v", err)
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func mustChar(r rune, enc CharEncoding) Tag {
	tg, _ := MakeCharTag(r, enc)
	return tg
}

func mustString(s *string, enc CharEncoding) Tag {
	tg, _, _ := MakeStringTag(s, enc)
	return tg
}

func ptr(s string) *string {
	return &s
}

// signedBits returns the two's complement bits of v
func signedBits(v int64) uint64 {
	return uint64(v)
}

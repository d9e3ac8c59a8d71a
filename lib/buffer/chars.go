package buffer

import (
	"fmt"
	"unicode/utf8"

	"github.com/ValentinKolb/accelbuf/lib/tag"
	"golang.org/x/text/encoding/unicode"
)

// --------------------------------------------------------------------------
// Character / String Codec
// --------------------------------------------------------------------------

// asciiReplacement is written for code points above 127 in ASCII mode
const asciiReplacement = '?'

// utf16le is the text encoding used for tag.UTF16 strings
var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// encodeChar appends the encoded form of r to dst.
func encodeChar(dst []byte, r rune, enc tag.CharEncoding) ([]byte, error) {
	switch enc {
	case tag.UTF16:
		if r < 0 || r > 0xFFFF || (r >= 0xD800 && r <= 0xDFFF) {
			return dst, &Error{Kind: KindInvalidChar, Index: noIndex, Detail: fmt.Sprintf("U+%04X does not fit a single UTF-16 code unit", r)}
		}
		return append(dst, byte(r), byte(r>>8)), nil
	case tag.ASCII:
		if r < 0 || r > 127 {
			r = asciiReplacement
		}
		return append(dst, byte(r)), nil
	case tag.UTF8:
		if !utf8.ValidRune(r) {
			return dst, &Error{Kind: KindInvalidChar, Index: noIndex, Detail: fmt.Sprintf("U+%04X is not a valid code point", r)}
		}
		return utf8.AppendRune(dst, r), nil
	default:
		return dst, &Error{Kind: KindInvalidChar, Index: noIndex, Detail: "encoding " + enc.String() + " is not valid for single characters"}
	}
}

// charLength returns the payload length of a single character. For UTF-8 the
// length is derived from the lead byte.
func charLength(enc tag.CharEncoding, lead byte) int {
	switch enc {
	case tag.UTF16:
		return 2
	case tag.UTF8:
		return utf8CharLength(lead)
	default:
		return 1
	}
}

// utf8CharLength classifies a UTF-8 lead byte: 11110xxx -> 4, 1110xxxx -> 3,
// 110xxxxx -> 2, anything else -> 1.
func utf8CharLength(lead byte) int {
	switch {
	case lead>>3 == 0x1E:
		return 4
	case lead>>4 == 0xE:
		return 3
	case lead>>5 == 0x6:
		return 2
	default:
		return 1
	}
}

// decodeChar decodes a single character payload. Malformed UTF-8 is an
// invalid char error.
func decodeChar(b []byte, enc tag.CharEncoding) (rune, error) {
	switch enc {
	case tag.UTF16:
		return rune(b[0]) | rune(b[1])<<8, nil
	case tag.UTF8:
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size <= 1 {
			return 0, &Error{Kind: KindInvalidChar, Index: noIndex, Detail: fmt.Sprintf("malformed UTF-8 sequence % x", b)}
		}
		return r, nil
	default:
		if b[0] > 127 {
			return asciiReplacement, nil
		}
		return rune(b[0]), nil
	}
}

// EncodeText converts s to the byte representation of enc. ASCII replaces
// code points above 127 with '?'. tag.Raw returns the bytes of s unchanged.
func EncodeText(s string, enc tag.CharEncoding) ([]byte, error) {
	switch enc {
	case tag.UTF16:
		b, err := utf16le.NewEncoder().Bytes([]byte(s))
		if err != nil {
			return nil, &Error{Kind: KindInvalidChar, Index: noIndex, Cause: err}
		}
		return b, nil
	case tag.ASCII:
		b := make([]byte, 0, len(s))
		for _, r := range s {
			if r > 127 {
				r = asciiReplacement
			}
			b = append(b, byte(r))
		}
		return b, nil
	default:
		return []byte(s), nil
	}
}

// DecodeText converts the byte representation of enc back into a string.
func DecodeText(b []byte, enc tag.CharEncoding) (string, error) {
	switch enc {
	case tag.UTF16:
		out, err := utf16le.NewDecoder().Bytes(b)
		if err != nil {
			return "", &Error{Kind: KindInvalidChar, Index: noIndex, Cause: err}
		}
		return string(out), nil
	case tag.ASCII:
		out := make([]byte, len(b))
		for i, c := range b {
			if c > 127 {
				c = asciiReplacement
			}
			out[i] = c
		}
		return string(out), nil
	default:
		return string(b), nil
	}
}

package inspect

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"strconv"
	"unicode"

	"github.com/ValentinKolb/accelbuf/lib/buffer"
	"github.com/ValentinKolb/accelbuf/lib/tag"
)

// --------------------------------------------------------------------------
// Input
// --------------------------------------------------------------------------

// decodeHexInput strips whitespace from hex-encoded input and decodes it to
// binary. Whitespace between digit pairs is allowed ("01 04 02" or "010402").
func decodeHexInput(data []byte) ([]byte, error) {
	cleaned := bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, data)

	if len(cleaned) == 0 {
		return nil, fmt.Errorf("empty input after stripping whitespace from hex")
	}

	decoded := make([]byte, hex.DecodedLen(len(cleaned)))
	count, err := hex.Decode(decoded, cleaned)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return decoded[:count], nil
}

// --------------------------------------------------------------------------
// Record Listing
// --------------------------------------------------------------------------

// inspectStream writes one line per field record of data to w. Walking stops
// at the first invalid record; everything up to it has been written by then.
func inspectStream(data []byte, w io.Writer) error {
	in := buffer.NewInputBuffer(data, false)
	count := 0

	for in.Remaining() > 0 {
		r, err := in.NextRecord()
		if err != nil {
			return fmt.Errorf("record %d at offset %d: %w", count, in.Pos(), err)
		}
		if _, err := fmt.Fprintf(w, "%04d  #%-3d %-45s %s\n", r.Offset, r.Index, r.Tag, formatValue(r)); err != nil {
			return err
		}
		count++
	}

	_, err := fmt.Fprintf(w, "%d records, %d bytes\n", count, in.Size())
	return err
}

// formatValue renders the payload of r as far as the tag alone allows. The
// signedness of fixed integers and the width of variable floats are not part
// of the tag, so those are shown as raw bits.
func formatValue(r buffer.Record) string {
	switch r.Tag.TypeCode() {
	case tag.Boolean:
		v, _ := tag.ParseBooleanTag(r.Tag)
		return strconv.FormatBool(v)
	case tag.VariableInteger:
		v := littleEndian(r.Payload)
		if tag.ParseNumberTag(r.Tag).Sign == tag.Negative {
			return strconv.FormatInt(int64(^v), 10)
		}
		return strconv.FormatUint(v, 10)
	case tag.FixedInteger:
		if len(r.Payload) == 0 {
			return "0"
		}
		return fmt.Sprintf("%d (0x%0*x)", littleEndian(r.Payload), len(r.Payload)*2, littleEndian(r.Payload))
	case tag.FixedFloat:
		switch len(r.Payload) {
		case 0:
			return "0"
		case 4:
			return strconv.FormatFloat(float64(math.Float32frombits(uint32(littleEndian(r.Payload)))), 'g', -1, 32)
		default:
			return strconv.FormatFloat(math.Float64frombits(littleEndian(r.Payload)), 'g', -1, 64)
		}
	case tag.VariableFloat:
		return fmt.Sprintf("bits=0x%x", littleEndian(r.Payload))
	case tag.Char:
		return formatText(r)
	default:
		return hex.EncodeToString(r.Payload)
	}
}

func formatText(r buffer.Record) string {
	c := tag.ParseCharTag(r.Tag)
	switch {
	case c.IsDefault && c.Shape == tag.String:
		return "null"
	case c.IsDefault:
		return strconv.QuoteRune(0)
	case c.IsEmpty:
		return `""`
	case c.Encoding == tag.Raw:
		return "0x" + hex.EncodeToString(r.Payload)
	}

	s, err := buffer.DecodeText(r.Payload, c.Encoding)
	if err != nil {
		return "invalid text 0x" + hex.EncodeToString(r.Payload)
	}
	if c.Shape == tag.SingleChar {
		for _, ch := range s {
			return strconv.QuoteRune(ch)
		}
	}
	return strconv.Quote(s)
}

func littleEndian(b []byte) uint64 {
	var v uint64
	for i, c := range b {
		v |= uint64(c) << (uint(i) * 8)
	}
	return v
}

package buffer

import (
	"io"
	"math"
	"strconv"

	"github.com/ValentinKolb/accelbuf/lib/tag"
	"go.uber.org/zap"
)

// --------------------------------------------------------------------------
// Input Buffer
// --------------------------------------------------------------------------

// InputBuffer is a read cursor over a borrowed byte slice. The caller keeps
// ownership of the slice and must not modify it while the buffer is in use.
//
// In strict mode a field read whose index is not the next index in the
// stream fails with a missing field error. In lenient mode the field is
// treated as absent: its zero value is returned and the stream is left
// positioned at the unconsumed index byte. Records with an index below the
// requested one (fields unknown to the reader) are skipped.
type InputBuffer struct {
	data   []byte
	pos    int
	strict bool
	order  fieldOrder
}

// NewInputBuffer creates a buffer reading from data
func NewInputBuffer(data []byte, strict bool) *InputBuffer {
	return &InputBuffer{data: data, strict: strict}
}

// Size returns the number of bytes in the underlying slice
func (in *InputBuffer) Size() int {
	return len(in.data)
}

// Pos returns the read cursor
func (in *InputBuffer) Pos() int {
	return in.pos
}

// Remaining returns the number of unread bytes
func (in *InputBuffer) Remaining() int {
	return len(in.data) - in.pos
}

// PeekIndex returns the index byte of the next record without consuming it.
// It reports false at the end of the input.
func (in *InputBuffer) PeekIndex() (byte, bool) {
	if in.pos >= len(in.data) {
		return 0, false
	}
	return in.data[in.pos], true
}

// Strict reports whether the buffer uses strict field matching
func (in *InputBuffer) Strict() bool {
	return in.strict
}

// BeginRecord starts a nested record: field indices restart at 0 until the
// matching EndRecord.
func (in *InputBuffer) BeginRecord() RecordMark {
	return in.order.begin()
}

// EndRecord closes a nested record started with BeginRecord
func (in *InputBuffer) EndRecord(m RecordMark) {
	in.order.end(m)
}

// --------------------------------------------------------------------------
// Raw Reads
// --------------------------------------------------------------------------

// ReadByte implements io.ByteReader. Reading past the end is an out of
// bounds error.
func (in *InputBuffer) ReadByte() (byte, error) {
	if in.pos >= len(in.data) {
		return 0, outOfBounds(noIndex, 1, 0)
	}
	b := in.data[in.pos]
	in.pos++
	return b, nil
}

// Read implements io.Reader. Unlike ReadRaw it clamps the read to the
// remaining bytes and reports io.EOF once the buffer is exhausted.
func (in *InputBuffer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if in.pos >= len(in.data) {
		return 0, io.EOF
	}
	n := copy(p, in.data[in.pos:])
	in.pos += n
	return n, nil
}

// ReadRaw reads exactly n bytes and returns a copy of them. Fewer than n
// remaining bytes is an out of bounds error and nothing is consumed.
func (in *InputBuffer) ReadRaw(n int) ([]byte, error) {
	b, err := in.take(noIndex, n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// take consumes n bytes and returns them without copying
func (in *InputBuffer) take(index int, n int) ([]byte, error) {
	if n < 0 {
		return nil, &Error{
			Op:       opRead,
			Kind:     KindInvalidLength,
			Index:    index,
			Expected: "length >= 0",
			Actual:   strconv.Itoa(n),
		}
	}
	if n > in.Remaining() {
		return nil, outOfBounds(index, n, in.Remaining())
	}
	b := in.data[in.pos : in.pos+n]
	in.pos += n
	return b, nil
}

// readUint reads count little endian bytes
func (in *InputBuffer) readUint(index int, count int) (uint64, error) {
	b, err := in.take(index, count)
	if err != nil {
		return 0, err
	}
	var v uint64
	for i, c := range b {
		v |= uint64(c) << (uint(i) * 8)
	}
	return v, nil
}

// --------------------------------------------------------------------------
// Field Matching
// --------------------------------------------------------------------------

// matchField positions the cursor after the tag of field index. It reports
// false if the field is absent in lenient mode, in which case the caller
// returns the zero value.
func (in *InputBuffer) matchField(index byte) (tag.Tag, bool, error) {
	if !in.order.advance(index) {
		return 0, false, fieldOrderError(opRead, index, in.order.last)
	}

	for {
		if in.pos >= len(in.data) {
			return 0, false, outOfBounds(int(index), 1, 0)
		}

		actual := in.data[in.pos]
		if actual == index {
			if in.pos+1 >= len(in.data) {
				return 0, false, outOfBounds(int(index), 2, in.Remaining())
			}
			t := tag.Tag(in.data[in.pos+1])
			in.pos += 2
			return t, true, nil
		}

		if in.strict {
			return 0, false, missingField(index, actual)
		}

		if actual > index {
			Logger().Debug("field absent, using zero value",
				zap.Uint8("index", index),
				zap.Uint8("next", actual),
				zap.Int("pos", in.pos))
			return 0, false, nil
		}

		// a record the reader does not know about
		r, err := in.NextRecord()
		if err != nil {
			return 0, false, withIndex(err, index)
		}
		Logger().Debug("skipped unknown field",
			zap.Uint8("index", r.Index),
			zap.Stringer("tag", r.Tag),
			zap.Int("offset", r.Offset))
	}
}

// readNumber matches field index and validates its number tag
func (in *InputBuffer) readNumber(index byte, check func(tag.Number) error) (tag.Number, bool, error) {
	t, ok, err := in.matchField(index)
	if err != nil || !ok {
		return tag.Number{}, false, err
	}
	n := tag.ParseNumberTag(t)
	if err := check(n); err != nil {
		return tag.Number{}, false, tagMismatch(opRead, index, err)
	}
	return n, true, nil
}

// readInteger returns the bits of an integer field of width bytes
func (in *InputBuffer) readInteger(index byte, width int, signed bool, f NumberFormat) (uint64, error) {
	n, ok, err := in.readNumber(index, func(n tag.Number) error {
		return n.CheckInteger(f == Variable, width, signed)
	})
	if err != nil || !ok {
		return 0, err
	}

	payload, err := in.readUint(int(index), n.ByteCount)
	if err != nil {
		return 0, err
	}
	if f == Fixed {
		return payload, nil
	}

	bits, err := tag.DecodeVariableInteger(payload, n.Sign, width, signed)
	if err != nil {
		return 0, tagMismatch(opRead, index, err)
	}
	return bits, nil
}

// readFloat returns the IEEE 754 bits of a float field of width bytes
func (in *InputBuffer) readFloat(index byte, width int, f NumberFormat) (uint64, error) {
	n, ok, err := in.readNumber(index, func(n tag.Number) error {
		return n.CheckFloat(f == Variable, width)
	})
	if err != nil || !ok {
		return 0, err
	}
	return in.readUint(int(index), n.ByteCount)
}

// --------------------------------------------------------------------------
// Field Reads
// --------------------------------------------------------------------------

// ReadInt8 reads an int8 field
func (in *InputBuffer) ReadInt8(index byte, f NumberFormat) (int8, error) {
	v, err := in.readInteger(index, 1, true, f)
	return int8(v), err
}

// ReadUint8 reads a uint8 field
func (in *InputBuffer) ReadUint8(index byte, f NumberFormat) (uint8, error) {
	v, err := in.readInteger(index, 1, false, f)
	return uint8(v), err
}

// ReadInt16 reads an int16 field
func (in *InputBuffer) ReadInt16(index byte, f NumberFormat) (int16, error) {
	v, err := in.readInteger(index, 2, true, f)
	return int16(v), err
}

// ReadUint16 reads a uint16 field
func (in *InputBuffer) ReadUint16(index byte, f NumberFormat) (uint16, error) {
	v, err := in.readInteger(index, 2, false, f)
	return uint16(v), err
}

// ReadInt32 reads an int32 field
func (in *InputBuffer) ReadInt32(index byte, f NumberFormat) (int32, error) {
	v, err := in.readInteger(index, 4, true, f)
	return int32(v), err
}

// ReadUint32 reads a uint32 field
func (in *InputBuffer) ReadUint32(index byte, f NumberFormat) (uint32, error) {
	v, err := in.readInteger(index, 4, false, f)
	return uint32(v), err
}

// ReadInt64 reads an int64 field
func (in *InputBuffer) ReadInt64(index byte, f NumberFormat) (int64, error) {
	v, err := in.readInteger(index, 8, true, f)
	return int64(v), err
}

// ReadUint64 reads a uint64 field
func (in *InputBuffer) ReadUint64(index byte, f NumberFormat) (uint64, error) {
	return in.readInteger(index, 8, false, f)
}

// ReadFloat32 reads a float32 field
func (in *InputBuffer) ReadFloat32(index byte, f NumberFormat) (float32, error) {
	v, err := in.readFloat(index, 4, f)
	return math.Float32frombits(uint32(v)), err
}

// ReadFloat64 reads a float64 field
func (in *InputBuffer) ReadFloat64(index byte, f NumberFormat) (float64, error) {
	v, err := in.readFloat(index, 8, f)
	return math.Float64frombits(v), err
}

// ReadBool reads a boolean field
func (in *InputBuffer) ReadBool(index byte) (bool, error) {
	t, ok, err := in.matchField(index)
	if err != nil || !ok {
		return false, err
	}
	v, err := tag.ParseBooleanTag(t)
	if err != nil {
		return false, tagMismatch(opRead, index, err)
	}
	return v, nil
}

// ReadChar reads a single character field. The null character is returned
// for the default value.
func (in *InputBuffer) ReadChar(index byte, enc tag.CharEncoding) (rune, error) {
	c, ok, err := in.matchChar(index, tag.SingleChar, enc)
	if err != nil || !ok || c.IsDefault {
		return 0, err
	}
	if enc == tag.Raw {
		return 0, &Error{Op: opRead, Kind: KindInvalidChar, Index: int(index), Detail: "encoding raw is not valid for single characters"}
	}
	if in.pos >= len(in.data) {
		return 0, outOfBounds(int(index), 1, 0)
	}
	b, err := in.take(int(index), charLength(enc, in.data[in.pos]))
	if err != nil {
		return 0, err
	}
	r, err := decodeChar(b, enc)
	if err != nil {
		return 0, withIndex(err, index)
	}
	return r, nil
}

// ReadString reads a string field. The null string reads as "".
func (in *InputBuffer) ReadString(index byte, enc tag.CharEncoding) (string, error) {
	s, err := in.ReadNullableString(index, enc)
	if err != nil || s == nil {
		return "", err
	}
	return *s, nil
}

// ReadNullableString reads a string field, returning nil for the null string
// and for an absent field in lenient mode.
func (in *InputBuffer) ReadNullableString(index byte, enc tag.CharEncoding) (*string, error) {
	b, present, err := in.readText(index, enc)
	if err != nil || !present {
		return nil, err
	}
	s, err := DecodeText(b, enc)
	if err != nil {
		return nil, withIndex(err, index)
	}
	return &s, nil
}

// ReadBytes reads a byte slice field written with WriteBytes. The returned
// slice is a copy; nil is returned for a nil slice and for an absent field.
func (in *InputBuffer) ReadBytes(index byte) ([]byte, error) {
	b, present, err := in.readText(index, tag.Raw)
	if err != nil || !present {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// matchChar matches field index and validates its char tag
func (in *InputBuffer) matchChar(index byte, shape tag.CharShape, enc tag.CharEncoding) (tag.CharTag, bool, error) {
	t, ok, err := in.matchField(index)
	if err != nil || !ok {
		return tag.CharTag{}, false, err
	}
	c, err := tag.ParseChar(t)
	if err == nil {
		err = c.Match(shape, enc)
	}
	if err != nil {
		return tag.CharTag{}, false, tagMismatch(opRead, index, err)
	}
	return c, true, nil
}

// readText returns the encoded payload of a string field. present is false
// for the null string.
func (in *InputBuffer) readText(index byte, enc tag.CharEncoding) ([]byte, bool, error) {
	c, ok, err := in.matchChar(index, tag.String, enc)
	if err != nil || !ok || c.IsDefault {
		return nil, false, err
	}
	if c.IsEmpty {
		return []byte{}, true, nil
	}
	n, err := in.readLength(int(index))
	if err != nil {
		return nil, false, err
	}
	b, err := in.take(int(index), n)
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// readLength reads the variable int32 length prefix of a string payload
func (in *InputBuffer) readLength(index int) (int, error) {
	if in.pos >= len(in.data) {
		return 0, outOfBounds(index, 1, 0)
	}
	n := tag.ParseNumberTag(tag.Tag(in.data[in.pos]))
	if err := n.CheckInteger(true, 4, true); err != nil {
		return 0, &Error{Op: opRead, Kind: KindTagMismatch, Index: index, Detail: "length prefix", Cause: err}
	}
	in.pos++

	payload, err := in.readUint(index, n.ByteCount)
	if err != nil {
		return 0, err
	}
	bits, err := tag.DecodeVariableInteger(payload, n.Sign, 4, true)
	if err != nil {
		return 0, &Error{Op: opRead, Kind: KindTagMismatch, Index: index, Detail: "length prefix", Cause: err}
	}

	length := int(int32(bits))
	if length < 0 {
		return 0, &Error{
			Op:       opRead,
			Kind:     KindInvalidLength,
			Index:    index,
			Expected: "length >= 0",
			Actual:   strconv.Itoa(length),
		}
	}
	return length, nil
}

package buffer

import (
	"io"
	"math"
	"strconv"

	"github.com/ValentinKolb/accelbuf/lib/tag"
	"go.uber.org/zap"
)

// --------------------------------------------------------------------------
// Output Buffer
// --------------------------------------------------------------------------

// OutputBuffer is an owned, growable byte region with a write cursor. Field
// writes append [index][tag][payload] records; raw writes append bytes
// verbatim. An OutputBuffer is not safe for concurrent use.
type OutputBuffer struct {
	data    []byte // len(data) is the capacity
	n       int    // write cursor
	initial int
	order   fieldOrder
	scratch [8]byte
}

// NewOutputBuffer creates a buffer with the given initial capacity in bytes.
func NewOutputBuffer(capacity int) (*OutputBuffer, error) {
	if capacity <= 0 {
		return nil, &Error{
			Op:       "new",
			Kind:     KindInvalidCapacity,
			Index:    noIndex,
			Expected: "capacity > 0",
			Actual:   strconv.Itoa(capacity),
		}
	}
	return &OutputBuffer{
		data:    make([]byte, capacity),
		initial: capacity,
	}, nil
}

// Len returns the number of bytes written since the last reset
func (o *OutputBuffer) Len() int {
	return o.n
}

// Cap returns the current capacity of the backing storage
func (o *OutputBuffer) Cap() int {
	return len(o.data)
}

// Released reports whether the backing storage has been released
func (o *OutputBuffer) Released() bool {
	return o.data == nil
}

// ensure grows the storage so that size bytes fit. Growth happens once the
// post-write size reaches the capacity and doubles it, or jumps straight to
// size if doubling is not enough.
func (o *OutputBuffer) ensure(size int) {
	if size < len(o.data) {
		return
	}

	capacity := len(o.data) * 2
	if capacity < size {
		capacity = size
	}
	if capacity < o.initial {
		capacity = o.initial
	}

	data := make([]byte, capacity)
	copy(data, o.data[:o.n])

	Logger().Debug("output buffer grown",
		zap.Int("from", len(o.data)),
		zap.Int("to", capacity),
		zap.Int("written", o.n))

	o.data = data
}

// Reset moves the write cursor to the start without releasing storage
func (o *OutputBuffer) Reset() {
	o.n = 0
	o.order.reset()
}

// Release drops the backing storage. It is safe to call more than once; a
// released buffer allocates its initial capacity again on the next write.
func (o *OutputBuffer) Release() {
	o.data = nil
	o.n = 0
	o.order.reset()
}

// Bytes returns a copy of the bytes written since the last reset
func (o *OutputBuffer) Bytes() []byte {
	out := make([]byte, o.n)
	copy(out, o.data[:o.n])
	return out
}

// CopyTo copies the written bytes into dst and returns the number of bytes
// copied. A dst shorter than Len is an error and nothing is copied.
func (o *OutputBuffer) CopyTo(dst []byte) (int, error) {
	if len(dst) < o.n {
		return 0, &Error{
			Op:       "copy",
			Kind:     KindShortDestination,
			Index:    noIndex,
			Expected: strconv.Itoa(o.n) + " bytes",
			Actual:   strconv.Itoa(len(dst)) + " bytes",
		}
	}
	return copy(dst, o.data[:o.n]), nil
}

// WriteTo implements io.WriterTo by streaming the written bytes to w
func (o *OutputBuffer) WriteTo(w io.Writer) (int64, error) {
	if o.n == 0 {
		return 0, nil
	}
	n, err := w.Write(o.data[:o.n])
	return int64(n), err
}

// --------------------------------------------------------------------------
// Raw Writes
// --------------------------------------------------------------------------

// Write implements io.Writer by appending p verbatim. It never fails.
func (o *OutputBuffer) Write(p []byte) (int, error) {
	o.ensure(o.n + len(p))
	copy(o.data[o.n:], p)
	o.n += len(p)
	return len(p), nil
}

// WriteRaw appends p verbatim, without index or tag
func (o *OutputBuffer) WriteRaw(p []byte) {
	_, _ = o.Write(p)
}

// WriteByte implements io.ByteWriter. It never fails.
func (o *OutputBuffer) WriteByte(b byte) error {
	o.ensure(o.n + 1)
	o.data[o.n] = b
	o.n++
	return nil
}

// putUint appends the low count bytes of v in little endian order
func (o *OutputBuffer) putUint(v uint64, count int) {
	for i := 0; i < count; i++ {
		o.scratch[i] = byte(v >> (uint(i) * 8))
	}
	_, _ = o.Write(o.scratch[:count])
}

// --------------------------------------------------------------------------
// Nested Records
// --------------------------------------------------------------------------

// BeginRecord starts a nested record: field indices restart at 0 until the
// matching EndRecord.
func (o *OutputBuffer) BeginRecord() RecordMark {
	return o.order.begin()
}

// EndRecord closes a nested record started with BeginRecord
func (o *OutputBuffer) EndRecord(m RecordMark) {
	o.order.end(m)
}

// --------------------------------------------------------------------------
// Field Writes
// --------------------------------------------------------------------------

// beginField validates the field order and writes the index byte
func (o *OutputBuffer) beginField(index byte) error {
	if !o.order.advance(index) {
		return fieldOrderError(opWrite, index, o.order.last)
	}
	return o.WriteByte(index)
}

// putInteger writes the tag and payload of an integer of width bytes
func (o *OutputBuffer) putInteger(bits uint64, width int, signed bool, f NumberFormat) {
	if f == Fixed {
		t, n := tag.MakeFixedIntegerTag(bits, width)
		_ = o.WriteByte(byte(t))
		o.putUint(bits, n)
		return
	}
	t, n, payload := tag.MakeVariableIntegerTag(bits, width, signed)
	_ = o.WriteByte(byte(t))
	o.putUint(payload, n)
}

// putFloat writes the tag and payload of the IEEE 754 bits of a float
func (o *OutputBuffer) putFloat(bits uint64, width int, f NumberFormat) {
	var t tag.Tag
	var n int
	if f == Fixed {
		t, n = tag.MakeFixedFloatTag(bits, width)
	} else {
		t, n = tag.MakeVariableFloatTag(bits, width)
	}
	_ = o.WriteByte(byte(t))
	o.putUint(bits, n)
}

func (o *OutputBuffer) writeInteger(index byte, bits uint64, width int, signed bool, f NumberFormat) error {
	if err := o.beginField(index); err != nil {
		return err
	}
	o.putInteger(bits, width, signed, f)
	return nil
}

// WriteInt8 writes an int8 field
func (o *OutputBuffer) WriteInt8(index byte, v int8, f NumberFormat) error {
	return o.writeInteger(index, uint64(v), 1, true, f)
}

// WriteUint8 writes a uint8 field
func (o *OutputBuffer) WriteUint8(index byte, v uint8, f NumberFormat) error {
	return o.writeInteger(index, uint64(v), 1, false, f)
}

// WriteInt16 writes an int16 field
func (o *OutputBuffer) WriteInt16(index byte, v int16, f NumberFormat) error {
	return o.writeInteger(index, uint64(v), 2, true, f)
}

// WriteUint16 writes a uint16 field
func (o *OutputBuffer) WriteUint16(index byte, v uint16, f NumberFormat) error {
	return o.writeInteger(index, uint64(v), 2, false, f)
}

// WriteInt32 writes an int32 field
func (o *OutputBuffer) WriteInt32(index byte, v int32, f NumberFormat) error {
	return o.writeInteger(index, uint64(v), 4, true, f)
}

// WriteUint32 writes a uint32 field
func (o *OutputBuffer) WriteUint32(index byte, v uint32, f NumberFormat) error {
	return o.writeInteger(index, uint64(v), 4, false, f)
}

// WriteInt64 writes an int64 field
func (o *OutputBuffer) WriteInt64(index byte, v int64, f NumberFormat) error {
	return o.writeInteger(index, uint64(v), 8, true, f)
}

// WriteUint64 writes a uint64 field
func (o *OutputBuffer) WriteUint64(index byte, v uint64, f NumberFormat) error {
	return o.writeInteger(index, v, 8, false, f)
}

// WriteFloat32 writes a float32 field
func (o *OutputBuffer) WriteFloat32(index byte, v float32, f NumberFormat) error {
	if err := o.beginField(index); err != nil {
		return err
	}
	o.putFloat(uint64(math.Float32bits(v)), 4, f)
	return nil
}

// WriteFloat64 writes a float64 field
func (o *OutputBuffer) WriteFloat64(index byte, v float64, f NumberFormat) error {
	if err := o.beginField(index); err != nil {
		return err
	}
	o.putFloat(math.Float64bits(v), 8, f)
	return nil
}

// WriteBool writes a boolean field. The value is carried by the tag.
func (o *OutputBuffer) WriteBool(index byte, v bool) error {
	if err := o.beginField(index); err != nil {
		return err
	}
	return o.WriteByte(byte(tag.MakeBooleanTag(v)))
}

// WriteChar writes a single character field. The null character is the
// default value and has no payload.
func (o *OutputBuffer) WriteChar(index byte, r rune, enc tag.CharEncoding) error {
	payload, err := encodeChar(o.scratch[:0], r, enc)
	if err != nil {
		return withIndex(err, index)
	}
	if err := o.beginField(index); err != nil {
		return err
	}
	t, isDefault := tag.MakeCharTag(r, enc)
	_ = o.WriteByte(byte(t))
	if !isDefault {
		_, _ = o.Write(payload)
	}
	return nil
}

// WriteString writes a present string field. Use WriteNullableString to
// write the null string.
func (o *OutputBuffer) WriteString(index byte, s string, enc tag.CharEncoding) error {
	return o.WriteNullableString(index, &s, enc)
}

// WriteNullableString writes a string field. nil and "" are distinct values
// and both are written as a bare tag.
func (o *OutputBuffer) WriteNullableString(index byte, s *string, enc tag.CharEncoding) error {
	var payload []byte
	if s != nil && *s != "" {
		var err error
		if payload, err = EncodeText(*s, enc); err != nil {
			return withIndex(err, index)
		}
	}
	if err := o.beginField(index); err != nil {
		return err
	}
	t, _, _ := tag.MakeStringTag(s, enc)
	o.putText(t, payload)
	return nil
}

// WriteBytes writes a byte slice field as a raw string. nil and empty slices
// are distinct values.
func (o *OutputBuffer) WriteBytes(index byte, b []byte) error {
	if err := o.beginField(index); err != nil {
		return err
	}
	c := tag.CharTag{Shape: tag.String, Encoding: tag.Raw, IsDefault: b == nil, IsEmpty: b != nil && len(b) == 0}
	o.putText(c.Tag(), b)
	return nil
}

// putText writes a string tag, followed by the variable int32 byte length
// and the payload if the payload is not empty.
func (o *OutputBuffer) putText(t tag.Tag, payload []byte) {
	_ = o.WriteByte(byte(t))
	if len(payload) == 0 {
		return
	}
	o.putInteger(uint64(int64(len(payload))), 4, true, Variable)
	_, _ = o.Write(payload)
}

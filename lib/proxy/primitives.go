package proxy

import (
	"fmt"

	"github.com/ValentinKolb/accelbuf/lib/buffer"
	"github.com/ValentinKolb/accelbuf/lib/tag"
)

// --------------------------------------------------------------------------
// Built-in Proxies
// --------------------------------------------------------------------------

// Scalars are written as a single field with index 0. Sequences write their
// element count at index 0, followed by every element at index 0; a nil
// sequence is written with count -1.

// elementIndex is the field index used by all built-in proxies
const elementIndex = 0

// nilCount marks a nil sequence
const nilCount = -1

// BoolProxy serializes bool values
type BoolProxy struct{}

func (BoolProxy) Serialize(v *bool, out *buffer.OutputBuffer) error {
	return out.WriteBool(elementIndex, *v)
}

func (BoolProxy) Deserialize(in *buffer.InputBuffer) (bool, error) {
	return in.ReadBool(elementIndex)
}

// Int32Proxy serializes int32 values
type Int32Proxy struct {
	Format buffer.NumberFormat
}

func (p Int32Proxy) Serialize(v *int32, out *buffer.OutputBuffer) error {
	return out.WriteInt32(elementIndex, *v, p.Format)
}

func (p Int32Proxy) Deserialize(in *buffer.InputBuffer) (int32, error) {
	return in.ReadInt32(elementIndex, p.Format)
}

// Int64Proxy serializes int64 values
type Int64Proxy struct {
	Format buffer.NumberFormat
}

func (p Int64Proxy) Serialize(v *int64, out *buffer.OutputBuffer) error {
	return out.WriteInt64(elementIndex, *v, p.Format)
}

func (p Int64Proxy) Deserialize(in *buffer.InputBuffer) (int64, error) {
	return in.ReadInt64(elementIndex, p.Format)
}

// Uint64Proxy serializes uint64 values
type Uint64Proxy struct {
	Format buffer.NumberFormat
}

func (p Uint64Proxy) Serialize(v *uint64, out *buffer.OutputBuffer) error {
	return out.WriteUint64(elementIndex, *v, p.Format)
}

func (p Uint64Proxy) Deserialize(in *buffer.InputBuffer) (uint64, error) {
	return in.ReadUint64(elementIndex, p.Format)
}

// Float32Proxy serializes float32 values
type Float32Proxy struct {
	Format buffer.NumberFormat
}

func (p Float32Proxy) Serialize(v *float32, out *buffer.OutputBuffer) error {
	return out.WriteFloat32(elementIndex, *v, p.Format)
}

func (p Float32Proxy) Deserialize(in *buffer.InputBuffer) (float32, error) {
	return in.ReadFloat32(elementIndex, p.Format)
}

// Float64Proxy serializes float64 values
type Float64Proxy struct {
	Format buffer.NumberFormat
}

func (p Float64Proxy) Serialize(v *float64, out *buffer.OutputBuffer) error {
	return out.WriteFloat64(elementIndex, *v, p.Format)
}

func (p Float64Proxy) Deserialize(in *buffer.InputBuffer) (float64, error) {
	return in.ReadFloat64(elementIndex, p.Format)
}

// CharProxy serializes single characters. The zero value uses UTF-16.
type CharProxy struct {
	Encoding tag.CharEncoding
}

func (p CharProxy) Serialize(v *rune, out *buffer.OutputBuffer) error {
	return out.WriteChar(elementIndex, *v, p.Encoding)
}

func (p CharProxy) Deserialize(in *buffer.InputBuffer) (rune, error) {
	return in.ReadChar(elementIndex, p.Encoding)
}

// StringProxy serializes strings. The zero value uses UTF-16.
type StringProxy struct {
	Encoding tag.CharEncoding
}

func (p StringProxy) Serialize(v *string, out *buffer.OutputBuffer) error {
	return out.WriteString(elementIndex, *v, p.Encoding)
}

func (p StringProxy) Deserialize(in *buffer.InputBuffer) (string, error) {
	return in.ReadString(elementIndex, p.Encoding)
}

// BytesProxy serializes byte slices, keeping nil and empty slices apart
type BytesProxy struct{}

func (BytesProxy) Serialize(v *[]byte, out *buffer.OutputBuffer) error {
	return out.WriteBytes(elementIndex, *v)
}

func (BytesProxy) Deserialize(in *buffer.InputBuffer) ([]byte, error) {
	return in.ReadBytes(elementIndex)
}

// --------------------------------------------------------------------------
// Sequences
// --------------------------------------------------------------------------

// StringSliceProxy serializes string slices. The zero value uses UTF-16.
type StringSliceProxy struct {
	Encoding tag.CharEncoding
}

func (p StringSliceProxy) Serialize(v *[]string, out *buffer.OutputBuffer) error {
	return writeSequence(out, *v, func(s string) error {
		return out.WriteString(elementIndex, s, p.Encoding)
	})
}

func (p StringSliceProxy) Deserialize(in *buffer.InputBuffer) ([]string, error) {
	return readSequence(in, func() (string, error) {
		return in.ReadString(elementIndex, p.Encoding)
	})
}

// Int64SliceProxy serializes int64 slices
type Int64SliceProxy struct {
	Format buffer.NumberFormat
}

func (p Int64SliceProxy) Serialize(v *[]int64, out *buffer.OutputBuffer) error {
	return writeSequence(out, *v, func(e int64) error {
		return out.WriteInt64(elementIndex, e, p.Format)
	})
}

func (p Int64SliceProxy) Deserialize(in *buffer.InputBuffer) ([]int64, error) {
	return readSequence(in, func() (int64, error) {
		return in.ReadInt64(elementIndex, p.Format)
	})
}

// Float64SliceProxy serializes float64 slices
type Float64SliceProxy struct {
	Format buffer.NumberFormat
}

func (p Float64SliceProxy) Serialize(v *[]float64, out *buffer.OutputBuffer) error {
	return writeSequence(out, *v, func(e float64) error {
		return out.WriteFloat64(elementIndex, e, p.Format)
	})
}

func (p Float64SliceProxy) Deserialize(in *buffer.InputBuffer) ([]float64, error) {
	return readSequence(in, func() (float64, error) {
		return in.ReadFloat64(elementIndex, p.Format)
	})
}

func writeSequence[E any](out *buffer.OutputBuffer, s []E, write func(E) error) error {
	count := int32(len(s))
	if s == nil {
		count = nilCount
	}
	if err := out.WriteInt32(elementIndex, count, buffer.Variable); err != nil {
		return err
	}
	for _, e := range s {
		if err := write(e); err != nil {
			return err
		}
	}
	return nil
}

func readSequence[E any](in *buffer.InputBuffer, read func() (E, error)) ([]E, error) {
	// an absent sequence reads as nil, not as an empty one
	if !in.Strict() {
		if next, ok := in.PeekIndex(); ok && next != elementIndex {
			return nil, nil
		}
	}
	count, err := in.ReadInt32(elementIndex, buffer.Variable)
	if err != nil {
		return nil, err
	}
	if count == nilCount {
		return nil, nil
	}
	// every element takes at least an index and a tag byte
	if count < 0 || int(count) > in.Remaining()/2 {
		return nil, fmt.Errorf("element count %d does not fit %d remaining bytes: %w", count, in.Remaining(), buffer.ErrInvalidLength)
	}

	s := make([]E, count)
	for i := range s {
		if s[i], err = read(); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return s, nil
}

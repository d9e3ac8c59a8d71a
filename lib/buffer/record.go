package buffer

import (
	"strconv"

	"github.com/ValentinKolb/accelbuf/lib/tag"
)

// --------------------------------------------------------------------------
// Schema-less Record Walking
// --------------------------------------------------------------------------

// Record is one field record as found in the stream. Payload aliases the
// input and holds the value bytes; for strings the length prefix is not part
// of the payload.
type Record struct {
	Index   byte
	Tag     tag.Tag
	Payload []byte
	Offset  int // position of the index byte
	Size    int // total bytes of the record
}

// NextRecord consumes the next field record without knowing its schema. The
// payload length is derived from the tag alone. Invalid tags are reported as
// tag mismatch errors and leave the cursor unchanged.
func (in *InputBuffer) NextRecord() (Record, error) {
	start := in.pos
	r, err := in.nextRecord()
	if err != nil {
		in.pos = start
		return Record{}, err
	}
	r.Offset = start
	r.Size = in.pos - start
	return r, nil
}

func (in *InputBuffer) nextRecord() (Record, error) {
	if in.Remaining() < 2 {
		return Record{}, outOfBounds(noIndex, 2, in.Remaining())
	}

	r := Record{Index: in.data[in.pos], Tag: tag.Tag(in.data[in.pos+1])}
	in.pos += 2
	index := int(r.Index)

	var n int
	switch r.Tag.TypeCode() {
	case tag.Boolean:
		n = 0
	case tag.VariableInteger, tag.VariableFloat:
		n = tag.ParseNumberTag(r.Tag).ByteCount
		if n > 8 {
			return Record{}, invalidTag(index, r.Tag, "byte count "+strconv.Itoa(n)+" exceeds 8")
		}
	case tag.FixedInteger, tag.FixedFloat:
		n = tag.ParseNumberTag(r.Tag).ByteCount
		if n != 0 && n != 1 && n != 2 && n != 4 && n != 8 {
			return Record{}, invalidTag(index, r.Tag, "fixed byte count "+strconv.Itoa(n))
		}
	case tag.Char:
		c := tag.ParseCharTag(r.Tag)
		switch {
		case c.IsDefault || c.IsEmpty:
			n = 0
		case c.Shape == tag.SingleChar:
			if c.Encoding == tag.Raw {
				return Record{}, invalidTag(index, r.Tag, "raw encoding on a single character")
			}
			if in.pos >= len(in.data) {
				return Record{}, outOfBounds(index, 1, 0)
			}
			n = charLength(c.Encoding, in.data[in.pos])
		default:
			length, err := in.readLength(index)
			if err != nil {
				return Record{}, err
			}
			n = length
		}
	default:
		return Record{}, invalidTag(index, r.Tag, "unassigned type code")
	}

	payload, err := in.take(index, n)
	if err != nil {
		return Record{}, err
	}
	r.Payload = payload
	return r, nil
}

func invalidTag(index int, t tag.Tag, detail string) *Error {
	return &Error{
		Op:     opRead,
		Kind:   KindTagMismatch,
		Index:  index,
		Actual: "0x" + strconv.FormatUint(uint64(t), 16),
		Detail: detail,
	}
}

package buffer

// --------------------------------------------------------------------------
// Field Protocol
// --------------------------------------------------------------------------

// Every value on the wire is a field record [index][tag][payload]. Writers and
// readers must enumerate the fields of a record in ascending index order; both
// buffers enforce this by tracking the highest index used in the current
// record. Repeating an index is allowed so that sequences can write every
// element under the same index.

const (
	opRead  = "read"
	opWrite = "write"
)

// NumberFormat selects the wire layout of a numeric field.
type NumberFormat uint8

const (
	// Variable writes the minimal number of low order bytes.
	Variable NumberFormat = iota
	// Fixed writes the full native width, or nothing for the zero value.
	Fixed
)

// String returns the string representation of a NumberFormat.
func (f NumberFormat) String() string {
	if f == Fixed {
		return "fixed"
	}
	return "variable"
}

// RecordMark is the saved field order state of an enclosing record,
// returned by BeginRecord and consumed by EndRecord.
type RecordMark int

// fieldOrder tracks the last field index of the current record
type fieldOrder struct {
	last int
}

// advance records index as the current field. It reports false if index is
// lower than the previous field of the record.
func (o *fieldOrder) advance(index byte) bool {
	if int(index) < o.last {
		return false
	}
	o.last = int(index)
	return true
}

// begin starts a nested record and returns the enclosing state
func (o *fieldOrder) begin() RecordMark {
	m := RecordMark(o.last)
	o.last = 0
	return m
}

// end restores the enclosing record's state
func (o *fieldOrder) end(m RecordMark) {
	o.last = int(m)
}

func (o *fieldOrder) reset() {
	o.last = 0
}

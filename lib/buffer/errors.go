package buffer

import (
	"strconv"
	"strings"
)

// Kind categorizes buffer errors
type Kind string

const (
	KindTagMismatch      Kind = "tag_mismatch"      // tag type, sign, width, encoding or shape differs
	KindMissingField     Kind = "missing_field"     // strict mode: expected index not found
	KindOutOfBounds      Kind = "out_of_bounds"     // read past the end of the input
	KindInvalidCapacity  Kind = "invalid_capacity"  // non-positive initial capacity
	KindFieldOrder       Kind = "field_order"       // index lower than the previous one
	KindInvalidChar      Kind = "invalid_char"      // character not representable in the encoding
	KindShortDestination Kind = "short_destination" // CopyTo target too small
	KindInvalidLength    Kind = "invalid_length"    // negative length prefix or raw read size
)

// noIndex marks errors that are not tied to a field
const noIndex = -1

// Sentinel errors for errors.Is checks. Matching compares the Kind only.
var (
	ErrTagMismatch      = &Error{Kind: KindTagMismatch, Index: noIndex}
	ErrMissingField     = &Error{Kind: KindMissingField, Index: noIndex}
	ErrOutOfBounds      = &Error{Kind: KindOutOfBounds, Index: noIndex}
	ErrInvalidCapacity  = &Error{Kind: KindInvalidCapacity, Index: noIndex}
	ErrFieldOrder       = &Error{Kind: KindFieldOrder, Index: noIndex}
	ErrInvalidChar      = &Error{Kind: KindInvalidChar, Index: noIndex}
	ErrShortDestination = &Error{Kind: KindShortDestination, Index: noIndex}
	ErrInvalidLength    = &Error{Kind: KindInvalidLength, Index: noIndex}
)

// Error is the structured error returned by all buffer operations. Index is
// the field index the operation worked on, or -1 for raw operations.
type Error struct {
	Cause    error
	Op       string
	Kind     Kind
	Expected string
	Actual   string
	Detail   string
	Index    int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(string(e.Kind))

	if e.Index >= 0 {
		b.WriteString(" at field ")
		b.WriteString(strconv.Itoa(e.Index))
	}

	if e.Expected != "" || e.Actual != "" {
		b.WriteString(": expected ")
		b.WriteString(e.Expected)
		b.WriteString(", got ")
		b.WriteString(e.Actual)
	}

	if e.Detail != "" {
		b.WriteString(" (")
		b.WriteString(e.Detail)
		b.WriteByte(')')
	}

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same Kind
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// --------------------------------------------------------------------------
// Constructors
// --------------------------------------------------------------------------

func tagMismatch(op string, index byte, cause error) *Error {
	return &Error{Op: op, Kind: KindTagMismatch, Index: int(index), Cause: cause}
}

func missingField(index, actual byte) *Error {
	return &Error{
		Op:       opRead,
		Kind:     KindMissingField,
		Index:    int(index),
		Expected: "index " + strconv.Itoa(int(index)),
		Actual:   "index " + strconv.Itoa(int(actual)),
	}
}

func outOfBounds(index int, need, remaining int) *Error {
	return &Error{
		Op:       opRead,
		Kind:     KindOutOfBounds,
		Index:    index,
		Expected: strconv.Itoa(need) + " bytes",
		Actual:   strconv.Itoa(remaining) + " remaining",
	}
}

func fieldOrderError(op string, index byte, last int) *Error {
	return &Error{
		Op:       op,
		Kind:     KindFieldOrder,
		Index:    int(index),
		Expected: "index >= " + strconv.Itoa(last),
		Actual:   "index " + strconv.Itoa(int(index)),
	}
}

// withIndex attaches a field index to errors raised by raw operations.
func withIndex(err error, index byte) error {
	if e, ok := err.(*Error); ok && e.Index < 0 {
		c := *e
		c.Index = int(index)
		return &c
	}
	return err
}

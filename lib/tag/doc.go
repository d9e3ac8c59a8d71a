// Package tag implements the one byte value descriptor that precedes every
// payload on the accelbuf wire. A tag packs a 3 bit type code together with
// type specific flags: the boolean value itself, the shape, encoding and
// default/empty flags of characters and strings, or the sign and the number of
// payload bytes of a number.
//
// Layouts (high bit first):
//
//	boolean          [type(3) value(1) unused(4)]
//	char / string    [type(3) shape(1) default(1) encoding(2) empty(1)]
//	variable number  [type(3) sign(1) byte_count(4)]
//	fixed number     [type(3) byte_count(4) reserved(1)]
//
// Variable width integers are written as the minimal number of low order
// bytes that still hold every set bit. Negative values are stored as their
// one's complement (bitwise NOT) with the sign flag set, so small negative
// numbers compress as well as small positive ones. Fixed width numbers are
// either elided entirely (zero value, byte count 0) or written at full width.
//
// The package is pure: no I/O and no state. The buffer package combines tags
// with payload bytes and field indices.
package tag

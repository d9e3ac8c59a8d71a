/*
Package buffer implements the read and write side of the accelbuf wire format.

An OutputBuffer accumulates field records of the form

	[index byte][tag byte][payload]

where the tag (see package tag) describes the type and width of the payload.
Field indices must be written in ascending order within a record; repeating an
index is allowed for sequences. Raw writes bypass the record framing.

An InputBuffer reads the same records back. Every field read names the index
and type it expects:

  - a matching index is decoded, a tag that does not fit the requested type is
    always an error
  - in strict mode any other index is a missing field error
  - in lenient mode a higher index means the field is absent and the zero value
    is returned without consuming anything, a lower index is an unknown field
    and is skipped

Reading past the end of the input is an out of bounds error for field reads and
ReadRaw. Read implements io.Reader and clamps to the remaining bytes instead.

All errors are *Error values and can be matched with errors.Is against the
Err* sentinels:

	if errors.Is(err, buffer.ErrMissingField) {
		...
	}

Neither buffer is safe for concurrent use.
*/
package buffer

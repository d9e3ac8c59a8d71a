// Package serializer provides pluggable value serialization behind a common
// interface, so the accelbuf wire format can be compared with and swapped for
// general purpose encodings.
//
// Key Components:
//
//   - ISerializer: Core interface that all serializer implementations must satisfy.
//
//   - accelSerializerImpl: The accelbuf tag-based binary format, driven by a
//     proxy.IProxy. Fields are written with an index and a one byte tag, zero
//     values are elided and integers use the minimal number of bytes.
//
//   - cborSerializerImpl: Deterministic CBOR (fxamacker/cbor). Compact and self
//     describing; Message uses integer keys to keep the payload small.
//
//   - msgpackSerializerImpl: MessagePack (vmihailenco/msgpack), similar in size to
//     CBOR.
//
//   - jsonSerializerImpl: JSON encoding, useful for debugging but with the largest
//     payloads.
//
//   - gobSerializerImpl: Go's gob encoding. Carries type information in every
//     message and is the slowest for small values.
//
// Only the accel format distinguishes nil from empty byte slices and strings;
// the other formats omit empty fields.
//
// Thread Safety:
//
//	All serializer implementations are safe for concurrent use. The accel
//	serializer serializes calls on its cached output buffer.
//
// Usage:
//
//	s, err := serializer.NewMessageSerializer("accel", proxy.DefaultContract())
//	data, err := s.Serialize(msg)
//	// ... send data ...
//	var received message.Message
//	err = s.Deserialize(data, &received)
package serializer

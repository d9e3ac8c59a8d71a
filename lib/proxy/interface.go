package proxy

import "github.com/ValentinKolb/accelbuf/lib/buffer"

// IProxy is the per-type serialization code for T. Implementations call the
// buffer's field operations for every declared field of T in ascending index
// order, on both the write and the read side.
type IProxy[T any] interface {
	// Serialize writes the fields of v to out
	Serialize(v *T, out *buffer.OutputBuffer) error
	// Deserialize reads the fields of T from in and returns the value
	Deserialize(in *buffer.InputBuffer) (T, error)
}

// IMessageReceiver can be implemented by a type to be notified around
// serialization. Both hooks are called on a pointer to the value.
type IMessageReceiver interface {
	// OnBeforeSerialize is called before the value is written
	OnBeforeSerialize()
	// OnAfterDeserialize is called after the value has been read
	OnAfterDeserialize()
}

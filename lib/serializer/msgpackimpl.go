package serializer

import (
	"github.com/vmihailenco/msgpack/v5"
)

// NewMsgPackSerializer creates a new serializer using MessagePack encoding
func NewMsgPackSerializer[T any]() ISerializer[T] {
	return &msgpackSerializerImpl[T]{}
}

// msgpackSerializerImpl implements the ISerializer interface using MessagePack
type msgpackSerializerImpl[T any] struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (m msgpackSerializerImpl[T]) Serialize(v T) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (m msgpackSerializerImpl[T]) Deserialize(b []byte, v *T) error {
	return msgpack.Unmarshal(b, v)
}

func (m msgpackSerializerImpl[T]) Name() string {
	return "msgpack"
}

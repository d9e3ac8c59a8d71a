package serializer

import (
	"github.com/fxamacker/cbor/v2"
)

// encMode is the CBOR encoder configured with Core Deterministic Encoding:
// sorted map keys, smallest integer encoding, no indefinite-length items.
var encMode cbor.EncMode

// decMode is the CBOR decoder. Unknown fields are ignored.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("serializer: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("serializer: CBOR decoder initialization failed: " + err.Error())
	}
}

// NewCBORSerializer creates a new serializer using deterministic CBOR encoding
func NewCBORSerializer[T any]() ISerializer[T] {
	return &cborSerializerImpl[T]{}
}

// cborSerializerImpl implements the ISerializer interface using CBOR encoding
type cborSerializerImpl[T any] struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (c cborSerializerImpl[T]) Serialize(v T) ([]byte, error) {
	return encMode.Marshal(v)
}

func (c cborSerializerImpl[T]) Deserialize(b []byte, v *T) error {
	return decMode.Unmarshal(b, v)
}

func (c cborSerializerImpl[T]) Name() string {
	return "cbor"
}

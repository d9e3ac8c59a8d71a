package serializer

import (
	"github.com/ValentinKolb/accelbuf/lib/proxy"
)

// NewAccelSerializer creates a new serializer using the accelbuf wire format
// with proxy p
func NewAccelSerializer[T any](p proxy.IProxy[T], c proxy.Contract) (ISerializer[T], error) {
	s, err := proxy.NewSerializer(p, c)
	if err != nil {
		return nil, err
	}
	return &accelSerializerImpl[T]{s: s}, nil
}

// accelSerializerImpl implements the ISerializer interface using a proxy
// serializer
type accelSerializerImpl[T any] struct {
	s *proxy.Serializer[T]
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (a *accelSerializerImpl[T]) Serialize(v T) ([]byte, error) {
	return a.s.Serialize(v)
}

func (a *accelSerializerImpl[T]) Deserialize(b []byte, v *T) error {
	res, err := a.s.Deserialize(b)
	if err != nil {
		return err
	}
	*v = res
	return nil
}

func (a *accelSerializerImpl[T]) Name() string {
	return "accel"
}

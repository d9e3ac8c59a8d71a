package proxy

import (
	"fmt"
	"io"
	"reflect"
	"sync"

	"github.com/ValentinKolb/accelbuf/lib/buffer"
	"go.uber.org/zap"
)

// --------------------------------------------------------------------------
// Serializer
// --------------------------------------------------------------------------

// Serializer serializes values of T through a proxy. It owns one cached
// output buffer that is reused across calls; the buffer is guarded by a mutex
// for the whole write sequence, so a Serializer is safe for concurrent use.
type Serializer[T any] struct {
	mu       sync.Mutex
	proxy    IProxy[T]
	contract Contract
	out      *buffer.OutputBuffer
	name     string
	metrics  *serializerMetrics
}

// NewSerializer creates a serializer for T using proxy p and contract c. The
// output buffer is allocated on first use.
func NewSerializer[T any](p IProxy[T], c Contract) (*Serializer[T], error) {
	if p == nil {
		return nil, fmt.Errorf("proxy must not be nil")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	name := reflect.TypeOf((*T)(nil)).Elem().String()
	Logger().Debug("serializer created",
		zap.String("type", name),
		zap.Int("initialBufferSize", c.InitialBufferSize),
		zap.Bool("strict", c.StrictMode))

	return &Serializer[T]{
		proxy:    p,
		contract: c,
		name:     name,
		metrics:  newSerializerMetrics(name),
	}, nil
}

// Name returns the name of the serialized type
func (s *Serializer[T]) Name() string {
	return s.name
}

// Contract returns the contract of the serializer
func (s *Serializer[T]) Contract() Contract {
	return s.contract
}

// Serialize encodes v and returns the bytes
func (s *Serializer[T]) Serialize(v T) ([]byte, error) {
	var data []byte
	err := s.write(&v, func(out *buffer.OutputBuffer) error {
		data = out.Bytes()
		return nil
	})
	return data, err
}

// SerializeTo encodes v and writes the bytes to w
func (s *Serializer[T]) SerializeTo(w io.Writer, v T) (int64, error) {
	var n int64
	err := s.write(&v, func(out *buffer.OutputBuffer) error {
		var err error
		n, err = out.WriteTo(w)
		return err
	})
	return n, err
}

// write runs the proxy against the cached buffer and hands the result to
// emit while the lock is held
func (s *Serializer[T]) write(v *T, emit func(out *buffer.OutputBuffer) error) error {
	if r, ok := any(v).(IMessageReceiver); ok {
		r.OnBeforeSerialize()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.out == nil {
		out, err := buffer.NewOutputBuffer(s.contract.InitialBufferSize)
		if err != nil {
			return err
		}
		s.out = out
	}
	defer s.out.Reset()

	if err := s.proxy.Serialize(v, s.out); err != nil {
		s.metrics.onSerialize(0, err)
		return fmt.Errorf("failed to serialize %s: %w", s.name, err)
	}

	size := s.out.Len()
	err := emit(s.out)
	s.metrics.onSerialize(size, err)
	return err
}

// Deserialize decodes a value from data. Empty data yields the zero value.
func (s *Serializer[T]) Deserialize(data []byte) (T, error) {
	var v T
	if len(data) == 0 {
		return v, nil
	}

	v, err := s.proxy.Deserialize(buffer.NewInputBuffer(data, s.contract.StrictMode))
	s.metrics.onDeserialize(len(data), err)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to deserialize %s: %w", s.name, err)
	}

	if r, ok := any(&v).(IMessageReceiver); ok {
		r.OnAfterDeserialize()
	}
	return v, nil
}

// DeserializeFrom reads r to the end and decodes a value from it
func (s *Serializer[T]) DeserializeFrom(r io.Reader) (T, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to read %s: %w", s.name, err)
	}
	return s.Deserialize(data)
}

// BufferCapacity returns the capacity of the cached output buffer, or 0 if
// no buffer is allocated
func (s *Serializer[T]) BufferCapacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.out == nil {
		return 0
	}
	return s.out.Cap()
}

// Release frees the cached output buffer. The serializer stays usable and
// allocates a new buffer on the next call.
func (s *Serializer[T]) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.out != nil {
		s.out.Release()
		s.out = nil
		Logger().Debug("serializer buffer released", zap.String("type", s.name))
	}
}

package proxy

import (
	"fmt"
	"reflect"

	"github.com/puzpuzpuz/xsync/v3"
)

// --------------------------------------------------------------------------
// Proxy Registry
// --------------------------------------------------------------------------

// Registry maps types to their proxies. It is safe for concurrent use.
type Registry struct {
	proxies *xsync.MapOf[reflect.Type, any]
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		proxies: xsync.NewMapOf[reflect.Type, any](),
	}
}

// NewBuiltinRegistry creates a registry holding the proxies of this package
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	Register[bool](r, BoolProxy{})
	Register[int32](r, Int32Proxy{})
	Register[int64](r, Int64Proxy{})
	Register[uint64](r, Uint64Proxy{})
	Register[float32](r, Float32Proxy{})
	Register[float64](r, Float64Proxy{})
	Register[string](r, StringProxy{})
	Register[[]byte](r, BytesProxy{})
	Register[[]string](r, StringSliceProxy{})
	Register[[]int64](r, Int64SliceProxy{})
	Register[[]float64](r, Float64SliceProxy{})
	return r
}

// typeOf returns the reflect.Type of T, including interface types
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Register stores p as the proxy of T, replacing a previous registration
func Register[T any](r *Registry, p IProxy[T]) {
	r.proxies.Store(typeOf[T](), p)
}

// Lookup returns the proxy registered for T
func Lookup[T any](r *Registry) (IProxy[T], error) {
	v, ok := r.proxies.Load(typeOf[T]())
	if !ok {
		return nil, fmt.Errorf("no proxy registered for %s", typeOf[T]())
	}
	return v.(IProxy[T]), nil
}

// SerializerFor creates a serializer for T from the registered proxy
func SerializerFor[T any](r *Registry, c Contract) (*Serializer[T], error) {
	p, err := Lookup[T](r)
	if err != nil {
		return nil, err
	}
	return NewSerializer(p, c)
}

// Types returns the names of all registered types
func (r *Registry) Types() []string {
	names := make([]string, 0, r.proxies.Size())
	r.proxies.Range(func(t reflect.Type, _ any) bool {
		names = append(names, t.String())
		return true
	})
	return names
}

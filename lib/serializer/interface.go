package serializer

// ISerializer is the interface for all value serializers
type ISerializer[T any] interface {
	// Serialize serializes a value into a byte array
	// It returns the serialized byte array and an error if any
	Serialize(v T) ([]byte, error)
	// Deserialize deserializes a byte array into a value
	// It takes a byte array and a pointer to the value as parameters
	// It returns an error if any
	Deserialize(b []byte, v *T) error
	// Name returns the name of the wire format
	Name() string
}

package serializer

import (
	"reflect"
	"testing"

	"github.com/ValentinKolb/accelbuf/lib/buffer"
	"github.com/ValentinKolb/accelbuf/lib/message"
	"github.com/ValentinKolb/accelbuf/lib/proxy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() ISerializer[message.Message]{
	"Accel": func() ISerializer[message.Message] {
		s, err := NewAccelSerializer[message.Message](message.Proxy{}, proxy.DefaultContract())
		if err != nil {
			panic(err)
		}
		return s
	},
	"JSON":    NewJSONSerializer[message.Message],
	"GOB":     NewGOBSerializer[message.Message],
	"CBOR":    NewCBORSerializer[message.Message],
	"MsgPack": NewMsgPackSerializer[message.Message],
}

// testMessages creates a set of test messages with different fields filled
func testMessages() []message.Message {
	return []message.Message{
		// Basic message with just a type
		{MsgType: message.MsgTSuccess},

		// Set request
		{
			MsgType: message.MsgTKVSet,
			Key:     "test-key",
			Value:   []byte("test-value"),
		},

		// Get response
		{
			MsgType: message.MsgTKVGet,
			Key:     "test-key",
			Value:   []byte("test-value"),
			Ok:      true,
		},

		// Error response
		{
			MsgType: message.MsgTError,
			Err:     "test error message",
		},

		// Message with all fields filled
		{
			MsgType:  message.MsgTLCKAcquire,
			Key:      "test-lock-key",
			ExpireIn: 60,
			DeleteIn: 300,
			Value:    []byte("test-lock-value"),
			Ok:       true,
			Err:      "",
			Meta:     []byte("test-meta-data"),
		},
	}
}

// TestSerializerRoundTrip tests that messages can be serialized and deserialized correctly
func TestSerializerRoundTrip(t *testing.T) {
	messages := testMessages()

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for i, msg := range messages {
				// Serialize
				data, err := serializer.Serialize(msg)
				if err != nil {
					t.Errorf("Failed to serialize message %d: %v", i, err)
					continue
				}

				// Deserialize
				var result message.Message
				err = serializer.Deserialize(data, &result)
				if err != nil {
					t.Errorf("Failed to deserialize message %d: %v", i, err)
					continue
				}

				// Compare
				if !reflect.DeepEqual(msg, result) {
					t.Errorf("Message %d doesn't match after round trip:\nOriginal: %+v\nResult: %+v",
						i, msg, result)
				}
			}
		})
	}
}

// TestMessageTypes tests each message type with each serializer
func TestMessageTypes(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for msgType := message.MsgTSuccess; msgType <= message.MsgTCustom; msgType++ {
				data, err := serializer.Serialize(message.Message{MsgType: msgType})
				require.NoError(t, err, "serialize %s", msgType)

				var result message.Message
				require.NoError(t, serializer.Deserialize(data, &result), "deserialize %s", msgType)
				assert.Equal(t, msgType, result.MsgType)
			}
		})
	}
}

// TestAccelSmallerThanTextFormats checks that the accel format beats JSON and
// GOB on a fully populated message
func TestAccelSmallerThanTextFormats(t *testing.T) {
	msg := testMessages()[4]

	accel, err := testSerializers["Accel"]().Serialize(msg)
	require.NoError(t, err)

	for _, name := range []string{"JSON", "GOB"} {
		data, err := testSerializers[name]().Serialize(msg)
		require.NoError(t, err)
		assert.Less(t, len(accel), len(data), "accel vs %s", name)
	}
}

// TestAccelNilAndEmpty tests that the accel format keeps nil and empty slices apart
func TestAccelNilAndEmpty(t *testing.T) {
	serializer := testSerializers["Accel"]()

	msg := message.Message{MsgType: message.MsgTKVSet, Key: "k", Value: []byte{}}
	data, err := serializer.Serialize(msg)
	require.NoError(t, err)

	var result message.Message
	require.NoError(t, serializer.Deserialize(data, &result))
	assert.NotNil(t, result.Value)
	assert.Empty(t, result.Value)
	assert.Nil(t, result.Meta)
}

// TestInvalidAccelData tests how the accel serializer handles corrupt or invalid data
func TestInvalidAccelData(t *testing.T) {
	serializer := testSerializers["Accel"]()

	testCases := []struct {
		name        string
		data        []byte
		expectError error
	}{
		{
			name: "Empty data",
			data: []byte{},
		},
		{
			name:        "Index without tag",
			data:        []byte{1},
			expectError: buffer.ErrOutOfBounds,
		},
		{
			name:        "Invalid length for key",
			data:        []byte{1, 0x01, 0x03, 2, 0xB4, 0x01, 0x05, 'a', 'b', 'c'}, // Claims key length 5 but only 3 bytes provided
			expectError: buffer.ErrOutOfBounds,
		},
		{
			name:        "Unassigned type code",
			data:        []byte{1, 0xE0},
			expectError: buffer.ErrTagMismatch,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var msg message.Message
			err := serializer.Deserialize(tc.data, &msg)

			if tc.expectError == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.expectError)
			}
		})
	}
}

// TestNewMessageSerializer tests the lookup by wire format name
func TestNewMessageSerializer(t *testing.T) {
	assert.Equal(t, []string{"accel", "cbor", "gob", "json", "msgpack"}, Names())

	for _, name := range Names() {
		s, err := NewMessageSerializer(name, proxy.DefaultContract())
		require.NoError(t, err)
		assert.Equal(t, name, s.Name())
	}

	_, err := NewMessageSerializer("xml", proxy.DefaultContract())
	assert.Error(t, err)
}

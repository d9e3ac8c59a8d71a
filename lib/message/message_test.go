package message

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/ValentinKolb/accelbuf/lib/buffer"
	"github.com/ValentinKolb/accelbuf/lib/proxy"
	"github.com/ValentinKolb/accelbuf/lib/tag"
)

// testMessages creates a set of test messages with different fields filled
func testMessages() []Message {
	return []Message{
		// Basic message with just a type
		{MsgType: MsgTSuccess},

		// Set request
		*NewSetRequest("test-key", []byte("test-value")),

		// Get response
		*NewGetResponse([]byte("test-value"), true, nil),

		// Error response
		*NewErrorResponse("test error message"),

		// Empty but non-nil slices
		{MsgType: MsgTKVSet, Key: "test", Value: []byte{}, Meta: []byte{}},

		// Message with all fields filled
		{
			MsgType:  MsgTLCKAcquire,
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

// TestProxyRoundTrip tests that messages survive a round trip in both matching modes
func TestProxyRoundTrip(t *testing.T) {
	for _, strict := range []bool{true, false} {
		s, err := NewSerializer(proxy.Contract{InitialBufferSize: 32, StrictMode: strict})
		if err != nil {
			t.Fatalf("NewSerializer failed: %v", err)
		}

		for i, msg := range testMessages() {
			data, err := s.Serialize(msg)
			if err != nil {
				t.Errorf("Failed to serialize message %d: %v", i, err)
				continue
			}

			result, err := s.Deserialize(data)
			if err != nil {
				t.Errorf("Failed to deserialize message %d: %v", i, err)
				continue
			}

			if !reflect.DeepEqual(msg, result) {
				t.Errorf("Message %d doesn't match after round trip:\nOriginal: %+v\nResult: %+v", i, msg, result)
			}
		}
	}
}

// TestMessageTypes tests each message type with the proxy
func TestMessageTypes(t *testing.T) {
	s, err := NewSerializer(proxy.DefaultContract())
	if err != nil {
		t.Fatalf("NewSerializer failed: %v", err)
	}

	for msgType := MsgTUnknown; msgType <= MsgTCustom; msgType++ {
		data, err := s.Serialize(Message{MsgType: msgType})
		if err != nil {
			t.Errorf("Failed to serialize message type %s: %v", msgType, err)
			continue
		}
		result, err := s.Deserialize(data)
		if err != nil {
			t.Errorf("Failed to deserialize message type %s: %v", msgType, err)
			continue
		}
		if result.MsgType != msgType {
			t.Errorf("Message type doesn't match after round trip: Expected %s, got %s", msgType, result.MsgType)
		}
	}
}

// TestMessageTypeJSON tests the string mapping used by the JSON encoding
func TestMessageTypeJSON(t *testing.T) {
	for msgType := MsgTUnknown; msgType <= MsgTCustom; msgType++ {
		data, err := json.Marshal(msgType)
		if err != nil {
			t.Fatalf("Marshal(%d) failed: %v", msgType, err)
		}
		var result MessageType
		if err := json.Unmarshal(data, &result); err != nil {
			t.Fatalf("Unmarshal(%s) failed: %v", data, err)
		}
		if result != msgType {
			t.Errorf("expected %s, got %s", msgType, result)
		}
	}

	if _, err := ParseMessageType("nope"); err == nil {
		t.Errorf("expected error for unknown message type name")
	}
}

// --------------------------------------------------------------------------
// Compatibility
// --------------------------------------------------------------------------

// keyOnlyProxy reads messages like a reader built before ExpireIn, DeleteIn
// and everything after Value existed
type keyOnlyProxy struct{}

func (keyOnlyProxy) Serialize(m *Message, out *buffer.OutputBuffer) error {
	if err := out.WriteUint8(fieldMsgType, uint8(m.MsgType), buffer.Variable); err != nil {
		return err
	}
	if err := out.WriteString(fieldKey, m.Key, tag.UTF8); err != nil {
		return err
	}
	return out.WriteBytes(fieldValue, m.Value)
}

func (keyOnlyProxy) Deserialize(in *buffer.InputBuffer) (Message, error) {
	var m Message
	t, err := in.ReadUint8(fieldMsgType, buffer.Variable)
	if err != nil {
		return m, err
	}
	m.MsgType = MessageType(t)
	if m.Key, err = in.ReadString(fieldKey, tag.UTF8); err != nil {
		return m, err
	}
	m.Value, err = in.ReadBytes(fieldValue)
	return m, err
}

// TestLenientReaderSkipsUnknownFields reads a full message with a reader that
// only knows a subset of the fields
func TestLenientReaderSkipsUnknownFields(t *testing.T) {
	full := Message{
		MsgType:  MsgTKVSetE,
		Key:      "key",
		ExpireIn: 1000,
		DeleteIn: 2000,
		Value:    []byte("value"),
		Ok:       true,
		Meta:     []byte("meta"),
	}

	writer, err := NewSerializer(proxy.DefaultContract())
	if err != nil {
		t.Fatalf("NewSerializer failed: %v", err)
	}
	data, err := writer.Serialize(full)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	lenient, _ := proxy.NewSerializer[Message](keyOnlyProxy{}, proxy.DefaultContract())
	result, err := lenient.Deserialize(data)
	if err != nil {
		t.Fatalf("lenient Deserialize failed: %v", err)
	}
	expected := Message{MsgType: MsgTKVSetE, Key: "key", Value: []byte("value")}
	if !reflect.DeepEqual(result, expected) {
		t.Errorf("expected %+v, got %+v", expected, result)
	}

	strict, _ := proxy.NewSerializer[Message](keyOnlyProxy{}, proxy.Contract{InitialBufferSize: 20, StrictMode: true})
	if _, err := strict.Deserialize(data); !errors.Is(err, buffer.ErrMissingField) {
		t.Errorf("strict: expected ErrMissingField, got %v", err)
	}
}

// TestLenientReaderFillsMissingFields reads a message written without
// ExpireIn and DeleteIn with the full reader
func TestLenientReaderFillsMissingFields(t *testing.T) {
	old, _ := proxy.NewSerializer[Message](keyOnlyProxy{}, proxy.DefaultContract())
	data, err := old.Serialize(Message{MsgType: MsgTKVSet, Key: "k", Value: []byte("v")})
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	in := buffer.NewInputBuffer(data, false)
	var m Message
	msgType, err := in.ReadUint8(fieldMsgType, buffer.Variable)
	if err != nil {
		t.Fatalf("MsgType: %v", err)
	}
	m.MsgType = MessageType(msgType)
	if m.Key, err = in.ReadString(fieldKey, tag.UTF8); err != nil {
		t.Fatalf("Key: %v", err)
	}
	if m.ExpireIn, err = in.ReadUint64(fieldExpireIn, buffer.Variable); err != nil {
		t.Fatalf("ExpireIn: %v", err)
	}
	if m.DeleteIn, err = in.ReadUint64(fieldDeleteIn, buffer.Variable); err != nil {
		t.Fatalf("DeleteIn: %v", err)
	}
	if m.Value, err = in.ReadBytes(fieldValue); err != nil {
		t.Fatalf("Value: %v", err)
	}

	expected := Message{MsgType: MsgTKVSet, Key: "k", Value: []byte("v")}
	if !reflect.DeepEqual(m, expected) {
		t.Errorf("expected %+v, got %+v", expected, m)
	}
}

// TestInvalidData tests how the proxy handles corrupt or invalid data
func TestInvalidData(t *testing.T) {
	s, err := NewSerializer(proxy.Contract{InitialBufferSize: 20, StrictMode: true})
	if err != nil {
		t.Fatalf("NewSerializer failed: %v", err)
	}
	valid, err := s.Serialize(*NewSetRequest("abc", []byte("value")))
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	testCases := []struct {
		name string
		data []byte
		want error
	}{
		{"Index only", []byte{fieldMsgType}, buffer.ErrOutOfBounds},
		{"Wrong type for MsgType", []byte{fieldMsgType, 0x90}, buffer.ErrTagMismatch},
		{"Truncated value", valid[:len(valid)-7], buffer.ErrOutOfBounds},
		{"Wrong first index", append([]byte{9}, valid[1:]...), buffer.ErrMissingField},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.Deserialize(tc.data); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

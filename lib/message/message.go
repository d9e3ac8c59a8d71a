package message

import (
	"encoding/json"
	"fmt"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message is a key-value request or response record. Which fields are used
// depends on the type of message.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type" cbor:"1,keyasint" msgpack:"t"`

	// General fields
	Key      string `json:"key,omitempty" cbor:"2,keyasint,omitempty" msgpack:"k,omitempty"`
	ExpireIn uint64 `json:"expireIn,omitempty" cbor:"3,keyasint,omitempty" msgpack:"e,omitempty"`
	DeleteIn uint64 `json:"deleteIn,omitempty" cbor:"4,keyasint,omitempty" msgpack:"d,omitempty"`
	Value    []byte `json:"value,omitempty" cbor:"5,keyasint,omitempty" msgpack:"v,omitempty"`

	// Response only fields
	Ok  bool   `json:"ok,omitempty" cbor:"6,keyasint,omitempty" msgpack:"o,omitempty"`
	Err string `json:"err,omitempty" cbor:"7,keyasint,omitempty" msgpack:"r,omitempty"`

	// Meta information
	Meta []byte `json:"meta,omitempty" cbor:"8,keyasint,omitempty" msgpack:"m,omitempty"`
}

// String returns a single line representation of the message
func (m Message) String() string {
	s := fmt.Sprintf("%s key=%q", m.MsgType, m.Key)
	if m.ExpireIn != 0 || m.DeleteIn != 0 {
		s += fmt.Sprintf(" expireIn=%d deleteIn=%d", m.ExpireIn, m.DeleteIn)
	}
	if m.Value != nil {
		s += fmt.Sprintf(" value=%d bytes", len(m.Value))
	}
	if m.Ok {
		s += " ok"
	}
	if m.Err != "" {
		s += fmt.Sprintf(" err=%q", m.Err)
	}
	if m.Meta != nil {
		s += fmt.Sprintf(" meta=%d bytes", len(m.Meta))
	}
	return s
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewSetRequest creates a new Set request
func NewSetRequest(key string, value []byte) *Message {
	return &Message{
		MsgType: MsgTKVSet,
		Key:     key,
		Value:   value,
	}
}

// NewSetERequest creates a new SetE request
func NewSetERequest(key string, value []byte, expireIn, deleteIn uint64) *Message {
	return &Message{
		MsgType:  MsgTKVSetE,
		Key:      key,
		Value:    value,
		ExpireIn: expireIn,
		DeleteIn: deleteIn,
	}
}

// NewGetRequest creates a new Get request
func NewGetRequest(key string) *Message {
	return &Message{
		MsgType: MsgTKVGet,
		Key:     key,
	}
}

// NewGetResponse creates a new Get response
func NewGetResponse(value []byte, ok bool, err error) *Message {
	msg := &Message{
		MsgType: MsgTKVGet,
		Ok:      ok,
		Value:   value,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewErrorResponse creates a new Error response
func NewErrorResponse(err string) *Message {
	return &Message{
		MsgType: MsgTError,
		Err:     err,
	}
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of a message.
type MessageType uint8

const (
	// General message types

	MsgTUnknown MessageType = iota
	MsgTSuccess             // Indicates a successful operation
	MsgTError               // Indicates an error occurred

	// Key-value operations

	MsgTKVSet         // Set a key-value pair
	MsgTKVSetE        // Set a key-value pair with expiration
	MsgTKVSetEIfUnset // Set a key-value pair if not already set
	MsgTKVExpire      // Expire a key
	MsgTKVDelete      // Delete a key-value pair
	MsgTKVGet         // Get a value by key
	MsgTKVHas         // Check if a key exists

	// Lock operations

	MsgTLCKAcquire // Acquire a lock
	MsgTLCKRelease // Release a lock

	// Custom operations

	MsgTCustom // Custom operation type
)

var messageTypeNames = map[MessageType]string{
	MsgTSuccess:       "success",
	MsgTError:         "error",
	MsgTKVSet:         "set",
	MsgTKVSetE:        "setE",
	MsgTKVSetEIfUnset: "setEIfUnset",
	MsgTKVExpire:      "expire",
	MsgTKVDelete:      "delete",
	MsgTKVGet:         "get",
	MsgTKVHas:         "has",
	MsgTLCKAcquire:    "acquire",
	MsgTLCKRelease:    "release",
	MsgTCustom:        "custom",
}

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	if name, ok := messageTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseMessageType converts a name as printed by MessageType.String back into
// a MessageType.
func ParseMessageType(s string) (MessageType, error) {
	if s == "unknown" {
		return MsgTUnknown, nil
	}
	for t, name := range messageTypeNames {
		if name == s {
			return t, nil
		}
	}
	return MsgTUnknown, fmt.Errorf("unknown message type: %s", s)
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseMessageType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

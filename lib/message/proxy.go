package message

import (
	"github.com/ValentinKolb/accelbuf/lib/buffer"
	"github.com/ValentinKolb/accelbuf/lib/proxy"
	"github.com/ValentinKolb/accelbuf/lib/tag"
)

// --------------------------------------------------------------------------
// Message Proxy
// --------------------------------------------------------------------------

// Field indices of Message on the wire. New fields must use higher indices
// than the existing ones.
const (
	fieldMsgType  byte = 1
	fieldKey      byte = 2
	fieldExpireIn byte = 3
	fieldDeleteIn byte = 4
	fieldValue    byte = 5
	fieldOk       byte = 6
	fieldErr      byte = 7
	fieldMeta     byte = 8
)

// Proxy serializes Message values
type Proxy struct{}

// Serialize implements proxy.IProxy
func (Proxy) Serialize(m *Message, out *buffer.OutputBuffer) error {
	if err := out.WriteUint8(fieldMsgType, uint8(m.MsgType), buffer.Variable); err != nil {
		return err
	}
	if err := out.WriteString(fieldKey, m.Key, tag.UTF8); err != nil {
		return err
	}
	if err := out.WriteUint64(fieldExpireIn, m.ExpireIn, buffer.Variable); err != nil {
		return err
	}
	if err := out.WriteUint64(fieldDeleteIn, m.DeleteIn, buffer.Variable); err != nil {
		return err
	}
	if err := out.WriteBytes(fieldValue, m.Value); err != nil {
		return err
	}
	if err := out.WriteBool(fieldOk, m.Ok); err != nil {
		return err
	}
	if err := out.WriteString(fieldErr, m.Err, tag.UTF8); err != nil {
		return err
	}
	return out.WriteBytes(fieldMeta, m.Meta)
}

// Deserialize implements proxy.IProxy
func (Proxy) Deserialize(in *buffer.InputBuffer) (Message, error) {
	var m Message
	var err error

	msgType, err := in.ReadUint8(fieldMsgType, buffer.Variable)
	if err != nil {
		return m, err
	}
	m.MsgType = MessageType(msgType)

	if m.Key, err = in.ReadString(fieldKey, tag.UTF8); err != nil {
		return m, err
	}
	if m.ExpireIn, err = in.ReadUint64(fieldExpireIn, buffer.Variable); err != nil {
		return m, err
	}
	if m.DeleteIn, err = in.ReadUint64(fieldDeleteIn, buffer.Variable); err != nil {
		return m, err
	}
	if m.Value, err = in.ReadBytes(fieldValue); err != nil {
		return m, err
	}
	if m.Ok, err = in.ReadBool(fieldOk); err != nil {
		return m, err
	}
	if m.Err, err = in.ReadString(fieldErr, tag.UTF8); err != nil {
		return m, err
	}
	m.Meta, err = in.ReadBytes(fieldMeta)
	return m, err
}

// NewSerializer creates a serializer for Message
func NewSerializer(c proxy.Contract) (*proxy.Serializer[Message], error) {
	return proxy.NewSerializer[Message](Proxy{}, c)
}

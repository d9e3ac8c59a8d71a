package serializer

import (
	"fmt"
	"sort"

	"github.com/ValentinKolb/accelbuf/lib/message"
	"github.com/ValentinKolb/accelbuf/lib/proxy"
)

// --------------------------------------------------------------------------
// Message Serializers
// --------------------------------------------------------------------------

// messageSerializers maps a wire format name to the factory of its Message
// serializer
var messageSerializers = map[string]func(c proxy.Contract) (ISerializer[message.Message], error){
	"accel": func(c proxy.Contract) (ISerializer[message.Message], error) {
		return NewAccelSerializer[message.Message](message.Proxy{}, c)
	},
	"json":    wrap(NewJSONSerializer[message.Message]),
	"gob":     wrap(NewGOBSerializer[message.Message]),
	"cbor":    wrap(NewCBORSerializer[message.Message]),
	"msgpack": wrap(NewMsgPackSerializer[message.Message]),
}

func wrap(f func() ISerializer[message.Message]) func(proxy.Contract) (ISerializer[message.Message], error) {
	return func(proxy.Contract) (ISerializer[message.Message], error) {
		return f(), nil
	}
}

// Names returns the sorted names of all Message serializers
func Names() []string {
	names := make([]string, 0, len(messageSerializers))
	for name := range messageSerializers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewMessageSerializer creates the Message serializer for the wire format
// name. The contract is only used by the accel format.
func NewMessageSerializer(name string, c proxy.Contract) (ISerializer[message.Message], error) {
	f, ok := messageSerializers[name]
	if !ok {
		return nil, fmt.Errorf("unknown serializer: %s (expected one of %v)", name, Names())
	}
	return f(c)
}

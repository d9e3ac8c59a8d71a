/*
Package proxy connects user types to the field operations of package buffer.

A proxy (IProxy) is the hand-written or generated code that knows the fields
of one type. It writes every field to an OutputBuffer in ascending index order
and reads them back from an InputBuffer in the same order:

	type pointProxy struct{}

	func (pointProxy) Serialize(p *Point, out *buffer.OutputBuffer) error {
		if err := out.WriteInt32(1, p.X, buffer.Variable); err != nil {
			return err
		}
		return out.WriteInt32(2, p.Y, buffer.Variable)
	}

	func (pointProxy) Deserialize(in *buffer.InputBuffer) (Point, error) {
		var p Point
		var err error
		if p.X, err = in.ReadInt32(1, buffer.Variable); err != nil {
			return p, err
		}
		p.Y, err = in.ReadInt32(2, buffer.Variable)
		return p, err
	}

A Serializer wraps a proxy with a Contract and a cached output buffer:

	s, err := proxy.NewSerializer[Point](pointProxy{}, proxy.DefaultContract())
	data, err := s.Serialize(Point{X: 1, Y: 2})
	p, err := s.Deserialize(data)

Types implementing IMessageReceiver are notified before they are written and
after they have been read.

The package also provides proxies for scalars, strings, byte slices and
slices of strings and numbers, a type keyed Registry for looking proxies up at
runtime, and Prometheus counters for every serializer (see WriteMetrics).
*/
package proxy

package proxy

import (
	"fmt"
	"io"

	"github.com/VictoriaMetrics/metrics"
)

// --------------------------------------------------------------------------
// Serializer Metrics
// --------------------------------------------------------------------------

// metricSet holds the counters of all serializers in this process
var metricSet = metrics.NewSet()

// serializerMetrics are the counters of one serialized type
type serializerMetrics struct {
	serialized      *metrics.Counter
	deserialized    *metrics.Counter
	bytesWritten    *metrics.Counter
	bytesRead       *metrics.Counter
	serializeErrs   *metrics.Counter
	deserializeErrs *metrics.Counter
	messageSize     *metrics.Histogram
}

func newSerializerMetrics(typeName string) *serializerMetrics {
	label := func(name string) string {
		return fmt.Sprintf(`accelbuf_%s{type=%q}`, name, typeName)
	}
	errLabel := func(op string) string {
		return fmt.Sprintf(`accelbuf_errors_total{type=%q,op=%q}`, typeName, op)
	}

	return &serializerMetrics{
		serialized:      metricSet.GetOrCreateCounter(label("serialize_total")),
		deserialized:    metricSet.GetOrCreateCounter(label("deserialize_total")),
		bytesWritten:    metricSet.GetOrCreateCounter(label("serialize_bytes_total")),
		bytesRead:       metricSet.GetOrCreateCounter(label("deserialize_bytes_total")),
		serializeErrs:   metricSet.GetOrCreateCounter(errLabel("serialize")),
		deserializeErrs: metricSet.GetOrCreateCounter(errLabel("deserialize")),
		messageSize:     metricSet.GetOrCreateHistogram(label("message_size_bytes")),
	}
}

func (m *serializerMetrics) onSerialize(size int, err error) {
	if err != nil {
		m.serializeErrs.Inc()
		return
	}
	m.serialized.Inc()
	m.bytesWritten.Add(size)
	m.messageSize.Update(float64(size))
}

func (m *serializerMetrics) onDeserialize(size int, err error) {
	if err != nil {
		m.deserializeErrs.Inc()
		return
	}
	m.deserialized.Inc()
	m.bytesRead.Add(size)
}

// WriteMetrics writes the counters of all serializers in Prometheus text
// format to w
func WriteMetrics(w io.Writer) {
	metricSet.WritePrometheus(w)
}

package bench

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/ValentinKolb/accelbuf/lib/message"
	"github.com/ValentinKolb/accelbuf/lib/proxy"
	"github.com/ValentinKolb/accelbuf/lib/serializer"
	"github.com/rcrowley/go-metrics"
)

// --------------------------------------------------------------------------
// Benchmark Results
// --------------------------------------------------------------------------

// result holds the measurements of one serializer and operation
type result struct {
	Serializer string
	Op         string
	Bench      testing.BenchmarkResult
	Latency    metrics.Timer     // per message latency
	Size       metrics.Histogram // encoded size per message
}

func (r result) skipped() bool {
	return r.Bench.N == 0
}

// nsPerOp returns the duration of a single operation over all sample messages
func (r result) nsPerOp() float64 {
	return math.Max(float64(r.Bench.NsPerOp()), 1) // prevent division by zero
}

// --------------------------------------------------------------------------
// Runner
// --------------------------------------------------------------------------

// runner benchmarks the Message serializers on a fixed set of sample messages
type runner struct {
	contract proxy.Contract
	samples  []message.Message
	rounds   int // timed rounds per message for the latency percentiles
	skip     map[string]bool
	registry metrics.Registry
}

func newRunner(c proxy.Contract, valueSize int, rounds int, skip []string) *runner {
	r := &runner{
		contract: c,
		samples:  sampleMessages(valueSize),
		rounds:   rounds,
		skip:     make(map[string]bool),
		registry: metrics.NewRegistry(),
	}
	for _, s := range skip {
		r.skip[s] = true
	}
	return r
}

// sampleMessages creates the messages every serializer is measured on
func sampleMessages(valueSize int) []message.Message {
	large := make([]byte, valueSize)
	for i := range large {
		large[i] = byte(i)
	}
	return []message.Message{
		*message.NewGetRequest("user:1234"),
		*message.NewSetRequest("user:1234", []byte("short value")),
		*message.NewSetERequest("session:abcdef", large, 3600, 86400),
		*message.NewGetResponse([]byte("short value"), true, nil),
		*message.NewErrorResponse("key not found"),
		{MsgType: message.MsgTLCKAcquire, Key: "lock", ExpireIn: 30, Ok: true, Meta: []byte("owner=node-1")},
	}
}

// run benchmarks serialization and deserialization for every serializer name
func (r *runner) run(names []string, progress func(result)) ([]result, error) {
	var results []result
	for _, name := range names {
		s, err := serializer.NewMessageSerializer(name, r.contract)
		if err != nil {
			return nil, err
		}

		encoded := make([][]byte, len(r.samples))
		for i, msg := range r.samples {
			if encoded[i], err = s.Serialize(msg); err != nil {
				return nil, fmt.Errorf("%s: failed to serialize sample %d: %w", name, i, err)
			}
		}

		for _, op := range []string{"serialize", "deserialize"} {
			res := result{
				Serializer: name,
				Op:         op,
				Latency:    metrics.GetOrRegisterTimer(name+"."+op+".latency", r.registry),
				Size:       metrics.GetOrRegisterHistogram(name+"."+op+".size", r.registry, metrics.NewUniformSample(1028)),
			}
			if !r.skip[name] && !r.skip[op] {
				fn := r.operation(s, op, encoded)
				res.Bench = testing.Benchmark(func(b *testing.B) {
					b.ReportAllocs()
					for i := 0; i < b.N; i++ {
						fn(i % len(r.samples))
					}
				})
				for round := 0; round < r.rounds; round++ {
					for i := range r.samples {
						res.Latency.Time(func() { fn(i) })
					}
				}
				for _, data := range encoded {
					res.Size.Update(int64(len(data)))
				}
			}
			results = append(results, res)
			if progress != nil {
				progress(res)
			}
		}
	}
	return results, nil
}

// operation returns a function performing op on sample i. Errors are
// impossible for the pre encoded samples and are ignored.
func (r *runner) operation(s serializer.ISerializer[message.Message], op string, encoded [][]byte) func(i int) {
	if op == "serialize" {
		return func(i int) { _, _ = s.Serialize(r.samples[i]) }
	}
	return func(i int) {
		var m message.Message
		_ = s.Deserialize(encoded[i], &m)
	}
}

// --------------------------------------------------------------------------
// Output
// --------------------------------------------------------------------------

// printResult prints the result of a benchmark in a formatted way
func printResult(w io.Writer, r result) {
	test := r.Serializer + "/" + r.Op
	if r.skipped() {
		fmt.Fprintf(w, "%-24sskipped\n", test)
		return
	}

	nsPerOp := r.nsPerOp()
	opsPerSec := 1.0 / (nsPerOp / 1e9)
	p99 := time.Duration(r.Latency.Percentile(0.99))

	fmt.Fprintf(w, "%-24s%.0fns/op (%s/op)\t%.0f ops/sec\tp99 %s\t%.1f bytes avg\t%d allocs/op\n",
		test, nsPerOp, time.Duration(nsPerOp), opsPerSec, p99, r.Size.Mean(), r.Bench.AllocsPerOp())
}

// writeResultsToCSV writes benchmark results to w
func writeResultsToCSV(w io.Writer, results []result, c proxy.Contract) error {
	writer := csv.NewWriter(w)

	header := []string{
		"Serializer", "Op", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"P50Ns", "P99Ns", "AvgBytes", "MaxBytes", "AllocsPerOp",
		"StrictMode", "InitialBufferSize",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	for _, r := range results {
		var nsPerOp, opsPerSec float64
		skipped := "true"
		if !r.skipped() {
			skipped = "false"
			nsPerOp = r.nsPerOp()
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		row := []string{
			r.Serializer,
			r.Op,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			skipped,
			fmt.Sprintf("%.0f", r.Latency.Percentile(0.5)),
			fmt.Sprintf("%.0f", r.Latency.Percentile(0.99)),
			fmt.Sprintf("%.1f", r.Size.Mean()),
			strconv.FormatInt(r.Size.Max(), 10),
			strconv.FormatInt(r.Bench.AllocsPerOp(), 10),
			strconv.FormatBool(c.StrictMode),
			strconv.Itoa(c.InitialBufferSize),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for %s/%s: %v", r.Serializer, r.Op, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

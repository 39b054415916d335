package telemetry

// metricFields is the canonical column order of the wire format. The order is part of the
// contract between the data simulator and the metrics API and must not change between
// generations.
var metricFields = []string{
	"bandwidth",
	"latency",
	"packet_errors",
	"cpu_util_pct",
	"mem_util_pct",
	"buffer_occupancy_pct",
	"egress_drops",
	"temperature_c",
}

// Snapshot is one immutable generation of telemetry for the whole fabric. It is created by
// the simulator, published as CSV, and rebuilt on the consumer side by ParseCSV. Once built
// it is only ever replaced, never mutated in place.
type Snapshot struct {
	Version     uint64
	TimestampMs int64
	Fields      []string
	Rows        map[string]map[string]float64
}

// MetricFields returns a copy of the canonical metric column order
func MetricFields() []string {
	fields := make([]string, len(metricFields))
	copy(fields, metricFields)

	return fields
}

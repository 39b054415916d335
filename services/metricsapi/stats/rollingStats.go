package stats

import (
	"math"
	"sort"
	"sync"
)

// Summary holds the percentile figures computed over one key's current window
type Summary struct {
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// window is a fixed-capacity ring of latency samples in arrival order
type window struct {
	samples []int64
	next    int
}

func (w *window) add(value int64) {
	if len(w.samples) < cap(w.samples) {
		w.samples = append(w.samples, value)
		return
	}

	w.samples[w.next] = value
	w.next = (w.next + 1) % cap(w.samples)
}

// rollingStats keeps the most recent N latency samples per key, oldest evicted first,
// and computes percentiles on demand over a private copy of the window
type rollingStats struct {
	mut      sync.Mutex
	capacity int
	windows  map[string]*window
}

// NewRollingStats creates a new per-key rolling latency tracker with the given window capacity
func NewRollingStats(capacity int) *rollingStats {
	if capacity < 1 {
		capacity = 1
	}

	return &rollingStats{
		capacity: capacity,
		windows:  make(map[string]*window),
	}
}

// Add records one latency sample, in milliseconds, under the provided key
func (rs *rollingStats) Add(key string, latencyMs int64) {
	rs.mut.Lock()
	defer rs.mut.Unlock()

	w := rs.windows[key]
	if w == nil {
		w = &window{samples: make([]int64, 0, rs.capacity)}
		rs.windows[key] = w
	}

	w.add(latencyMs)
}

// Percentiles computes p50/p95/p99/max over the key's current window. The samples are
// copied under the lock and sorted outside of it, so concurrent Add calls are never
// blocked on the sort and never see a reordered window. An unknown key yields a zero
// Summary with Count 0.
func (rs *rollingStats) Percentiles(key string) Summary {
	rs.mut.Lock()
	w := rs.windows[key]
	var sorted []int64
	if w != nil {
		sorted = make([]int64, len(w.samples))
		copy(sorted, w.samples)
	}
	rs.mut.Unlock()

	if len(sorted) == 0 {
		return Summary{}
	}

	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	return Summary{
		P50:   pick(sorted, 0.50),
		P95:   pick(sorted, 0.95),
		P99:   pick(sorted, 0.99),
		Max:   float64(sorted[len(sorted)-1]),
		Count: len(sorted),
	}
}

// pick resolves percentile p over the sorted samples using index ceil(p*n)-1 clamped to
// [0, n-1]. The exact rule matters at small counts: with a single sample every
// percentile resolves to that sample.
func pick(sorted []int64, p float64) float64 {
	n := len(sorted)
	idx := int(math.Ceil(p*float64(n))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}

	return float64(sorted[idx])
}

// IsInterfaceNil returns true if the value under the interface is nil
func (rs *rollingStats) IsInterfaceNil() bool {
	return rs == nil
}

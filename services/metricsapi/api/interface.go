package api

import (
	"time"

	"github.com/iulianpascalau/fabric-telemetry/services/metricsapi/stats"
	"github.com/iulianpascalau/fabric-telemetry/telemetry"
)

// Store defines the read surface of the consumer-side snapshot cache
type Store interface {
	// Get returns the stored snapshot and whether one was ever set
	Get() (telemetry.Snapshot, bool)

	// AgeMs returns how old the stored snapshot is, relative to the provided time
	AgeMs(now time.Time) (int64, bool)

	IsInterfaceNil() bool
}

// PollerStatus defines the reconciliation telemetry exposed by the poller
type PollerStatus interface {
	// Status returns the duration of the last completed cycle and the count of
	// consecutive failed cycles
	Status() (lastCycleMs int64, failCount uint32)

	IsInterfaceNil() bool
}

// LatencyTracker defines the per-endpoint rolling latency window
type LatencyTracker interface {
	// Add records one latency sample, in milliseconds, under the provided key
	Add(key string, latencyMs int64)

	// Percentiles computes the percentile summary over the key's current window
	Percentiles(key string) stats.Summary

	IsInterfaceNil() bool
}

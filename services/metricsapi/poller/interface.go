package poller

import (
	"time"

	"github.com/iulianpascalau/fabric-telemetry/telemetry"
)

// Store defines the single-slot snapshot cache the poller writes into
type Store interface {
	// Set atomically replaces the stored snapshot
	Set(snapshot telemetry.Snapshot)

	// Get returns the stored snapshot and whether one was ever set
	Get() (telemetry.Snapshot, bool)

	// AgeMs returns how old the stored snapshot is, relative to the provided time
	AgeMs(now time.Time) (int64, bool)

	IsInterfaceNil() bool
}

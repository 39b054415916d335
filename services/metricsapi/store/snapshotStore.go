package store

import (
	"sync"
	"time"

	"github.com/iulianpascalau/fabric-telemetry/telemetry"
)

// snapshotStore is the consumer's single-slot view of the fabric: the most recently
// accepted snapshot, replaced as a whole by the poller and read concurrently by the
// request handlers. No history is kept, last write wins.
type snapshotStore struct {
	mut      sync.RWMutex
	snapshot telemetry.Snapshot
	hasData  bool
}

// NewSnapshotStore creates a new, empty snapshot store
func NewSnapshotStore() *snapshotStore {
	return &snapshotStore{}
}

// Set atomically replaces the stored snapshot
func (ss *snapshotStore) Set(snapshot telemetry.Snapshot) {
	ss.mut.Lock()
	ss.snapshot = snapshot
	ss.hasData = true
	ss.mut.Unlock()
}

// Get returns the stored snapshot and whether one was ever set
func (ss *snapshotStore) Get() (telemetry.Snapshot, bool) {
	ss.mut.RLock()
	defer ss.mut.RUnlock()

	return ss.snapshot, ss.hasData
}

// AgeMs returns how old the stored snapshot is, relative to the provided time
func (ss *snapshotStore) AgeMs(now time.Time) (int64, bool) {
	ss.mut.RLock()
	defer ss.mut.RUnlock()

	if !ss.hasData {
		return 0, false
	}

	return now.UnixMilli() - ss.snapshot.TimestampMs, true
}

// IsInterfaceNil returns true if the value under the interface is nil
func (ss *snapshotStore) IsInterfaceNil() bool {
	return ss == nil
}

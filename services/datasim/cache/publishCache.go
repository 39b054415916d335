package cache

import (
	"strconv"
	"sync"

	"github.com/iulianpascalau/fabric-telemetry/telemetry"
)

// publishCache holds the latest generated snapshot behind a mutex. The slot is replaced
// as a whole on Set, never mutated in place, so readers always observe a complete
// snapshot. Reads never mutate the cache.
type publishCache struct {
	mut      sync.RWMutex
	snapshot telemetry.Snapshot
	hasData  bool
}

// NewPublishCache creates an empty publish-side snapshot cache
func NewPublishCache() *publishCache {
	return &publishCache{}
}

// Set replaces the cached snapshot
func (pc *publishCache) Set(snapshot telemetry.Snapshot) {
	pc.mut.Lock()
	pc.snapshot = snapshot
	pc.hasData = true
	pc.mut.Unlock()
}

// Version returns the version of the currently cached snapshot, 0 if none was set yet
func (pc *publishCache) Version() uint64 {
	pc.mut.RLock()
	defer pc.mut.RUnlock()

	return pc.snapshot.Version
}

// Read returns the current snapshot
func (pc *publishCache) Read() (telemetry.Snapshot, error) {
	pc.mut.RLock()
	defer pc.mut.RUnlock()

	if !pc.hasData {
		return telemetry.Snapshot{}, errNoSnapshot
	}

	return pc.snapshot, nil
}

// ReadConditional answers a validator-token read: when the client's token matches the
// current snapshot's token the unchanged flag is set, otherwise the flag is false and
// the payload must be served in full. The current snapshot is returned either way so
// the caller can still emit its metadata on the unchanged path. The token is the
// snapshot version rendered as a decimal string.
func (pc *publishCache) ReadConditional(clientToken string) (telemetry.Snapshot, string, bool, error) {
	pc.mut.RLock()
	defer pc.mut.RUnlock()

	if !pc.hasData {
		return telemetry.Snapshot{}, "", false, errNoSnapshot
	}

	token := strconv.FormatUint(pc.snapshot.Version, 10)
	unchanged := len(clientToken) > 0 && clientToken == token

	return pc.snapshot, token, unchanged, nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (pc *publishCache) IsInterfaceNil() bool {
	return pc == nil
}

package api

import "github.com/iulianpascalau/fabric-telemetry/telemetry"

// SnapshotReader defines the read surface the counters endpoint serves from. The concrete
// value can be the publish cache itself or the fault injecting wrapper over it.
type SnapshotReader interface {
	// Read returns the currently published snapshot
	Read() (telemetry.Snapshot, error)

	// ReadConditional returns either the unchanged flag (when the client token matches the
	// current one) or the full snapshot plus the fresh validator token
	ReadConditional(clientToken string) (telemetry.Snapshot, string, bool, error)

	IsInterfaceNil() bool
}

package cache

import "github.com/iulianpascalau/fabric-telemetry/telemetry"

// SnapshotReader defines the read side of the publish cache, the surface the fault
// overlay decorates
type SnapshotReader interface {
	Read() (telemetry.Snapshot, error)
	ReadConditional(clientToken string) (telemetry.Snapshot, string, bool, error)
	IsInterfaceNil() bool
}

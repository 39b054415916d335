package factory

import "github.com/iulianpascalau/fabric-telemetry/telemetry"

// Server defines the operation of an entity able to serve requests
type Server interface {
	Start()
	Address() string
	Close() error
}

// Generator defines the operation of an entity able to produce telemetry snapshots
type Generator interface {
	Generate(entityCount int, prevVersion uint64) telemetry.Snapshot
	IsInterfaceNil() bool
}

// PublishCache defines the write and read surfaces of the publish-side snapshot cache
type PublishCache interface {
	Set(snapshot telemetry.Snapshot)
	Version() uint64
	Read() (telemetry.Snapshot, error)
	ReadConditional(clientToken string) (telemetry.Snapshot, string, bool, error)
	IsInterfaceNil() bool
}

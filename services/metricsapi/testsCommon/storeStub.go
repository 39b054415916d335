package testsCommon

import (
	"time"

	"github.com/iulianpascalau/fabric-telemetry/telemetry"
)

// StoreStub -
type StoreStub struct {
	SetHandler   func(snapshot telemetry.Snapshot)
	GetHandler   func() (telemetry.Snapshot, bool)
	AgeMsHandler func(now time.Time) (int64, bool)
}

// Set -
func (stub *StoreStub) Set(snapshot telemetry.Snapshot) {
	if stub.SetHandler != nil {
		stub.SetHandler(snapshot)
	}
}

// Get -
func (stub *StoreStub) Get() (telemetry.Snapshot, bool) {
	if stub.GetHandler != nil {
		return stub.GetHandler()
	}

	return telemetry.Snapshot{}, false
}

// AgeMs -
func (stub *StoreStub) AgeMs(now time.Time) (int64, bool) {
	if stub.AgeMsHandler != nil {
		return stub.AgeMsHandler(now)
	}

	return 0, false
}

// IsInterfaceNil -
func (stub *StoreStub) IsInterfaceNil() bool {
	return stub == nil
}

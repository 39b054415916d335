package testsCommon

// PollerStatusStub -
type PollerStatusStub struct {
	StatusHandler func() (lastCycleMs int64, failCount uint32)
}

// Status -
func (stub *PollerStatusStub) Status() (lastCycleMs int64, failCount uint32) {
	if stub.StatusHandler != nil {
		return stub.StatusHandler()
	}

	return 0, 0
}

// IsInterfaceNil -
func (stub *PollerStatusStub) IsInterfaceNil() bool {
	return stub == nil
}

package cache

import (
	"math/rand"
	"time"

	"github.com/iulianpascalau/fabric-telemetry/telemetry"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("datasim/cache")

// ArgsFaultReader defines the fault injecting reader arguments
type ArgsFaultReader struct {
	Inner      SnapshotReader
	FailurePct int
	SlowPct    int
	SlowDelay  time.Duration
}

// faultReader is a chaos overlay on top of a real snapshot reader: with FailurePct
// probability a read fails outright, with an independent SlowPct probability a read is
// delayed by SlowDelay before hitting the inner reader. The inner cache is never touched
// by the overlay, so disabling it restores fully deterministic behavior.
type faultReader struct {
	inner      SnapshotReader
	failurePct int
	slowPct    int
	slowDelay  time.Duration
}

// NewFaultReader creates a new fault injecting wrapper over the provided reader
func NewFaultReader(args ArgsFaultReader) (*faultReader, error) {
	if check.IfNil(args.Inner) {
		return nil, errNilInnerReader
	}

	return &faultReader{
		inner:      args.Inner,
		failurePct: args.FailurePct,
		slowPct:    args.SlowPct,
		slowDelay:  args.SlowDelay,
	}, nil
}

// Read returns the inner snapshot after the fault overlay was applied
func (fr *faultReader) Read() (telemetry.Snapshot, error) {
	err := fr.applyFaults()
	if err != nil {
		return telemetry.Snapshot{}, err
	}

	return fr.inner.Read()
}

// ReadConditional answers a conditional read after the fault overlay was applied
func (fr *faultReader) ReadConditional(clientToken string) (telemetry.Snapshot, string, bool, error) {
	err := fr.applyFaults()
	if err != nil {
		return telemetry.Snapshot{}, "", false, err
	}

	return fr.inner.ReadConditional(clientToken)
}

func (fr *faultReader) applyFaults() error {
	if fr.failurePct > 0 && rand.Intn(100) < fr.failurePct {
		if fr.slowDelay > 0 {
			time.Sleep(fr.slowDelay)
		}

		log.Warn("injecting transient read failure")
		return ErrInjectedFailure
	}

	if fr.slowPct > 0 && rand.Intn(100) < fr.slowPct && fr.slowDelay > 0 {
		time.Sleep(fr.slowDelay)
	}

	return nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (fr *faultReader) IsInterfaceNil() bool {
	return fr == nil
}

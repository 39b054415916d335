package factory

import "context"

// Server defines the operation of an entity able to serve requests
type Server interface {
	Start()
	Address() string
	Close() error
}

// Poller defines the reconciliation engine driven by the periodic loop
type Poller interface {
	// ProcessCycle runs one reconciliation cycle against the upstream counters endpoint
	ProcessCycle(ctx context.Context)

	// Status returns the duration of the last completed cycle and the count of
	// consecutive failed cycles
	Status() (lastCycleMs int64, failCount uint32)

	// Close releases the held transport resources
	Close() error

	IsInterfaceNil() bool
}

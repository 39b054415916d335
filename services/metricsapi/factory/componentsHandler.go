package factory

import (
	"context"
	"sync"
	"time"

	"github.com/iulianpascalau/fabric-telemetry/common"
	"github.com/iulianpascalau/fabric-telemetry/services/metricsapi/api"
	"github.com/iulianpascalau/fabric-telemetry/services/metricsapi/config"
	"github.com/iulianpascalau/fabric-telemetry/services/metricsapi/poller"
	"github.com/iulianpascalau/fabric-telemetry/services/metricsapi/stats"
	"github.com/iulianpascalau/fabric-telemetry/services/metricsapi/store"
)

type componentsHandler struct {
	store        api.Store
	poller       Poller
	server       Server
	pollInterval time.Duration
	mutCancel    sync.Mutex
	cancel       func()
}

// NewComponentsHandler creates a new components handler for the metrics API service
func NewComponentsHandler(cfg config.Config) (*componentsHandler, error) {
	snapshotStore := store.NewSnapshotStore()
	latencies := stats.NewRollingStats(cfg.StatsWindowSize)

	snapshotPoller, err := poller.NewHTTPPoller(poller.ArgsHTTPPoller{
		UpstreamURL:  cfg.UpstreamURL,
		FetchTimeout: time.Duration(cfg.FetchTimeoutInSeconds) * time.Second,
		Store:        snapshotStore,
	})
	if err != nil {
		return nil, err
	}

	server, err := api.NewServer(api.ArgsWebServer{
		ListenAddress: cfg.ListenAddress,
		Store:         snapshotStore,
		PollerStatus:  snapshotPoller,
		Latencies:     latencies,
	})
	if err != nil {
		return nil, err
	}

	return &componentsHandler{
		store:        snapshotStore,
		poller:       snapshotPoller,
		server:       server,
		pollInterval: time.Duration(cfg.PollIntervalInMs) * time.Millisecond,
	}, nil
}

// GetStore returns the snapshot store component
func (ch *componentsHandler) GetStore() api.Store {
	return ch.store
}

// GetPoller returns the poller component
func (ch *componentsHandler) GetPoller() Poller {
	return ch.poller
}

// GetServer returns the server component
func (ch *componentsHandler) GetServer() Server {
	return ch.server
}

// Start starts the inner components
func (ch *componentsHandler) Start() {
	ch.mutCancel.Lock()
	defer ch.mutCancel.Unlock()

	if ch.cancel != nil {
		return
	}

	ch.server.Start()

	var ctx context.Context
	ctx, ch.cancel = context.WithCancel(context.Background())

	common.CronJobStarter(ctx, ch.poller.ProcessCycle, ch.pollInterval)
}

// Close closes the inner components
func (ch *componentsHandler) Close() {
	ch.mutCancel.Lock()
	defer ch.mutCancel.Unlock()

	if ch.cancel != nil {
		ch.cancel()
		ch.cancel = nil
	}

	_ = ch.poller.Close()
	_ = ch.server.Close()
}

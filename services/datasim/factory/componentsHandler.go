package factory

import (
	"context"
	"sync"
	"time"

	"github.com/iulianpascalau/fabric-telemetry/common"
	"github.com/iulianpascalau/fabric-telemetry/services/datasim/api"
	"github.com/iulianpascalau/fabric-telemetry/services/datasim/cache"
	"github.com/iulianpascalau/fabric-telemetry/services/datasim/config"
	"github.com/iulianpascalau/fabric-telemetry/services/datasim/simulator"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("datasim/factory")

type componentsHandler struct {
	config       config.Config
	generator    Generator
	publishCache PublishCache
	server       Server
	mutCancel    sync.Mutex
	cancel       func()
	lastTick     time.Time
}

// NewComponentsHandler creates a new components handler for the data simulator service
func NewComponentsHandler(cfg config.Config) (*componentsHandler, error) {
	gen := simulator.NewGenerator(time.Now().UnixNano())
	publishCache := cache.NewPublishCache()

	// the first request must already see simulator-driven data, so one snapshot is
	// published before the periodic loop takes over
	publishCache.Set(gen.Generate(cfg.EntityCount, 0))

	var reader api.SnapshotReader = publishCache
	if cfg.FaultFailurePct > 0 || cfg.FaultSlowPct > 0 {
		faultReader, err := cache.NewFaultReader(cache.ArgsFaultReader{
			Inner:      publishCache,
			FailurePct: cfg.FaultFailurePct,
			SlowPct:    cfg.FaultSlowPct,
			SlowDelay:  time.Duration(cfg.FaultSlowDelayInMs) * time.Millisecond,
		})
		if err != nil {
			return nil, err
		}

		reader = faultReader
	}

	server, err := api.NewServer(api.ArgsWebServer{
		ListenAddress: cfg.ListenAddress,
		Reader:        reader,
	})
	if err != nil {
		return nil, err
	}

	return &componentsHandler{
		config:       cfg,
		generator:    gen,
		publishCache: publishCache,
		server:       server,
	}, nil
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

	interval := time.Duration(ch.config.GenerationIntervalInSeconds) * time.Second
	ch.lastTick = time.Now()
	common.CronJobStarter(ctx, ch.refreshSnapshot, interval)
}

func (ch *componentsHandler) refreshSnapshot(_ context.Context) {
	startTime := time.Now()
	snapshot := ch.generator.Generate(ch.config.EntityCount, ch.publishCache.Version())
	ch.publishCache.Set(snapshot)

	interval := time.Duration(ch.config.GenerationIntervalInSeconds) * time.Second
	log.Info("snapshot refreshed",
		"tick_ms", time.Since(startTime).Milliseconds(),
		"interval_ms", interval.Milliseconds(),
		"skew_ms", time.Since(ch.lastTick).Milliseconds()-interval.Milliseconds(),
		"entities", ch.config.EntityCount,
		"metrics_per_entity", len(snapshot.Fields),
		"snapshot_version", snapshot.Version,
	)
	ch.lastTick = time.Now()
}

// Close closes the inner components
func (ch *componentsHandler) Close() {
	ch.mutCancel.Lock()
	defer ch.mutCancel.Unlock()

	if ch.cancel != nil {
		ch.cancel()
		ch.cancel = nil
	}

	_ = ch.server.Close()
}

package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("metricsapi/api")

const (
	routeGetMetric   = "/telemetry/GetMetric"
	routeListMetrics = "/telemetry/ListMetrics"
	routeStats       = "/stats"
	routeHealth      = "/health"

	headerETag      = "ETag"
	headerDataAgeMs = "X-Data-Age-Ms"
)

// ArgsWebServer defines the web server arguments
type ArgsWebServer struct {
	ListenAddress string
	Store         Store
	PollerStatus  PollerStatus
	Latencies     LatencyTracker
}

type server struct {
	router       *gin.Engine
	httpServer   *http.Server
	store        Store
	pollerStatus PollerStatus
	latencies    LatencyTracker
	instanceID   string
	listenAddr   string
	startedAt    time.Time
	wg           sync.WaitGroup
}

// NewServer initializes the Gin engine and mounts all routes
func NewServer(args ArgsWebServer) (*server, error) {
	if check.IfNil(args.Store) {
		return nil, errors.New("nil snapshot store")
	}
	if check.IfNil(args.PollerStatus) {
		return nil, errors.New("nil poller status provider")
	}
	if check.IfNil(args.Latencies) {
		return nil, errors.New("nil latency tracker")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &server{
		router:       router,
		store:        args.Store,
		pollerStatus: args.PollerStatus,
		latencies:    args.Latencies,
		instanceID:   uuid.NewString(),
		listenAddr:   args.ListenAddress,
		startedAt:    time.Now(),
	}

	router.Use(s.latencyRecorder())
	s.setupRoutes()
	return s, nil
}

func (s *server) setupRoutes() {
	s.router.GET(routeGetMetric, s.handleGetMetric)
	s.router.GET(routeListMetrics, s.handleListMetrics)
	s.router.GET(routeStats, s.handleStats)
	s.router.GET(routeHealth, s.handleHealth)
}

// Start listens and serves connections
func (s *server) Start() {
	s.httpServer = &http.Server{
		Addr:    s.listenAddr,
		Handler: s.router,
	}

	ln, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		log.Error("failed to listen", "error", err)
		return
	}
	s.listenAddr = ln.Addr().String()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Info("starting HTTP server", "address", s.listenAddr, "instance_id", s.instanceID)

		err := s.httpServer.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
		}
	}()
}

// Address returns the actual listen address
func (s *server) Address() string {
	return s.listenAddr
}

// Close gracefully stops the server
func (s *server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return err
		}
	}
	s.wg.Wait()
	return nil
}

// --- Middlewares ---

// latencyRecorder feeds every served request into the rolling latency window and emits
// the access log line, snapshot age included, once the handler chain finished
func (s *server) latencyRecorder() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()

		latencyMs := time.Since(startTime).Milliseconds()
		path := c.Request.URL.Path
		s.latencies.Add(path, latencyMs)

		ageMs := int64(-1)
		if age, found := s.store.AgeMs(time.Now()); found {
			ageMs = age
		}

		log.Debug("access",
			"path", path,
			"method", c.Request.Method,
			"status", c.Writer.Status(),
			"latency_ms", latencyMs,
			"age_ms", ageMs,
		)
	}
}

// --- Handlers ---

func (s *server) handleGetMetric(c *gin.Context) {
	snapshot, found := s.store.Get()
	if !found {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no snapshot available yet, try again shortly"})
		return
	}

	entityID := c.Query("entity_id")
	metric := c.Query("metric")

	values, hasEntity := snapshot.Rows[entityID]
	if !hasEntity {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown entity_id '%s'", entityID)})
		return
	}

	value, hasMetric := values[metric]
	if !hasMetric {
		c.JSON(http.StatusNotFound, gin.H{
			"error":  fmt.Sprintf("unknown metric '%s'", metric),
			"fields": snapshot.Fields,
		})
		return
	}

	ageMs := time.Now().UnixMilli() - snapshot.TimestampMs
	s.setStalenessHeaders(c, snapshot.Version, ageMs)
	c.JSON(http.StatusOK, gin.H{
		"entity_id": entityID,
		"metric":    metric,
		"value":     value,
		"version":   snapshot.Version,
		"age_ms":    ageMs,
	})
}

func (s *server) handleListMetrics(c *gin.Context) {
	snapshot, found := s.store.Get()
	if !found {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no snapshot available yet, try again shortly"})
		return
	}

	items := make([]gin.H, 0, len(snapshot.Rows))
	for entityID, values := range snapshot.Rows {
		item := gin.H{"entity_id": entityID}
		for metric, value := range values {
			item[metric] = value
		}
		items = append(items, item)
	}

	ageMs := time.Now().UnixMilli() - snapshot.TimestampMs
	s.setStalenessHeaders(c, snapshot.Version, ageMs)
	c.JSON(http.StatusOK, gin.H{
		"version": snapshot.Version,
		"age_ms":  ageMs,
		"fields":  snapshot.Fields,
		"items":   items,
	})
}

func (s *server) handleStats(c *gin.Context) {
	lastCycleMs, failCount := s.pollerStatus.Status()

	c.JSON(http.StatusOK, gin.H{
		"uptime_s":                  int64(time.Since(s.startedAt).Seconds()),
		"instance_id":               s.instanceID,
		"poll_last_cycle_ms":        lastCycleMs,
		"poll_consecutive_failures": failCount,
		"endpoints": gin.H{
			"GetMetric":   s.latencies.Percentiles(routeGetMetric),
			"ListMetrics": s.latencies.Percentiles(routeListMetrics),
		},
	})
}

func (s *server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *server) setStalenessHeaders(c *gin.Context, version uint64, ageMs int64) {
	c.Header(headerETag, strconv.FormatUint(version, 10))
	c.Header(headerDataAgeMs, strconv.FormatInt(ageMs, 10))
}

package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iulianpascalau/fabric-telemetry/services/datasim/cache"
	"github.com/iulianpascalau/fabric-telemetry/telemetry"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("datasim/api")

const (
	headerETag         = "ETag"
	headerIfNoneMatch  = "If-None-Match"
	headerSnapshotTs   = "X-Snapshot-Ts"
	headerCacheControl = "Cache-Control"
)

// ArgsWebServer defines the web server arguments
type ArgsWebServer struct {
	ListenAddress string
	Reader        SnapshotReader
}

type server struct {
	router     *gin.Engine
	httpServer *http.Server
	reader     SnapshotReader
	listenAddr string
	wg         sync.WaitGroup
}

// NewServer initializes the Gin engine and mounts all routes
func NewServer(args ArgsWebServer) (*server, error) {
	if check.IfNil(args.Reader) {
		return nil, errors.New("nil snapshot reader")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &server{
		router:     router,
		reader:     args.Reader,
		listenAddr: args.ListenAddress,
	}

	s.setupRoutes()
	return s, nil
}

func (s *server) setupRoutes() {
	s.router.GET("/counters", s.handleCounters)
	s.router.GET("/health", s.handleHealth)
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
		log.Info("starting HTTP server", "address", s.listenAddr)

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

// --- Handlers ---

func (s *server) handleCounters(c *gin.Context) {
	startTime := time.Now()

	clientToken := c.GetHeader(headerIfNoneMatch)
	snapshot, token, unchanged, err := s.reader.ReadConditional(clientToken)
	if err != nil {
		if errors.Is(err, cache.ErrInjectedFailure) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "injected failure"})
			return
		}

		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	if unchanged {
		c.Header(headerETag, token)
		c.Header(headerSnapshotTs, strconv.FormatInt(snapshot.TimestampMs, 10))
		c.Header(headerCacheControl, "no-store")
		c.Status(http.StatusNotModified)
		return
	}

	csvText := telemetry.EncodeCSV(snapshot)

	c.Header(headerETag, token)
	c.Header(headerSnapshotTs, strconv.FormatInt(snapshot.TimestampMs, 10))
	c.Header(headerCacheControl, "no-store")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csvText))

	log.Debug("serve /counters",
		"status", http.StatusOK,
		"latency_ms", time.Since(startTime).Milliseconds(),
		"bytes_sent", len(csvText),
		"age_ms", time.Now().UnixMilli()-snapshot.TimestampMs,
		"snapshot_version", token,
	)
}

func (s *server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

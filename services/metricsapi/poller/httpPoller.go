package poller

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/iulianpascalau/fabric-telemetry/telemetry"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("metricsapi/poller")

const (
	headerETag        = "ETag"
	headerIfNoneMatch = "If-None-Match"
	headerSnapshotTs  = "X-Snapshot-Ts"
)

// ArgsHTTPPoller defines the HTTP poller arguments
type ArgsHTTPPoller struct {
	UpstreamURL  string
	FetchTimeout time.Duration
	Store        Store
}

// httpPoller reconciles the local snapshot store against the upstream counters endpoint.
// Each cycle issues one conditional GET carrying the last-seen validator token:
// an explicit not-modified answer leaves the store untouched, a full payload is parsed
// and installed atomically, anything else counts as one failed cycle. A failure never
// escapes the cycle and never clears the store, so readers keep being served the last
// good snapshot while the failure counter grows.
type httpPoller struct {
	upstreamURL string
	client      *http.Client
	store       Store

	// etag is only touched by the single polling goroutine
	etag string

	lastCycleMs atomic.Int64
	failCount   atomic.Uint32
}

// NewHTTPPoller creates a new HTTP-based snapshot poller
func NewHTTPPoller(args ArgsHTTPPoller) (*httpPoller, error) {
	if check.IfNil(args.Store) {
		return nil, errors.New("nil snapshot store")
	}
	if len(args.UpstreamURL) == 0 {
		return nil, errors.New("empty upstream URL")
	}

	return &httpPoller{
		upstreamURL: args.UpstreamURL,
		client: &http.Client{
			Timeout: args.FetchTimeout,
		},
		store: args.Store,
	}, nil
}

// ProcessCycle runs one reconciliation cycle: conditional fetch, classify, apply, record.
// It is meant to be driven on a fixed period and never returns an error past its
// boundary: transport, status and parse problems all degrade to a failure count.
func (p *httpPoller) ProcessCycle(ctx context.Context) {
	cycleStart := time.Now()
	status := 0
	var fetchMs, parseMs, applyMs int64

	err := func() error {
		req, errReq := http.NewRequestWithContext(ctx, http.MethodGet, p.upstreamURL, nil)
		if errReq != nil {
			return errReq
		}
		if len(p.etag) > 0 {
			req.Header.Set(headerIfNoneMatch, p.etag)
		}

		resp, errDo := p.client.Do(req)
		if errDo != nil {
			return errDo
		}
		defer func() {
			_ = resp.Body.Close()
		}()

		status = resp.StatusCode
		fetchMs = time.Since(cycleStart).Milliseconds()

		switch {
		case resp.StatusCode == http.StatusNotModified:
			// nothing to parse or apply, the current view is still authoritative
			return nil
		case resp.StatusCode == http.StatusOK:
			body, errRead := io.ReadAll(resp.Body)
			if errRead != nil {
				return errRead
			}

			tsMs, _ := strconv.ParseInt(resp.Header.Get(headerSnapshotTs), 10, 64)
			token := resp.Header.Get(headerETag)

			parseStart := time.Now()
			snapshot, errParse := telemetry.ParseCSV(string(body), token, tsMs)
			if errParse != nil {
				return errParse
			}
			parseMs = time.Since(parseStart).Milliseconds()

			applyStart := time.Now()
			p.store.Set(snapshot)
			applyMs = time.Since(applyStart).Milliseconds()

			p.etag = token
			return nil
		default:
			return errStatusNotOK(resp.StatusCode)
		}
	}()

	if err != nil {
		p.failCount.Add(1)
		log.Warn("poll cycle failed", "upstream", p.upstreamURL, "error", err)
	} else {
		p.failCount.Store(0)
	}

	cycleMs := time.Since(cycleStart).Milliseconds()
	p.lastCycleMs.Store(cycleMs)

	log.Debug("poll cycle",
		"status", status,
		"fetch_ms", fetchMs,
		"parse_ms", parseMs,
		"apply_ms", applyMs,
		"cycle_ms", cycleMs,
		"retry", p.failCount.Load(),
	)
}

// Status returns the duration of the last completed cycle and the current count of
// consecutive failed cycles
func (p *httpPoller) Status() (lastCycleMs int64, failCount uint32) {
	return p.lastCycleMs.Load(), p.failCount.Load()
}

// Close releases the held transport resources
func (p *httpPoller) Close() error {
	p.client.CloseIdleConnections()
	return nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (p *httpPoller) IsInterfaceNil() bool {
	return p == nil
}

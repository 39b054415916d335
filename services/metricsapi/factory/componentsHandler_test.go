package factory

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iulianpascalau/fabric-telemetry/services/metricsapi/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(upstreamURL string) config.Config {
	return config.Config{
		ListenAddress:         "127.0.0.1:0",
		UpstreamURL:           upstreamURL,
		PollIntervalInMs:      100,
		FetchTimeoutInSeconds: 1,
		StatsWindowSize:       1000,
	}
}

func TestNewComponentsHandler(t *testing.T) {
	t.Parallel()

	t.Run("empty upstream URL should error", func(t *testing.T) {
		t.Parallel()

		handler, err := NewComponentsHandler(testConfig(""))
		assert.Nil(t, handler)
		assert.Error(t, err)
	})
	t.Run("should work", func(t *testing.T) {
		t.Parallel()

		handler, err := NewComponentsHandler(testConfig("http://127.0.0.1:9001/counters"))
		assert.NotNil(t, handler)
		assert.Nil(t, err)

		handler.Close()
	})
}

func TestComponentsHandlerMethods(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", "1")
		w.Header().Set("X-Snapshot-Ts", "1700000000000")
		_, _ = w.Write([]byte("entity_id,bandwidth\nentity-000,120.5\n"))
	}))
	defer upstream.Close()

	handler, _ := NewComponentsHandler(testConfig(upstream.URL))

	handler.Start()
	defer handler.Close()

	assert.Equal(t, "*store.snapshotStore", fmt.Sprintf("%T", handler.GetStore()))
	assert.Equal(t, "*poller.httpPoller", fmt.Sprintf("%T", handler.GetPoller()))
	assert.Equal(t, "*api.server", fmt.Sprintf("%T", handler.GetServer()))

	// the poll loop fires immediately, so the store fills up shortly after Start
	require.Eventually(t, func() bool {
		_, found := handler.GetStore().Get()
		return found
	}, 2*time.Second, 20*time.Millisecond)
}

package e2e_test

import (
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	datasimCfg "github.com/iulianpascalau/fabric-telemetry/services/datasim/config"
	datasimFactory "github.com/iulianpascalau/fabric-telemetry/services/datasim/factory"
	metricsCfg "github.com/iulianpascalau/fabric-telemetry/services/metricsapi/config"
	metricsFactory "github.com/iulianpascalau/fabric-telemetry/services/metricsapi/factory"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

var log = logger.GetOrCreate("e2e-test")

func getBody(t *testing.T, url string) (int, string) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(body)
}

func TestE2EFlow(t *testing.T) {
	log.Info("======== 1. Start the data simulator service via componentsHandler")
	datasimHandler, err := datasimFactory.NewComponentsHandler(datasimCfg.Config{
		ListenAddress: "127.0.0.1:0",
		EntityCount:   3,
		// long interval: the snapshot generated at startup stays current for the whole
		// test, which makes the conditional-read assertions deterministic
		GenerationIntervalInSeconds: 3600,
	})
	require.NoError(t, err)

	datasimHandler.Start()
	defer datasimHandler.Close()

	upstreamURL := fmt.Sprintf("http://%s/counters", datasimHandler.GetServer().Address())

	log.Info("======== 2. Start the metrics API service pointed at the simulator")
	metricsHandler, err := metricsFactory.NewComponentsHandler(metricsCfg.Config{
		ListenAddress:         "127.0.0.1:0",
		UpstreamURL:           upstreamURL,
		PollIntervalInMs:      200,
		FetchTimeoutInSeconds: 2,
		StatsWindowSize:       1000,
	})
	require.NoError(t, err)

	metricsHandler.Start()
	defer metricsHandler.Close()

	metricsURL := "http://" + metricsHandler.GetServer().Address()

	log.Info("======== 3. Wait for the first reconciliation cycle to fill the store")
	require.Eventually(t, func() bool {
		_, found := metricsHandler.GetStore().Get()
		return found
	}, 3*time.Second, 50*time.Millisecond)

	log.Info("======== 4. ListMetrics returns every entity with every metric")
	status, body := getBody(t, metricsURL+"/telemetry/ListMetrics")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(3), gjson.Get(body, "items.#").Int())
	assert.Equal(t, int64(8), gjson.Get(body, "fields.#").Int())
	assert.GreaterOrEqual(t, gjson.Get(body, "version").Int(), int64(1))

	log.Info("======== 5. GetMetric answers a single entity/metric lookup")
	status, body = getBody(t, metricsURL+"/telemetry/GetMetric?entity_id=entity-001&metric=bandwidth")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "entity-001", gjson.Get(body, "entity_id").String())
	assert.GreaterOrEqual(t, gjson.Get(body, "value").Float(), 0.0)

	log.Info("======== 5.1. Unknown entities and metrics are client errors")
	status, _ = getBody(t, metricsURL+"/telemetry/GetMetric?entity_id=entity-999&metric=bandwidth")
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = getBody(t, metricsURL+"/telemetry/GetMetric?entity_id=entity-001&metric=bogus")
	assert.Equal(t, http.StatusNotFound, status)

	log.Info("======== 6. Several poll cycles later the failure counter is still zero")
	time.Sleep(600 * time.Millisecond)
	status, body = getBody(t, metricsURL+"/stats")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(0), gjson.Get(body, "poll_consecutive_failures").Int())
	assert.GreaterOrEqual(t, gjson.Get(body, "endpoints.GetMetric.count").Int(), int64(1))
	assert.GreaterOrEqual(t, gjson.Get(body, "endpoints.ListMetrics.count").Int(), int64(1))

	log.Info("======== 7. The simulator answers conditional reads with 304")
	_, failCount := metricsHandler.GetPoller().Status()
	require.Equal(t, uint32(0), failCount)

	respFull, err := http.Get(upstreamURL)
	require.NoError(t, err)
	etag := respFull.Header.Get("ETag")
	_ = respFull.Body.Close()
	require.NotEmpty(t, etag)

	reqCond, err := http.NewRequest(http.MethodGet, upstreamURL, nil)
	require.NoError(t, err)
	reqCond.Header.Set("If-None-Match", etag)
	respCond, err := http.DefaultClient.Do(reqCond)
	require.NoError(t, err)
	defer func() {
		_ = respCond.Body.Close()
	}()
	assert.Equal(t, http.StatusNotModified, respCond.StatusCode)

	log.Info("======== 8. Both health probes answer")
	datasimURL := "http://" + datasimHandler.GetServer().Address()
	status, body = getBody(t, datasimURL+"/health")
	require.Equal(t, http.StatusOK, status)
	assert.True(t, gjson.Get(body, "ok").Bool())

	status, body = getBody(t, metricsURL+"/health")
	require.Equal(t, http.StatusOK, status)
	assert.True(t, gjson.Get(body, "ok").Bool())
}

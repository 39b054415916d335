package common

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntFromEnv(t *testing.T) {
	t.Run("unset variable returns default", func(t *testing.T) {
		assert.Equal(t, 64, IntFromEnv("TEST_INT_UNSET", 64, 1, 1000))
	})
	t.Run("unparsable value returns default", func(t *testing.T) {
		t.Setenv("TEST_INT_GARBAGE", "not-a-number")
		assert.Equal(t, 10, IntFromEnv("TEST_INT_GARBAGE", 10, 1, 1000))
	})
	t.Run("value is clamped to the allowed range", func(t *testing.T) {
		t.Setenv("TEST_INT_LOW", "-5")
		assert.Equal(t, 1, IntFromEnv("TEST_INT_LOW", 10, 1, 100))

		t.Setenv("TEST_INT_HIGH", "500")
		assert.Equal(t, 100, IntFromEnv("TEST_INT_HIGH", 10, 1, 100))
	})
	t.Run("value inside the range is kept", func(t *testing.T) {
		t.Setenv("TEST_INT_OK", "42")
		assert.Equal(t, 42, IntFromEnv("TEST_INT_OK", 10, 1, 100))
	})
}

func TestStringFromEnv(t *testing.T) {
	t.Run("unset variable returns default", func(t *testing.T) {
		assert.Equal(t, "0.0.0.0:8080", StringFromEnv("TEST_STR_UNSET", "0.0.0.0:8080"))
	})
	t.Run("set variable wins", func(t *testing.T) {
		t.Setenv("TEST_STR_SET", "127.0.0.1:9999")
		assert.Equal(t, "127.0.0.1:9999", StringFromEnv("TEST_STR_SET", "0.0.0.0:8080"))
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Parallel()

	err := LoadEnvFile("testdata/this-file-does-not-exist.env")
	assert.Nil(t, err)
}

func TestCronJobStarter(t *testing.T) {
	t.Parallel()

	numCalls := uint32(0)
	ctx, cancel := context.WithCancel(context.Background())

	CronJobStarter(ctx, func(ctx context.Context) {
		atomic.AddUint32(&numCalls, 1)
	}, 50*time.Millisecond)

	time.Sleep(180 * time.Millisecond)
	cancel()
	callsAtCancel := atomic.LoadUint32(&numCalls)
	require.GreaterOrEqual(t, callsAtCancel, uint32(2))

	time.Sleep(120 * time.Millisecond)
	assert.LessOrEqual(t, atomic.LoadUint32(&numCalls), callsAtCancel+1)
}

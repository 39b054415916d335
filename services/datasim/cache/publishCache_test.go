package cache

import (
	"strconv"
	"sync"
	"testing"

	"github.com/iulianpascalau/fabric-telemetry/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotWithVersion(version uint64) telemetry.Snapshot {
	return telemetry.Snapshot{
		Version:     version,
		TimestampMs: 1700000000000,
		Fields:      telemetry.MetricFields(),
		Rows: map[string]map[string]float64{
			"entity-000": {"bandwidth": 120.5},
		},
	}
}

func TestPublishCache_Read(t *testing.T) {
	t.Parallel()

	t.Run("empty cache should error", func(t *testing.T) {
		t.Parallel()

		pc := NewPublishCache()
		_, err := pc.Read()
		assert.Error(t, err)
	})
	t.Run("returns the latest snapshot", func(t *testing.T) {
		t.Parallel()

		pc := NewPublishCache()
		pc.Set(snapshotWithVersion(1))
		pc.Set(snapshotWithVersion(2))

		snapshot, err := pc.Read()
		require.NoError(t, err)
		assert.Equal(t, uint64(2), snapshot.Version)
		assert.Equal(t, uint64(2), pc.Version())
	})
}

func TestPublishCache_ReadConditional(t *testing.T) {
	t.Parallel()

	pc := NewPublishCache()
	pc.Set(snapshotWithVersion(7))

	t.Run("matching token yields unchanged plus the snapshot metadata", func(t *testing.T) {
		t.Parallel()

		snapshot, token, unchanged, err := pc.ReadConditional("7")
		require.NoError(t, err)
		assert.True(t, unchanged)
		assert.Equal(t, "7", token)
		assert.Equal(t, int64(1700000000000), snapshot.TimestampMs)
	})
	t.Run("stale token yields the full snapshot and the fresh token", func(t *testing.T) {
		t.Parallel()

		snapshot, token, unchanged, err := pc.ReadConditional("6")
		require.NoError(t, err)
		assert.False(t, unchanged)
		assert.Equal(t, "7", token)
		assert.Equal(t, uint64(7), snapshot.Version)
	})
	t.Run("empty token yields the full snapshot", func(t *testing.T) {
		t.Parallel()

		snapshot, token, unchanged, err := pc.ReadConditional("")
		require.NoError(t, err)
		assert.False(t, unchanged)
		assert.Equal(t, "7", token)
		assert.Equal(t, uint64(7), snapshot.Version)
	})
}

func TestPublishCache_ConcurrentReadersAndWriter(t *testing.T) {
	t.Parallel()

	pc := NewPublishCache()
	pc.Set(snapshotWithVersion(1))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(version int) {
			defer wg.Done()
			pc.Set(snapshotWithVersion(uint64(version + 2)))
		}(i)
		go func() {
			defer wg.Done()
			snapshot, err := pc.Read()
			require.NoError(t, err)
			// a reader must always observe a complete snapshot
			require.Len(t, snapshot.Fields, 8)
			_, _, _, errCond := pc.ReadConditional(strconv.FormatUint(snapshot.Version, 10))
			require.NoError(t, errCond)
		}()
	}
	wg.Wait()
}

func TestPublishCache_IsInterfaceNil(t *testing.T) {
	t.Parallel()

	var instance *publishCache
	assert.True(t, instance.IsInterfaceNil())

	instance = NewPublishCache()
	assert.False(t, instance.IsInterfaceNil())
}

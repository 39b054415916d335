package config

import (
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
)

func TestConfig(t *testing.T) {
	t.Parallel()

	testString := `
ListenAddress = "0.0.0.0:9001"
EntityCount = 64
GenerationIntervalInSeconds = 10
FaultFailurePct = 0
FaultSlowPct = 20
FaultSlowDelayInMs = 250
`

	expectedCfg := Config{
		ListenAddress:               "0.0.0.0:9001",
		EntityCount:                 64,
		GenerationIntervalInSeconds: 10,
		FaultFailurePct:             0,
		FaultSlowPct:                20,
		FaultSlowDelayInMs:          250,
	}

	cfg := Config{}

	err := toml.Unmarshal([]byte(testString), &cfg)
	assert.Nil(t, err)
	assert.Equal(t, expectedCfg, cfg)
}

func TestConfig_ApplyEnvOverrides(t *testing.T) {
	t.Setenv("ENTITY_COUNT", "0")       // below minimum, should clamp to 1
	t.Setenv("FAULT_FAIL_PCT", "150")   // above maximum, should clamp to 100
	t.Setenv("GEN_INTERVAL_SEC", "bad") // unparsable, should keep current value
	t.Setenv("BIND_ADDRESS", "127.0.0.1:0")

	cfg := Config{
		ListenAddress:               "0.0.0.0:9001",
		EntityCount:                 64,
		GenerationIntervalInSeconds: 10,
	}
	cfg.ApplyEnvOverrides()

	assert.Equal(t, 1, cfg.EntityCount)
	assert.Equal(t, 100, cfg.FaultFailurePct)
	assert.Equal(t, 10, cfg.GenerationIntervalInSeconds)
	assert.Equal(t, "127.0.0.1:0", cfg.ListenAddress)
}

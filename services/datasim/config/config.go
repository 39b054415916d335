package config

import (
	"fmt"
	"os"

	"github.com/iulianpascalau/fabric-telemetry/common"
	"github.com/pelletier/go-toml/v2"
)

// Config maps to the config.toml file for the data simulator service
type Config struct {
	ListenAddress               string `toml:"ListenAddress"`
	EntityCount                 int    `toml:"EntityCount"`
	GenerationIntervalInSeconds int    `toml:"GenerationIntervalInSeconds"`
	FaultFailurePct             int    `toml:"FaultFailurePct"`
	FaultSlowPct                int    `toml:"FaultSlowPct"`
	FaultSlowDelayInMs          int    `toml:"FaultSlowDelayInMs"`
}

// LoadConfig parses a TOML file into the Config struct
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filepath, err)
	}

	var cfg Config
	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	cfg.ApplyEnvOverrides()

	return &cfg, nil
}

// ApplyEnvOverrides overrides each field from its environment variable, if set, then
// clamps every value to its allowed range. Each field is defaulted independently, so a
// single bad variable never takes down the whole configuration.
func (cfg *Config) ApplyEnvOverrides() {
	cfg.ListenAddress = common.StringFromEnv("BIND_ADDRESS", cfg.ListenAddress)
	cfg.EntityCount = common.IntFromEnv("ENTITY_COUNT", cfg.EntityCount, 1, 100000)
	cfg.GenerationIntervalInSeconds = common.IntFromEnv("GEN_INTERVAL_SEC", cfg.GenerationIntervalInSeconds, 1, 86400)
	cfg.FaultFailurePct = common.IntFromEnv("FAULT_FAIL_PCT", cfg.FaultFailurePct, 0, 100)
	cfg.FaultSlowPct = common.IntFromEnv("FAULT_SLOW_PCT", cfg.FaultSlowPct, 0, 100)
	cfg.FaultSlowDelayInMs = common.IntFromEnv("FAULT_SLOW_MS", cfg.FaultSlowDelayInMs, 0, 60000)
}

package config

import (
	"fmt"
	"os"

	"github.com/iulianpascalau/fabric-telemetry/common"
	"github.com/pelletier/go-toml/v2"
)

// Config maps to the config.toml file for the metrics API service
type Config struct {
	ListenAddress         string `toml:"ListenAddress"`
	UpstreamURL           string `toml:"UpstreamURL"`
	PollIntervalInMs      int    `toml:"PollIntervalInMs"`
	FetchTimeoutInSeconds int    `toml:"FetchTimeoutInSeconds"`
	StatsWindowSize       int    `toml:"StatsWindowSize"`
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
// clamps every value to its allowed range
func (cfg *Config) ApplyEnvOverrides() {
	cfg.ListenAddress = common.StringFromEnv("BIND_ADDRESS", cfg.ListenAddress)
	cfg.UpstreamURL = common.StringFromEnv("UPSTREAM_URL", cfg.UpstreamURL)
	cfg.PollIntervalInMs = common.IntFromEnv("POLL_MS", cfg.PollIntervalInMs, 100, 3600000)
	cfg.FetchTimeoutInSeconds = common.IntFromEnv("FETCH_TIMEOUT_SEC", cfg.FetchTimeoutInSeconds, 1, 300)
	cfg.StatsWindowSize = common.IntFromEnv("STATS_WINDOW", cfg.StatsWindowSize, 1, 1000000)
}

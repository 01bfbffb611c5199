// Package config handles configuration for the carnet terminal client.
package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the carnet CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the carnet gRPC endpoint.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - PollInterval: how often long-running actions (identity lookup, photo
//     analysis, auto-match, extraction) are polled for progress.
//   - WaitTimeout: how long a command waits for such an action to settle.
//   - Plain: disable colours and borders.
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	PollInterval        time.Duration
	WaitTimeout         time.Duration
	Plain               bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.PollInterval = 200 * time.Millisecond
	c.WaitTimeout = 30 * time.Second
	c.Plain = false
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/carnet/internal/flagx"
	"github.com/dmitrijs2005/carnet/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Intervals
// are strings like "3s" or integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	PollInterval        timex.Duration `json:"poll_interval"`
	WaitTimeout         timex.Duration `json:"wait_timeout"`
	Plain               *bool          `json:"plain"`
}

// parseJson overlays Config with values loaded from the file named by -c or
// -config. Keys missing from the file keep their current values.
func parseJson(cfg *Config, args []string) error {
	// Resolve file path from flags.
	jsonConfigFile := flagx.ConfigPath(args)
	if jsonConfigFile == "" {
		return nil
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", jsonConfigFile, err)
	}

	if c.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = c.ServerEndpointAddr
	}
	if c.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = c.OnlineCheckInterval.Duration
	}
	if c.PollInterval.Duration > 0 {
		cfg.PollInterval = c.PollInterval.Duration
	}
	if c.WaitTimeout.Duration > 0 {
		cfg.WaitTimeout = c.WaitTimeout.Duration
	}
	if c.Plain != nil {
		cfg.Plain = *c.Plain
	}
	return nil
}

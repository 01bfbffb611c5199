package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/carnet/internal/flagx"
)

var clientFlags = flagx.Set{
	Value: []string{"-a", "-i", "-poll", "-wait"},
	Bool:  []string{"-plain"},
}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     address and port of the carnet server
//	-i duration   online check interval (e.g. "3s")
//	-poll         progress poll interval
//	-wait         how long to wait for an action to settle
//	-plain        no colours or borders
func parseFlags(cfg *Config, args []string) error {
	// Filter args to include only those handled here.
	args = clientFlags.Filter(args)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.DurationVar(&cfg.OnlineCheckInterval, "i", cfg.OnlineCheckInterval, "online check interval")
	fs.DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "progress poll interval")
	fs.DurationVar(&cfg.WaitTimeout, "wait", cfg.WaitTimeout, "wait timeout")
	fs.BoolVar(&cfg.Plain, "plain", cfg.Plain, "plain output")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("flags: %w", err)
	}
	return nil
}

package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/carnet/internal/flagx"
)

var serverFlags = flagx.Set{
	Value: []string{
		"-a", "-m", "-l", "-s", "-d", "-q", "-photos",
		"-automatch-delay", "-identity-delay", "-lookup-timeout", "-quality-tick", "-extraction-delay", "-session-ttl",
		"-u", "-p", "-b", "-g", "-e",
	},
	Bool: []string{"-seed", "-strict", "-demo"},
}

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     gRPC bind address (e.g., ":50051")
//	-m string     metrics bind address; empty disables it
//	-l string     log level
//	-s string     storage driver: memory, postgres, sqlite
//	-d string     PostgreSQL DSN
//	-q string     SQLite database path
//	-seed         seed an empty repository with the demo roster
//	-strict       enforce the status lifecycle on SetStatus
//	-demo         canned identity lookups and simulated photo checks
//	-photos       photo storage: memory, s3
//	-automatch-delay, -identity-delay, -lookup-timeout, -quality-tick,
//	-extraction-delay, -session-ttl   durations such as "1500ms"
//	-u, -p, -b, -g, -e                S3 user, password, bucket, region, endpoint
//
// Bool flags take the -flag=false form to switch a default off.
func parseFlags(config *Config, args []string) error {
	// Filter args to include only the flags handled here.
	args = serverFlags.Filter(args)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.GRPCAddr, "a", config.GRPCAddr, "address and port to run server")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "address and port to expose metrics")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.StorageDriver, "s", config.StorageDriver, "storage driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SQLitePath, "q", config.SQLitePath, "sqlite database path")
	fs.BoolVar(&config.Seed, "seed", config.Seed, "seed empty repository")
	fs.BoolVar(&config.StrictTransitions, "strict", config.StrictTransitions, "strict status transitions")
	fs.BoolVar(&config.DemoMode, "demo", config.DemoMode, "demo mode")
	fs.StringVar(&config.PhotoStorage, "photos", config.PhotoStorage, "photo storage")

	fs.DurationVar(&config.AutoMatchDelay, "automatch-delay", config.AutoMatchDelay, "auto-match delay")
	fs.DurationVar(&config.IdentityDelay, "identity-delay", config.IdentityDelay, "identity lookup delay")
	fs.DurationVar(&config.LookupTimeout, "lookup-timeout", config.LookupTimeout, "identity lookup timeout")
	fs.DurationVar(&config.QualityTick, "quality-tick", config.QualityTick, "photo analysis tick")
	fs.DurationVar(&config.ExtractionDelay, "extraction-delay", config.ExtractionDelay, "smart extraction delay")
	fs.DurationVar(&config.SessionTTL, "session-ttl", config.SessionTTL, "idle session lifetime")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 root bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 root region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("flags: %w", err)
	}
	return nil
}

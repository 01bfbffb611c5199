package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/carnet/internal/flagx"
	"github.com/dmitrijs2005/carnet/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the config file. Durations accept
// strings such as "1500ms" or integer nanoseconds. Pointer fields tell an
// explicit false apart from an absent key; absent keys keep their defaults.
type FileConfig struct {
	GRPCAddr          string         `json:"grpc_addr" yaml:"grpc_addr"`
	MetricsAddr       *string        `json:"metrics_addr" yaml:"metrics_addr"`
	LogLevel          string         `json:"log_level" yaml:"log_level"`
	StorageDriver     string         `json:"storage_driver" yaml:"storage_driver"`
	DatabaseDSN       string         `json:"database_dsn" yaml:"database_dsn"`
	SQLitePath        string         `json:"sqlite_path" yaml:"sqlite_path"`
	Seed              *bool          `json:"seed" yaml:"seed"`
	StrictTransitions *bool          `json:"strict_transitions" yaml:"strict_transitions"`
	DemoMode          *bool          `json:"demo_mode" yaml:"demo_mode"`
	AutoMatchDelay    timex.Duration `json:"automatch_delay" yaml:"automatch_delay"`
	IdentityDelay     timex.Duration `json:"identity_delay" yaml:"identity_delay"`
	LookupTimeout     timex.Duration `json:"lookup_timeout" yaml:"lookup_timeout"`
	QualityTick       timex.Duration `json:"quality_tick" yaml:"quality_tick"`
	ExtractionDelay   timex.Duration `json:"extraction_delay" yaml:"extraction_delay"`
	SessionTTL        timex.Duration `json:"session_ttl" yaml:"session_ttl"`
	PhotoStorage      string         `json:"photo_storage" yaml:"photo_storage"`
	S3RootUser        string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword    string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket          string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region          string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
}

// parseFile loads the file named by -c or -config, if any. Files ending in
// .yaml or .yml are read as YAML, anything else as JSON.
func parseFile(config *Config, args []string) error {

	path := flagx.ConfigPath(args)

	// nothing to load
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	c := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	c.apply(config)
	return nil
}

func (c *FileConfig) apply(config *Config) {
	setString(&config.GRPCAddr, c.GRPCAddr)
	if c.MetricsAddr != nil {
		config.MetricsAddr = *c.MetricsAddr
	}
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.StorageDriver, c.StorageDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SQLitePath, c.SQLitePath)
	setBool(&config.Seed, c.Seed)
	setBool(&config.StrictTransitions, c.StrictTransitions)
	setBool(&config.DemoMode, c.DemoMode)
	setDuration(&config.AutoMatchDelay, c.AutoMatchDelay)
	setDuration(&config.IdentityDelay, c.IdentityDelay)
	setDuration(&config.LookupTimeout, c.LookupTimeout)
	setDuration(&config.QualityTick, c.QualityTick)
	setDuration(&config.ExtractionDelay, c.ExtractionDelay)
	setDuration(&config.SessionTTL, c.SessionTTL)
	setString(&config.PhotoStorage, c.PhotoStorage)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}

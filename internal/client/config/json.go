package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/catalogkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent fields
// leave the current value untouched.
type JsonConfig struct {
	APIAddress     string         `json:"api_address"`
	HealthAddress  string         `json:"health_address"`
	AccessToken    string         `json:"access_token"`
	DataDir        string         `json:"data_dir"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	SyncInterval   timex.Duration `json:"sync_interval"`
	AutoSync       *bool          `json:"auto_sync"`

	SnapshotStore string `json:"snapshot_store"`
	S3Bucket      string `json:"s3_bucket"`
	S3Key         string `json:"s3_key"`
	S3Region      string `json:"s3_region"`
	S3Endpoint    string `json:"s3_endpoint"`
	S3User        string `json:"s3_user"`
	S3Password    string `json:"s3_password"`

	LogFile  string `json:"log_file"`
	LogLevel string `json:"log_level"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJSONFile overlays cfg with the values found in path.
func parseJSONFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.APIAddress, jc.APIAddress)
	setString(&cfg.HealthAddress, jc.HealthAddress)
	setString(&cfg.AccessToken, jc.AccessToken)
	setString(&cfg.DataDir, jc.DataDir)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.SyncInterval.Duration > 0 {
		cfg.SyncInterval = jc.SyncInterval.Duration
	}
	if jc.AutoSync != nil {
		cfg.AutoSync = *jc.AutoSync
	}

	setString(&cfg.SnapshotStore, jc.SnapshotStore)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Key, jc.S3Key)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3Endpoint, jc.S3Endpoint)
	setString(&cfg.S3User, jc.S3User)
	setString(&cfg.S3Password, jc.S3Password)

	setString(&cfg.LogFile, jc.LogFile)
	setString(&cfg.LogLevel, jc.LogLevel)
	return nil
}

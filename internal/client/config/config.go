package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/catalogkeeper/internal/flagx"
)

// Snapshot store kinds.
const (
	SnapshotStoreHTTP = "http"
	SnapshotStoreS3   = "s3"
)

// Config holds runtime settings of the catalog client.
type Config struct {
	APIAddress     string
	HealthAddress  string
	AccessToken    string
	DataDir        string
	RequestTimeout time.Duration
	SyncInterval   time.Duration
	AutoSync       bool

	SnapshotStore string
	S3Bucket      string
	S3Key         string
	S3Region      string
	S3Endpoint    string
	S3User        string
	S3Password    string

	LogFile  string
	LogLevel string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIAddress = "http://127.0.0.1:8080"
	c.HealthAddress = "127.0.0.1:50051"
	c.DataDir = defaultDataDir()
	c.RequestTimeout = 10 * time.Second
	c.SyncInterval = 5 * time.Minute
	c.AutoSync = true
	c.SnapshotStore = SnapshotStoreHTTP
	c.S3Key = "shared-data/products.json"
	c.S3Region = "us-east-1"
	c.LogLevel = "info"
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "catalogkeeper")
	}
	return ".catalogkeeper"
}

// Validate reports settings the client cannot run with.
func (c *Config) Validate() error {
	switch c.SnapshotStore {
	case SnapshotStoreHTTP:
	case SnapshotStoreS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("snapshot store %q requires a bucket", c.SnapshotStore)
		}
	default:
		return fmt.Errorf("unknown snapshot store %q", c.SnapshotStore)
	}
	if c.SyncInterval <= 0 {
		return fmt.Errorf("sync interval must be positive, got %s", c.SyncInterval)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data dir must be set")
	}
	return nil
}

// LoadConfig applies defaults and then the JSON file named by -c/-config in
// args, if any. Command-line flags are bound on top by the CLI.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if path := flagx.ConfigPath(args); path != "" {
		if err := parseJSONFile(cfg, path); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.APIAddress)
	assert.Equal(t, "127.0.0.1:50051", c.HealthAddress)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, 5*time.Minute, c.SyncInterval)
	assert.True(t, c.AutoSync)
	assert.Equal(t, SnapshotStoreHTTP, c.SnapshotStore)
	assert.NotEmpty(t, c.DataDir)
	require.NoError(t, c.Validate())
}

func TestLoadConfig_WithoutFile(t *testing.T) {
	cfg, err := LoadConfig([]string{"list", "--search", "x"})
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Equal(t, &want, cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"s3 with bucket", func(c *Config) { c.SnapshotStore = SnapshotStoreS3; c.S3Bucket = "b" }, true},
		{"s3 without bucket", func(c *Config) { c.SnapshotStore = SnapshotStoreS3 }, false},
		{"unknown store", func(c *Config) { c.SnapshotStore = "ftp" }, false},
		{"zero interval", func(c *Config) { c.SyncInterval = 0 }, false},
		{"no data dir", func(c *Config) { c.DataDir = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			if tt.ok {
				require.NoError(t, c.Validate())
			} else {
				require.Error(t, c.Validate())
			}
		})
	}
}

// Package config loads runtime configuration for the catalog client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags bound by the CLI, which override earlier values.
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "5m" or
// integer nanoseconds:
//
//	{
//	  "api_address": "http://127.0.0.1:8080",
//	  "health_address": "127.0.0.1:50051",
//	  "access_token": "eyJ...",
//	  "data_dir": "/var/lib/catalogkeeper",
//	  "request_timeout": "10s",
//	  "sync_interval": "5m",
//	  "auto_sync": true,
//	  "snapshot_store": "s3",
//	  "s3_bucket": "catalog",
//	  "s3_key": "shared-data/products.json",
//	  "s3_region": "us-east-1",
//	  "s3_endpoint": "http://127.0.0.1:9000",
//	  "s3_user": "minioadmin",
//	  "s3_password": "minioadmin",
//	  "log_file": "/var/log/catalogkeeper/client.log",
//	  "log_level": "info"
//	}
//
// Note: This package does not read environment variables directly, except
// for the S3 credential chain used when s3_user is empty.
package config

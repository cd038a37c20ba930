package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/catalogkeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string              HTTP bind address (e.g., ":8080")
//	-g string              gRPC health bind address
//	-d string              PostgreSQL DSN
//	-s string              token HMAC secret
//	-t duration            token validity (e.g., "720h")
//	-l string              log level
//	-issue-token string    print a bearer token for this subject and exit
//
// Args are filtered with flagx.FilterArgs first so the -c config flag and any
// unknown flags do not break parsing.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-d", "-s", "-t", "-l", "-issue-token", "--issue-token"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddress, "a", config.HTTPAddress, "address and port to run the HTTP API")
	fs.StringVar(&config.HealthAddress, "g", config.HealthAddress, "address and port of the gRPC health service")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.TokenValidityDuration, "t", config.TokenValidityDuration, "token validity duration")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.IssueToken, "issue-token", config.IssueToken, "print a bearer token for this subject and exit")

	return fs.Parse(args)
}

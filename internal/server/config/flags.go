package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/accounts/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g., ":8080")
//	-g string     gRPC bind address (e.g., ":50051")
//	-s string     storage driver: memory or postgres
//	-d string     PostgreSQL DSN
//	-l string     log level: debug, info, warn, error
//	-f string     log format: text or json
//	-t duration   shutdown timeout (e.g., "10s")
//	-p duration   health probe interval
//
// os.Args is filtered with flagx.FilterArgs first, so flags owned by other
// loaders (-c, -config) do not trip the parser.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-s", "-d", "-l", "-f", "-t", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP address and port")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "gRPC address and port")
	fs.StringVar(&config.StorageDriver, "s", config.StorageDriver, "storage driver (memory|postgres)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format (text|json)")
	fs.DurationVar(&config.ShutdownTimeout, "t", config.ShutdownTimeout, "shutdown timeout")
	fs.DurationVar(&config.HealthProbeInterval, "p", config.HealthProbeInterval, "health probe interval")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}

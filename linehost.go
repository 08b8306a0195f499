// Package linehost runs a line station application with an ordered startup
// sequence and a bounded, watchdog-backed shutdown.
//
// Example usage:
//
//	cfg := linehost.DefaultConfig()
//	cfg.SettingsPath = "/etc/linehost/settings.toml"
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	code, err := linehost.Run(ctx, cfg, os.Args[1:])
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Exit(code)
package linehost

import (
	"context"

	"github.com/rs/zerolog"

	logAdapter "github.com/bft-labs/linehost/internal/adapters/log"
	"github.com/bft-labs/linehost/internal/cliconfig"
	"github.com/bft-labs/linehost/pkg/linehost"
	"github.com/bft-labs/linehost/plugins/configwatcher"
)

// Config holds the configuration for the line station host.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = cliconfig.Config

// Run starts the host with the settings file watcher enabled and blocks
// until it has shut down. It must be called from the main goroutine.
// Cancel ctx to shut down; exit the process with the returned code.
func Run(ctx context.Context, cfg Config, args []string) (int, error) {
	h, err := linehost.New(cfg,
		linehost.WithLogger(logAdapter.NewZerologAdapterWithLogger(Logger(cfg.LogLevel))),
		configwatcher.WithDefaultConfigWatcher(),
	)
	if err != nil {
		return 1, err
	}
	return h.Run(ctx, args)
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return cliconfig.DefaultConfig()
}

// Logger returns a console logger on stderr at the named level.
func Logger(level string) zerolog.Logger {
	return cliconfig.NewLogger(level)
}

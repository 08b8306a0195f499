package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	logAdapter "github.com/bft-labs/linehost/internal/adapters/log"
	"github.com/bft-labs/linehost/internal/cliconfig"
	"github.com/bft-labs/linehost/pkg/linehost"
	"github.com/bft-labs/linehost/plugins/configwatcher"
)

const helpDescription = `
Host a production line station: validate the environment, load the station
settings, open the configured databases and serial ports, and shut everything
down within a fixed deadline when asked to stop.

Startup arguments (case-insensitive, after --):
  FULLSCREEN      show the main window fullscreen
  CLEARBUFFER     clear serial input buffers on open
  BCSDELAY=<ms>   serial exchange delay override
  LINE=<id>       production line identifier
  POSITION=<n>    station position on the line

Configuration precedence: flags > LINEHOST_* environment > config file.
`

var exampleUsage = strings.TrimSpace(`
  linehost --settings /etc/linehost/settings.toml -- FULLSCREEN LINE=L4 POSITION=2
  linehost --config $HOME/.linehost/config.toml --metrics-addr :9464
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return linehost.Version
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string
	exitCode := 0

	root := &cobra.Command{
		Use:           "linehost [flags] [-- startup arguments]",
		Short:         "Host a production line station with bounded startup and shutdown",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Config file first (default $HOME/.linehost/config.toml), then env, then flags.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			log := cliconfig.NewLogger(cfg.LogLevel)
			log.Info().Interface("config", cfg).Strs("args", args).Msg("configuration")

			h, err := linehost.New(cfg,
				linehost.WithLogger(logAdapter.NewZerologAdapterWithLogger(log)),
				linehost.WithAppVersion(getVersion()),
				configwatcher.WithConfigWatcher(configwatcher.DefaultConfig()),
			)
			if err != nil {
				return fmt.Errorf("create linehost: %w", err)
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)
			go func() {
				select {
				case sig := <-sigCh:
					log.Info().Str("signal", sig.String()).Msg("received signal, stopping...")
					cancel()
				case <-ctx.Done():
				}
			}()

			code, err := h.Run(ctx, args)
			if err != nil {
				return fmt.Errorf("run linehost: %w", err)
			}
			exitCode = code
			return nil
		},
	}

	def := cliconfig.DefaultConfig()
	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.linehost/config.toml)")
	root.Flags().StringVar(&cfg.AppName, "app-name", def.AppName, "process name used for the single-instance check")
	root.Flags().StringVar(&cfg.SettingsPath, "settings", def.SettingsPath, "station settings file (.toml or .xml)")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", def.LogLevel, "log level (debug, info, warn, error)")
	root.Flags().StringVar(&cfg.ProductionPriority, "priority", def.ProductionPriority, "production timer priority (Background, Normal, Render, Send)")
	root.Flags().StringVar(&cfg.MetricsAddr, "metrics-addr", def.MetricsAddr, "listen address for the Prometheus endpoint (disabled when empty)")

	root.Flags().DurationVar(&cfg.TimerInterval, "timer-interval", def.TimerInterval, "production timer interval")
	root.Flags().DurationVar(&cfg.PortTimeout, "port-timeout", def.PortTimeout, "bound on closing one serial port")
	root.Flags().DurationVar(&cfg.OuterTimeout, "shutdown-timeout", def.OuterTimeout, "bound on the whole graceful shutdown")
	root.Flags().DurationVar(&cfg.GracePeriod, "grace-period", def.GracePeriod, "extra time before the process is killed")
	root.Flags().DurationVar(&cfg.PollInterval, "poll-interval", def.PollInterval, "watchdog poll interval")
	logger := cliconfig.NewLogger("info")
	if err := root.Flags().MarkHidden("poll-interval"); err != nil {
		logger.Info().Err(err).Msg("failed to hide poll-interval flag")
	}

	root.Flags().IntVar(&cfg.WorkerPoolSize, "workers", def.WorkerPoolSize, "worker pool size")
	root.Flags().IntVar(&cfg.EventLogCapacity, "event-log-capacity", def.EventLogCapacity, "number of operator events kept in memory")

	root.Flags().BoolVar(&cfg.Interactive, "interactive", def.Interactive, "wait for the operator to acknowledge error dialogs")
	root.Flags().BoolVar(&cfg.ValidateArgs, "validate-args", def.ValidateArgs, "abort startup when LINE/POSITION are missing or invalid")
	root.Flags().BoolVar(&cfg.OpenSerialPorts, "open-serial-ports", def.OpenSerialPorts, "open the configured serial ports once running")

	if err := root.Execute(); err != nil {
		logger.Error().Err(err).Msg("linehost")
		os.Exit(1)
	}
	os.Exit(exitCode)
}

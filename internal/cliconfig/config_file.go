package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	AppName            string `toml:"app_name"`
	SettingsPath       string `toml:"settings_path"`
	LogLevel           string `toml:"log_level"`
	Interactive        *bool  `toml:"interactive"`
	ValidateArgs       *bool  `toml:"validate_args"`
	ProductionPriority string `toml:"production_priority"`
	TimerInterval      string `toml:"timer_interval"`
	WorkerPoolSize     int    `toml:"worker_pool_size"`
	EventLogCapacity   int    `toml:"event_log_capacity"`
	MetricsAddr        string `toml:"metrics_addr"`
	PortTimeout        string `toml:"port_timeout"`
	OuterTimeout       string `toml:"shutdown_timeout"`
	GracePeriod        string `toml:"grace_period"`
	OpenSerialPorts    *bool  `toml:"open_serial_ports"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.linehost/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".linehost", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("app-name", fc.AppName, &cfg.AppName)
	s.setString("settings", fc.SettingsPath, &cfg.SettingsPath)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("priority", fc.ProductionPriority, &cfg.ProductionPriority)
	s.setString("metrics-addr", fc.MetricsAddr, &cfg.MetricsAddr)

	if err := s.setDuration("timer-interval", fc.TimerInterval, &cfg.TimerInterval); err != nil {
		return err
	}
	if err := s.setDuration("port-timeout", fc.PortTimeout, &cfg.PortTimeout); err != nil {
		return err
	}
	if err := s.setDuration("shutdown-timeout", fc.OuterTimeout, &cfg.OuterTimeout); err != nil {
		return err
	}
	if err := s.setDuration("grace-period", fc.GracePeriod, &cfg.GracePeriod); err != nil {
		return err
	}

	s.setInt("workers", fc.WorkerPoolSize, &cfg.WorkerPoolSize)
	s.setInt("event-log-capacity", fc.EventLogCapacity, &cfg.EventLogCapacity)

	s.setBool("interactive", fc.Interactive, &cfg.Interactive)
	s.setBool("validate-args", fc.ValidateArgs, &cfg.ValidateArgs)
	s.setBool("open-serial-ports", fc.OpenSerialPorts, &cfg.OpenSerialPorts)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

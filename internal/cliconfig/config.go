package cliconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Default shutdown bounds.
const (
	DefaultPortTimeout  = 2000 * time.Millisecond
	DefaultOuterTimeout = 4000 * time.Millisecond
	DefaultGracePeriod  = 5 * time.Second
	DefaultPollInterval = time.Millisecond
)

// Config holds CLI configuration for linehost.
type Config struct {
	// AppName is the process identity used for the single-instance check.
	AppName string

	SettingsPath string
	LogLevel     string
	Interactive  bool

	// ValidateArgs enables the line/position argument check.
	ValidateArgs bool

	// ProductionPriority is the dispatcher priority name for production work.
	ProductionPriority string
	TimerInterval      time.Duration

	WorkerPoolSize   int
	EventLogCapacity int
	MetricsAddr      string

	PortTimeout  time.Duration
	OuterTimeout time.Duration
	GracePeriod  time.Duration
	PollInterval time.Duration

	// OpenSerialPorts opens every registered serial port once running.
	OpenSerialPorts bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		AppName:            "linehost",
		SettingsPath:       "settings.toml",
		LogLevel:           "info",
		ProductionPriority: "Background",
		TimerInterval:      time.Second,
		WorkerPoolSize:     8,
		EventLogCapacity:   500,
		PortTimeout:        DefaultPortTimeout,
		OuterTimeout:       DefaultOuterTimeout,
		GracePeriod:        DefaultGracePeriod,
		PollInterval:       DefaultPollInterval,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.AppName == "" {
		return fmt.Errorf("app-name is required")
	}
	if c.SettingsPath == "" {
		return fmt.Errorf("settings path is required")
	}
	if c.PortTimeout <= 0 {
		return fmt.Errorf("port timeout must be positive")
	}
	if c.OuterTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	if c.GracePeriod <= 0 {
		return fmt.Errorf("grace period must be positive")
	}
	if c.PollInterval <= 0 || c.PollInterval > c.GracePeriod {
		return fmt.Errorf("poll interval must be positive and not exceed the grace period")
	}
	if c.TimerInterval <= 0 {
		return fmt.Errorf("timer interval must be positive")
	}
	if _, ok := ParsePriority(c.ProductionPriority); !ok {
		return fmt.Errorf("unknown production priority %q", c.ProductionPriority)
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	v := strings.ToLower(value)
	*dst = v == "true" || v == "1"
}

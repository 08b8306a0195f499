package cliconfig

import "os"

// ApplyEnvConfig applies LINEHOST_* environment variables to cfg.
// Environment values override the config file but not explicitly set flags.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("app-name", os.Getenv("LINEHOST_APP_NAME"), &cfg.AppName)
	s.setString("settings", os.Getenv("LINEHOST_SETTINGS"), &cfg.SettingsPath)
	s.setString("log-level", os.Getenv("LINEHOST_LOG_LEVEL"), &cfg.LogLevel)
	s.setString("priority", os.Getenv("LINEHOST_PRODUCTION_PRIORITY"), &cfg.ProductionPriority)
	s.setString("metrics-addr", os.Getenv("LINEHOST_METRICS_ADDR"), &cfg.MetricsAddr)

	if err := s.setDuration("timer-interval", os.Getenv("LINEHOST_TIMER_INTERVAL"), &cfg.TimerInterval); err != nil {
		return err
	}
	if err := s.setDuration("port-timeout", os.Getenv("LINEHOST_PORT_TIMEOUT"), &cfg.PortTimeout); err != nil {
		return err
	}
	if err := s.setDuration("shutdown-timeout", os.Getenv("LINEHOST_SHUTDOWN_TIMEOUT"), &cfg.OuterTimeout); err != nil {
		return err
	}
	if err := s.setDuration("grace-period", os.Getenv("LINEHOST_GRACE_PERIOD"), &cfg.GracePeriod); err != nil {
		return err
	}

	if err := s.setIntFromString("workers", os.Getenv("LINEHOST_WORKERS"), &cfg.WorkerPoolSize); err != nil {
		return err
	}
	if err := s.setIntFromString("event-log-capacity", os.Getenv("LINEHOST_EVENT_LOG_CAPACITY"), &cfg.EventLogCapacity); err != nil {
		return err
	}

	s.setBoolFromString("interactive", os.Getenv("LINEHOST_INTERACTIVE"), &cfg.Interactive)
	s.setBoolFromString("validate-args", os.Getenv("LINEHOST_VALIDATE_ARGS"), &cfg.ValidateArgs)
	s.setBoolFromString("open-serial-ports", os.Getenv("LINEHOST_OPEN_SERIAL_PORTS"), &cfg.OpenSerialPorts)

	return nil
}

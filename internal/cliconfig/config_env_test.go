package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"LINEHOST_APP_NAME":            "station",
				"LINEHOST_SETTINGS":            "/env/settings.toml",
				"LINEHOST_LOG_LEVEL":           "debug",
				"LINEHOST_PRODUCTION_PRIORITY": "Send",
				"LINEHOST_METRICS_ADDR":        ":9200",
				"LINEHOST_TIMER_INTERVAL":      "2s",
				"LINEHOST_PORT_TIMEOUT":        "500ms",
				"LINEHOST_SHUTDOWN_TIMEOUT":    "1s",
				"LINEHOST_GRACE_PERIOD":        "2s",
				"LINEHOST_WORKERS":             "2",
				"LINEHOST_EVENT_LOG_CAPACITY":  "10",
				"LINEHOST_INTERACTIVE":         "true",
				"LINEHOST_VALIDATE_ARGS":       "1",
				"LINEHOST_OPEN_SERIAL_PORTS":   "true",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				AppName:            "station",
				SettingsPath:       "/env/settings.toml",
				LogLevel:           "debug",
				ProductionPriority: "Send",
				MetricsAddr:        ":9200",
				TimerInterval:      2 * time.Second,
				PortTimeout:        500 * time.Millisecond,
				OuterTimeout:       time.Second,
				GracePeriod:        2 * time.Second,
				WorkerPoolSize:     2,
				EventLogCapacity:   10,
				Interactive:        true,
				ValidateArgs:       true,
				OpenSerialPorts:    true,
			},
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"LINEHOST_SETTINGS":  "/env/settings.toml",
				"LINEHOST_LOG_LEVEL": "warn",
			},
			changed: map[string]bool{"settings": true},
			initial: Config{SettingsPath: "/flag/settings.toml"},
			expected: Config{
				SettingsPath: "/flag/settings.toml",
				LogLevel:     "warn",
			},
		},
		{
			name:    "returns error for invalid duration",
			envVars: map[string]string{"LINEHOST_GRACE_PERIOD": "later"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid int",
			envVars: map[string]string{"LINEHOST_WORKERS": "many"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:     "handles bool 'false' as false",
			envVars:  map[string]string{"LINEHOST_VALIDATE_ARGS": "false"},
			changed:  map[string]bool{},
			initial:  Config{ValidateArgs: true},
			expected: Config{ValidateArgs: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)

			if tt.wantErr && err == nil {
				t.Error("ApplyEnvConfig() expected error but got nil")
				return
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ApplyEnvConfig() unexpected error: %v", err)
				return
			}
			if !tt.wantErr && cfg != tt.expected {
				t.Errorf("ApplyEnvConfig() = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

// Integration test: precedence order (CLI > Env > File)
func TestConfigPrecedence(t *testing.T) {
	trueVal := true

	fileConf := FileConfig{
		SettingsPath: "/file/settings.toml",
		LogLevel:     "debug",
		MetricsAddr:  ":9000",
		ValidateArgs: &trueVal,
	}

	t.Setenv("LINEHOST_SETTINGS", "/env/settings.toml")
	t.Setenv("LINEHOST_LOG_LEVEL", "warn")
	t.Setenv("LINEHOST_APP_NAME", "env-station")

	changed := map[string]bool{
		"settings": true,
	}

	cfg := Config{
		SettingsPath: "/cli/settings.toml",
	}

	if err := ApplyFileConfig(&cfg, fileConf, changed); err != nil {
		t.Fatalf("ApplyFileConfig failed: %v", err)
	}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig failed: %v", err)
	}

	if cfg.SettingsPath != "/cli/settings.toml" {
		t.Errorf("SettingsPath = %v, want /cli/settings.toml (CLI should win)", cfg.SettingsPath)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %v, want warn (env should override file)", cfg.LogLevel)
	}
	if cfg.AppName != "env-station" {
		t.Errorf("AppName = %v, want env-station (env should set)", cfg.AppName)
	}
	if cfg.MetricsAddr != ":9000" {
		t.Errorf("MetricsAddr = %v, want :9000 (file should set)", cfg.MetricsAddr)
	}
	if !cfg.ValidateArgs {
		t.Error("ValidateArgs = false, want true (file should set)")
	}
}

package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("fieldproof-test")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Driver != DriverMemory {
		t.Errorf("driver = %q, want memory", cfg.Storage.Driver)
	}
	if cfg.Location.PreciseTimeout != 25*time.Second || cfg.Location.RelaxedTimeout != 15*time.Second {
		t.Errorf("unexpected location timeouts %+v", cfg.Location)
	}
	if cfg.Capture.DefaultMode != "mandatory" {
		t.Errorf("default mode = %q", cfg.Capture.DefaultMode)
	}
	if cfg.Telemetry.ServiceName != "fieldproof-test" {
		t.Errorf("service name = %q", cfg.Telemetry.ServiceName)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FIELDPROOF_STORAGE_DRIVER", "sqlite")
	t.Setenv("FIELDPROOF_CAPTURE_DEFAULT_MODE", "best_effort")
	t.Setenv("FIELDPROOF_LOCATION_PRECISE_TIMEOUT", "5s")

	cfg, err := Load("fieldproof-test")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Driver != DriverSQLite {
		t.Errorf("driver = %q, want sqlite", cfg.Storage.Driver)
	}
	if cfg.Capture.DefaultMode != "best_effort" {
		t.Errorf("mode = %q", cfg.Capture.DefaultMode)
	}
	if cfg.Location.PreciseTimeout != 5*time.Second {
		t.Errorf("precise timeout = %s", cfg.Location.PreciseTimeout)
	}
}

func validConfig() Config {
	return Config{
		Server:   ServerConfig{Port: 8080, ReadTimeout: 10, WriteTimeout: 10},
		Storage:  StorageConfig{Driver: DriverMemory},
		Location: LocationConfig{Provider: ProviderSynthetic, PreciseTimeout: time.Second, RelaxedTimeout: time.Second},
		Capture:  CaptureConfig{DefaultMode: "mandatory"},
		Map:      MapConfig{EmbedBase: "https://example.test/embed"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "mongo" }, "storage.driver"},
		{"postgres without host", func(c *Config) { c.Storage.Driver = DriverPostgres; c.Database.Port = 5432 }, "database.host"},
		{"nats provider without nats", func(c *Config) { c.Location.Provider = ProviderNATS; c.Location.DeviceSubject = "x" }, "nats.enabled"},
		{"bad mode", func(c *Config) { c.Capture.DefaultMode = "sometimes" }, "capture.default_mode"},
		{"no embed base", func(c *Config) { c.Map.EmbedBase = "" }, "map.embed_base"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Location  LocationConfig  `mapstructure:"location"`
	Capture   CaptureConfig   `mapstructure:"capture"`
	Map       MapConfig       `mapstructure:"map"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
	// BodyLimit caps request bodies; photos arrive as data URIs.
	BodyLimit int `mapstructure:"body_limit"`
}

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverValkey   = "valkey"
	DriverPostgres = "postgres"
)

type StorageConfig struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
	KeyPrefix  string `mapstructure:"key_prefix"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Enabled bool   `mapstructure:"enabled"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

// Location providers.
const (
	ProviderSynthetic = "synthetic"
	ProviderNATS      = "nats"
)

type LocationConfig struct {
	Provider string `mapstructure:"provider"`
	// DeviceSubject is the NATS subject a field agent answers position requests on.
	DeviceSubject  string        `mapstructure:"device_subject"`
	Seed           uint64        `mapstructure:"seed"`
	PreciseTimeout time.Duration `mapstructure:"precise_timeout"`
	RelaxedTimeout time.Duration `mapstructure:"relaxed_timeout"`
	RelaxedMaxAge  time.Duration `mapstructure:"relaxed_max_age"`
}

type CaptureConfig struct {
	DefaultMode string `mapstructure:"default_mode"`
}

type MapConfig struct {
	EmbedBase string `mapstructure:"embed_base"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	OTLPAddr    string `mapstructure:"otlp_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from defaults, an optional config file, an
// optional .env file and environment variables, in increasing precedence.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 60)
	v.SetDefault("server.body_limit", 12*1024*1024)
	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("storage.sqlite_path", "fieldproof.db")
	v.SetDefault("storage.key_prefix", "fieldproof:")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "fieldproof")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "fieldproof")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.enabled", false)
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("location.provider", ProviderSynthetic)
	v.SetDefault("location.device_subject", "proof.device.default.position")
	v.SetDefault("location.seed", 0)
	v.SetDefault("location.precise_timeout", 25*time.Second)
	v.SetDefault("location.relaxed_timeout", 15*time.Second)
	v.SetDefault("location.relaxed_max_age", 60*time.Second)
	v.SetDefault("capture.default_mode", "mandatory")
	v.SetDefault("map.embed_base", "https://www.openstreetmap.org/export/embed.html")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.otlp_addr", "localhost:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// .env only fills variables that are not already set in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn(".env load warning", "error", err)
	}

	// Environment variables: FIELDPROOF_STORAGE_DRIVER → storage.driver
	v.SetEnvPrefix("FIELDPROOF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}

	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			errs = append(errs, "storage.sqlite_path is required for the sqlite driver")
		}
	case DriverValkey:
		if c.Valkey.Addr == "" {
			errs = append(errs, "valkey.addr is required for the valkey driver")
		}
	case DriverPostgres:
		if c.Database.Host == "" {
			errs = append(errs, "database.host is required")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.User == "" {
			errs = append(errs, "database.user is required")
		}
		if c.Database.DBName == "" {
			errs = append(errs, "database.dbname is required")
		}
	default:
		errs = append(errs, fmt.Sprintf("storage.driver must be memory, sqlite, valkey or postgres, got %q", c.Storage.Driver))
	}

	switch c.Location.Provider {
	case ProviderSynthetic:
	case ProviderNATS:
		if !c.NATS.Enabled || c.NATS.URL == "" {
			errs = append(errs, "location.provider nats requires nats.enabled and nats.url")
		}
		if c.Location.DeviceSubject == "" {
			errs = append(errs, "location.device_subject is required for the nats provider")
		}
	default:
		errs = append(errs, fmt.Sprintf("location.provider must be synthetic or nats, got %q", c.Location.Provider))
	}
	if c.Location.PreciseTimeout <= 0 || c.Location.RelaxedTimeout <= 0 {
		errs = append(errs, "location timeouts must be positive")
	}
	if c.Location.RelaxedMaxAge < 0 {
		errs = append(errs, "location.relaxed_max_age must not be negative")
	}

	switch strings.ToLower(c.Capture.DefaultMode) {
	case "mandatory", "best_effort", "best-effort":
	default:
		errs = append(errs, fmt.Sprintf("capture.default_mode must be mandatory or best_effort, got %q", c.Capture.DefaultMode))
	}

	if c.Map.EmbedBase == "" {
		errs = append(errs, "map.embed_base is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

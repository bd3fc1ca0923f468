package config

import (
	"os"
	"strconv"
)

// DBConfig database settings. Driver is "postgres" (default) or "sqlite".
type DBConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	// Path is the SQLite database file, only used when Driver is "sqlite".
	Path string `yaml:"path"`
	// SlowQueryMS is the threshold above which queries are logged as slow.
	SlowQueryMS int `yaml:"slow_query_ms"`
	// BreakerFailures consecutive outages stop queries for
	// BreakerCooldownSec. Zero disables the breaker.
	BreakerFailures    int `yaml:"breaker_failures"`
	BreakerCooldownSec int `yaml:"breaker_cooldown_sec"`
}

// JWTConfig token verification settings
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port string `yaml:"port"`
	// LegacyErrorStatus answers every failure with 400, like the historical API.
	LegacyErrorStatus bool `yaml:"legacy_error_status"`
}

// MediaConfig uploaded media location
type MediaConfig struct {
	Dir string `yaml:"dir"`
}

// OTelConfig tracing exporter settings
type OTelConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
	// SampleRatio of root traces kept, in (0, 1]. Anything else keeps all.
	SampleRatio float64 `yaml:"sample_ratio"`
}

// OverrideDBFromEnv overrides database settings from the environment.
func OverrideDBFromEnv(cfg *DBConfig) {
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		cfg.Driver = driver
	}
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Name = name
	}
	if path := os.Getenv("DB_PATH"); path != "" {
		cfg.Path = path
	}
}

// OverrideJWTFromEnv overrides the JWT secret from the environment.
func OverrideJWTFromEnv(cfg *JWTConfig) {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Secret = secret
	}
}

// OverrideServerFromEnv overrides server settings from the environment.
func OverrideServerFromEnv(cfg *ServerConfig) {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Port = port
	}
	if legacy := os.Getenv("SERVER_LEGACY_ERROR_STATUS"); legacy != "" {
		if v, err := strconv.ParseBool(legacy); err == nil {
			cfg.LegacyErrorStatus = v
		}
	}
}

// OverrideMediaFromEnv overrides the media directory from the environment.
func OverrideMediaFromEnv(cfg *MediaConfig) {
	if dir := os.Getenv("MEDIA_DIR"); dir != "" {
		cfg.Dir = dir
	}
}

// OverrideOTelFromEnv overrides tracing settings from the environment.
func OverrideOTelFromEnv(cfg *OTelConfig) {
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		cfg.Endpoint = endpoint
		cfg.Enabled = true
	}
}

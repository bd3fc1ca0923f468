package config

import (
	"fmt"

	"gncitizen/pkg/config"
)

type Config struct {
	DB     config.DBConfig     `yaml:"db"`
	JWT    config.JWTConfig    `yaml:"jwt"`
	Server config.ServerConfig `yaml:"server"`
	Media  config.MediaConfig  `yaml:"media"`
	OTel   config.OTelConfig   `yaml:"otel"`
}

// Load reads <configDir>/base.yaml merged with <env>.yaml, then applies the
// environment overrides.
func Load(env, configDir string) (*Config, error) {
	cfg := Config{
		DB: config.DBConfig{
			Driver:             "postgres",
			Port:               5432,
			SlowQueryMS:        100,
			BreakerFailures:    5,
			BreakerCooldownSec: 30,
		},
		Server: config.ServerConfig{Port: ":5002"},
		Media:  config.MediaConfig{Dir: "media"},
	}
	if err := config.Decode(env, configDir, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	config.OverrideDBFromEnv(&cfg.DB)
	config.OverrideJWTFromEnv(&cfg.JWT)
	config.OverrideServerFromEnv(&cfg.Server)
	config.OverrideMediaFromEnv(&cfg.Media)
	config.OverrideOTelFromEnv(&cfg.OTel)

	return &cfg, nil
}

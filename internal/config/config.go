package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default config location, relative to the working
// directory.
const ConfigPath = "config.yaml"

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	BaseURL               string `yaml:"baseURL"`
	StateDir              string `yaml:"stateDir"`
	LogLevel              string `yaml:"logLevel"`
	RedisAddr             string `yaml:"redisAddr"`
	RedisPassword         string `yaml:"redisPassword"`
	SessionSecret         string `yaml:"sessionSecret"`
	RequestTimeoutSeconds int    `yaml:"requestTimeoutSeconds"`
}

// RequestTimeout converts the configured seconds; zero means the client
// default.
func (c FileConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Load reads config from path (defaults to config.yaml). A missing file is
// not an error; env overrides and defaults can carry the whole config.
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	case os.IsNotExist(err):
		// fall through to env overrides
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}
	// Override with environment variables
	if v := os.Getenv("CMSADMIN_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("CMSADMIN_STATE_DIR"); v != "" {
		cfg.StateDir = v
	}
	if v := os.Getenv("CMSADMIN_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CMSADMIN_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("CMSADMIN_REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("CMSADMIN_SESSION_SECRET"); v != "" {
		cfg.SessionSecret = v
	}
	if v := os.Getenv("CMSADMIN_REQUEST_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RequestTimeoutSeconds = n
		}
	}
	if cfg.StateDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.StateDir = filepath.Join(home, ".cmsadmin")
		}
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateConfig(cfg FileConfig) error {
	if cfg.BaseURL == "" {
		return errors.New("config: baseURL is required (set in config.yaml or CMSADMIN_BASE_URL)")
	}
	if cfg.StateDir == "" {
		return errors.New("config: stateDir is required (set in config.yaml or CMSADMIN_STATE_DIR)")
	}
	if cfg.RequestTimeoutSeconds < 0 {
		return errors.New("config: requestTimeoutSeconds must not be negative")
	}
	return nil
}

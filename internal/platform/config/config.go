package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "NEXUS"

// Config is the complete console configuration.
type Config struct {
	Backend Backend `yaml:"backend" envconfig:"BACKEND"`
	Session Session `yaml:"session" envconfig:"SESSION"`
	Console Console `yaml:"console" envconfig:"CONSOLE"`
	Logging Logging `yaml:"logging" envconfig:"LOGGING"`
}

// Backend configures the REST backend client.
type Backend struct {
	BaseURL          string        `yaml:"base_url" envconfig:"BASE_URL" default:"http://localhost:8080/api"`
	Timeout          time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"15s"`
	RPS              float64       `yaml:"rps" envconfig:"RPS" default:"20"`
	Burst            int           `yaml:"burst" envconfig:"BURST" default:"10"`
	BreakerThreshold int           `yaml:"breaker_threshold" envconfig:"BREAKER_THRESHOLD" default:"5"`
	BreakerCooldown  time.Duration `yaml:"breaker_cooldown" envconfig:"BREAKER_COOLDOWN" default:"10s"`
}

// Session configures where the token and profile slots are persisted.
type Session struct {
	Dir string `yaml:"dir" envconfig:"DIR" default:".nexuscomply"`
	// SealKey is an optional hex-encoded 32-byte key. When set, slot contents are sealed at rest.
	SealKey string `yaml:"seal_key" envconfig:"SEAL_KEY"`
}

// Console configures the local console HTTP server.
type Console struct {
	Addr            string        `yaml:"addr" envconfig:"ADDR" default:"127.0.0.1:3000"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"30s"`
	PageSize        int           `yaml:"page_size" envconfig:"PAGE_SIZE" default:"10"`
}

// Logging configures the slog handler.
type Logging struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"json"`
}

// Load reads the environment first and then overlays an optional YAML file
// named by NEXUS_CONFIG_FILE. Values set in the environment win over the file.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if path := os.Getenv(EnvPrefix + "_CONFIG_FILE"); path != "" {
		fileCfg, err := loadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = merge(*fileCfg, cfg, os.LookupEnv)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// merge lets file values replace env defaults for every key the environment did not set explicitly.
func merge(file, env Config, lookup func(string) (string, bool)) Config {
	set := func(key string) bool {
		_, ok := lookup(EnvPrefix + "_" + key)
		return ok
	}
	pickString := func(key string, dst *string, v string) {
		if v != "" && !set(key) {
			*dst = v
		}
	}
	pickDuration := func(key string, dst *time.Duration, v time.Duration) {
		if v != 0 && !set(key) {
			*dst = v
		}
	}
	pickInt := func(key string, dst *int, v int) {
		if v != 0 && !set(key) {
			*dst = v
		}
	}

	pickString("BACKEND_BASE_URL", &env.Backend.BaseURL, file.Backend.BaseURL)
	pickDuration("BACKEND_TIMEOUT", &env.Backend.Timeout, file.Backend.Timeout)
	if file.Backend.RPS != 0 && !set("BACKEND_RPS") {
		env.Backend.RPS = file.Backend.RPS
	}
	pickInt("BACKEND_BURST", &env.Backend.Burst, file.Backend.Burst)
	pickInt("BACKEND_BREAKER_THRESHOLD", &env.Backend.BreakerThreshold, file.Backend.BreakerThreshold)
	pickDuration("BACKEND_BREAKER_COOLDOWN", &env.Backend.BreakerCooldown, file.Backend.BreakerCooldown)

	pickString("SESSION_DIR", &env.Session.Dir, file.Session.Dir)
	pickString("SESSION_SEAL_KEY", &env.Session.SealKey, file.Session.SealKey)

	pickString("CONSOLE_ADDR", &env.Console.Addr, file.Console.Addr)
	pickDuration("CONSOLE_SHUTDOWN_TIMEOUT", &env.Console.ShutdownTimeout, file.Console.ShutdownTimeout)
	pickDuration("CONSOLE_REQUEST_TIMEOUT", &env.Console.RequestTimeout, file.Console.RequestTimeout)
	pickInt("CONSOLE_PAGE_SIZE", &env.Console.PageSize, file.Console.PageSize)

	pickString("LOGGING_LEVEL", &env.Logging.Level, file.Logging.Level)
	pickString("LOGGING_FORMAT", &env.Logging.Format, file.Logging.Format)
	return env
}

func (c *Config) validate() error {
	if !strings.HasPrefix(c.Backend.BaseURL, "http://") && !strings.HasPrefix(c.Backend.BaseURL, "https://") {
		return fmt.Errorf("backend base url must be http(s): %q", c.Backend.BaseURL)
	}
	c.Backend.BaseURL = strings.TrimRight(c.Backend.BaseURL, "/")
	if c.Backend.Timeout <= 0 {
		return errors.New("backend timeout must be positive")
	}
	if c.Console.PageSize <= 0 {
		return errors.New("console page size must be positive")
	}
	if _, err := c.Session.Key(); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unsupported log format %q", c.Logging.Format)
	}
	return nil
}

// Key decodes SealKey. A nil key means slots are stored unsealed.
func (s Session) Key() (*[32]byte, error) {
	if s.SealKey == "" {
		return nil, nil
	}
	raw, err := hex.DecodeString(s.SealKey)
	if err != nil || len(raw) != 32 {
		return nil, errors.New("session seal key must be 64 hex characters")
	}
	var key [32]byte
	copy(key[:], raw)
	return &key, nil
}

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config selects and configures a store backend. It is normally loaded
// from a small YAML file next to the application:
//
//	backend: redis
//	redis:
//	  url: redis://localhost:6379
//	  key_prefix: cot
type Config struct {
	// Backend is "memory" or "redis".
	Backend string `yaml:"backend" json:"backend"`

	// Redis holds the redis backend settings; ignored for memory.
	Redis RedisConfig `yaml:"redis" json:"redis"`
}

// RedisConfig mirrors RedisOptions in file form.
type RedisConfig struct {
	URL            string   `yaml:"url" json:"url"`
	KeyPrefix      string   `yaml:"key_prefix" json:"key_prefix"`
	ConnectTimeout Duration `yaml:"connect_timeout" json:"connect_timeout"`
	ReadTimeout    Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout   Duration `yaml:"write_timeout" json:"write_timeout"`
}

// Duration wraps time.Duration so config files can spell timeouts as
// "2s"-style strings in both YAML and JSON.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String renders the duration in time.Duration notation.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler, accepting either a quoted
// duration string or nanoseconds as a number.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(t)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", t, err)
		}
		*d = Duration(parsed)
		return nil
	case float64:
		*d = Duration(time.Duration(t))
		return nil
	default:
		return fmt.Errorf("invalid duration value %v", raw)
	}
}

// DefaultConfig returns a configuration for the in-memory backend.
func DefaultConfig() *Config {
	return &Config{Backend: "memory"}
}

// LoadConfig reads a store configuration file. The format is detected
// by extension (.json, .yaml, .yml) and the result validated.
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("store config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read store config: %w", err)
	}

	var cfg Config
	switch ext := filepath.Ext(path); ext {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON store config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML store config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported store config format: %s (supported: .json, .yaml, .yml)", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("store config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch c.Backend {
	case "", "memory":
	case "redis":
		if c.Redis.URL == "" {
			return fmt.Errorf("redis backend requires a url")
		}
	default:
		return fmt.Errorf("unknown backend %q (supported: memory, redis)", c.Backend)
	}
	return nil
}

// Open constructs the store the configuration describes. An empty
// backend defaults to memory.
func Open(cfg *Config) (Store, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case "", "memory":
		return NewMemory(), nil
	case "redis":
		return NewRedis(RedisOptions{
			URL:            cfg.Redis.URL,
			KeyPrefix:      cfg.Redis.KeyPrefix,
			ConnectTimeout: cfg.Redis.ConnectTimeout.Std(),
			ReadTimeout:    cfg.Redis.ReadTimeout.Std(),
			WriteTimeout:   cfg.Redis.WriteTimeout.Std(),
		})
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

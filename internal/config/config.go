package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store kinds accepted by Config.Store.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds all runtime configuration for a claimline process.
type Config struct {
	DSN         string
	LogFormat   string // "text" or "json"
	LogLevel    string
	Addr        string
	Store       string // "postgres" or "memory"
	ResetSchema bool   // drop and rebuild the schema on serve start
	RateLimit   RateLimit
	Kafka       Kafka
}

// RateLimit is fixed for the life of the process.
type RateLimit struct {
	MaxRequests int           `yaml:"max_requests"`
	Window      time.Duration `yaml:"window"`
}

// Kafka configures batch event publishing. No brokers disables it.
type Kafka struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		LogFormat: "text",
		LogLevel:  "info",
		Addr:      ":8000",
		Store:     StorePostgres,
		RateLimit: RateLimit{MaxRequests: 10, Window: 60 * time.Second},
		Kafka:     Kafka{Topic: "procedure_batches"},
	}
}

// yamlConfig is the on-disk YAML structure. Pointer fields distinguish
// "absent" from zero values so only keys present in the file override.
type yamlConfig struct {
	DSN         *string    `yaml:"dsn"`
	LogFormat   *string    `yaml:"log_format"`
	LogLevel    *string    `yaml:"log_level"`
	Addr        *string    `yaml:"addr"`
	Store       *string    `yaml:"store"`
	ResetSchema *bool      `yaml:"reset_schema"`
	RateLimit   *RateLimit `yaml:"rate_limit"`
	Kafka       *Kafka     `yaml:"kafka"`
}

// LoadFromFile reads a YAML config file and merges its values into Config.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if yc.DSN != nil {
		c.DSN = *yc.DSN
	}
	if yc.LogFormat != nil {
		c.LogFormat = *yc.LogFormat
	}
	if yc.LogLevel != nil {
		c.LogLevel = *yc.LogLevel
	}
	if yc.Addr != nil {
		c.Addr = *yc.Addr
	}
	if yc.Store != nil {
		c.Store = *yc.Store
	}
	if yc.ResetSchema != nil {
		c.ResetSchema = *yc.ResetSchema
	}
	if yc.RateLimit != nil {
		if yc.RateLimit.MaxRequests != 0 {
			c.RateLimit.MaxRequests = yc.RateLimit.MaxRequests
		}
		if yc.RateLimit.Window != 0 {
			c.RateLimit.Window = yc.RateLimit.Window
		}
	}
	if yc.Kafka != nil {
		if len(yc.Kafka.Brokers) > 0 {
			c.Kafka.Brokers = yc.Kafka.Brokers
		}
		if yc.Kafka.Topic != "" {
			c.Kafka.Topic = yc.Kafka.Topic
		}
	}
	return nil
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	switch c.Store {
	case StorePostgres:
		if c.DSN == "" {
			return fmt.Errorf("--dsn or DATABASE_URL is required")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if c.RateLimit.MaxRequests <= 0 {
		return fmt.Errorf("rate_limit.max_requests must be positive, got %d", c.RateLimit.MaxRequests)
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate_limit.window must be positive, got %s", c.RateLimit.Window)
	}
	return nil
}

// ValidateWithDSN checks Validate and additionally requires a DSN regardless
// of store kind, for commands that always talk to Postgres.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or DATABASE_URL is required")
	}
	return nil
}

// Package config provides configuration loading and validation for the CLI,
// the HTTP server and the worker.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g. MATCHER_SERVER_ADDR
const EnvPrefix = "MATCHER_"

const maxConfigFileSize = 1024 * 1024

// Queue backends
const (
	QueueMemory = "memory"
	QueueAMQP   = "amqp"
)

// Config is the complete runtime configuration. All fields are optional;
// missing values are filled by defaults.
type Config struct {
	DatabaseURL string `koanf:"database_url"` // PostgreSQL connection URL; empty selects the in-memory store
	Taxonomy    string `koanf:"taxonomy"`     // Path to a taxonomy JSON file replacing the built-in one

	Log     LogConfig     `koanf:"log"`
	Server  ServerConfig  `koanf:"server"`
	Queue   QueueConfig   `koanf:"queue"`
	Storage StorageConfig `koanf:"storage"`
}

// LogConfig selects the log level and encoder
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	MaxUploadBytes  int64         `koanf:"max_upload_bytes"`
}

// QueueConfig selects how runs reach workers
type QueueConfig struct {
	Backend  string `koanf:"backend"`
	Workers  int    `koanf:"workers"`
	Capacity int    `koanf:"capacity"`
	AMQPURL  string `koanf:"amqp_url"`
}

// StorageConfig selects the document bucket. Uploads are not stored when
// Bucket is empty.
type StorageConfig struct {
	Bucket      string `koanf:"bucket"`
	Region      string `koanf:"region"`
	Endpoint    string `koanf:"endpoint"`
	R2AccountID string `koanf:"r2_account_id"`
	AccessKey   string `koanf:"access_key"`
	SecretKey   string `koanf:"secret_key"`
}

// Enabled reports whether a bucket is configured
func (s StorageConfig) Enabled() bool {
	return s.Bucket != ""
}

// sections are the nested keys environment variables may address
var sections = map[string]bool{"log": true, "server": true, "queue": true, "storage": true}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Log: LogConfig{Level: "info", Format: "json"},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
			MaxUploadBytes:  10 << 20,
		},
		Queue: QueueConfig{Backend: QueueMemory, Workers: 4, Capacity: 64},
	}
}

// Load reads configuration with this precedence, highest first:
//  1. Environment variables (MATCHER_QUEUE_BACKEND -> queue.backend)
//  2. The YAML or JSON file at path, when path is not empty
//  3. Defaults
//
// DATABASE_URL is honored when MATCHER_DATABASE_URL and the file leave the
// database unset.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// envKey maps MATCHER_SERVER_SHUTDOWN_TIMEOUT to server.shutdown_timeout and
// MATCHER_DATABASE_URL to database_url
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(key, "_", 2)
	if len(parts) == 2 && sections[parts[0]] {
		return parts[0] + "." + parts[1]
	}
	return key
}

func readConfigFile(path string) ([]byte, error) {
	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return data, nil
}

// Validate checks that the configuration has valid values
func (c *Config) Validate() error {
	switch c.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("config error: 'log.format' must be json or console, got %q", c.Log.Format)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config error: unknown 'log.level' %q", c.Log.Level)
	}

	switch c.Queue.Backend {
	case "", QueueMemory:
	case QueueAMQP:
		if c.Queue.AMQPURL == "" {
			return fmt.Errorf("config error: 'queue.amqp_url' is required for the amqp backend")
		}
	default:
		return fmt.Errorf("config error: unknown 'queue.backend' %q", c.Queue.Backend)
	}
	if c.Queue.Workers < 0 {
		return fmt.Errorf("config error: 'queue.workers' must be non-negative")
	}
	if c.Queue.Capacity < 0 {
		return fmt.Errorf("config error: 'queue.capacity' must be non-negative")
	}

	if c.Server.MaxUploadBytes < 0 {
		return fmt.Errorf("config error: 'server.max_upload_bytes' must be non-negative")
	}
	if (c.Storage.AccessKey == "") != (c.Storage.SecretKey == "") {
		return fmt.Errorf("config error: 'storage.access_key' and 'storage.secret_key' must be set together")
	}
	if c.Storage.Endpoint != "" && c.Storage.R2AccountID != "" {
		return fmt.Errorf("config error: 'storage.endpoint' and 'storage.r2_account_id' are mutually exclusive")
	}

	if c.Taxonomy != "" {
		if _, err := os.Stat(c.Taxonomy); os.IsNotExist(err) {
			return fmt.Errorf("config error: taxonomy file not found: %s", c.Taxonomy)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. CLI flags use it to layer flag values over the loaded file.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&result.DatabaseURL, defaults.DatabaseURL)
	fill(&result.Taxonomy, defaults.Taxonomy)
	fill(&result.Log.Level, defaults.Log.Level)
	fill(&result.Log.Format, defaults.Log.Format)
	fill(&result.Server.Addr, defaults.Server.Addr)
	fill(&result.Queue.Backend, defaults.Queue.Backend)
	fill(&result.Queue.AMQPURL, defaults.Queue.AMQPURL)
	fill(&result.Storage.Bucket, defaults.Storage.Bucket)
	fill(&result.Storage.Region, defaults.Storage.Region)
	fill(&result.Storage.Endpoint, defaults.Storage.Endpoint)
	fill(&result.Storage.R2AccountID, defaults.Storage.R2AccountID)
	fill(&result.Storage.AccessKey, defaults.Storage.AccessKey)
	fill(&result.Storage.SecretKey, defaults.Storage.SecretKey)

	if result.Server.ShutdownTimeout == 0 {
		result.Server.ShutdownTimeout = defaults.Server.ShutdownTimeout
	}
	if result.Server.MaxUploadBytes == 0 {
		result.Server.MaxUploadBytes = defaults.Server.MaxUploadBytes
	}
	if result.Queue.Workers == 0 {
		result.Queue.Workers = defaults.Queue.Workers
	}
	if result.Queue.Capacity == 0 {
		result.Queue.Capacity = defaults.Queue.Capacity
	}

	return result
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Market struct {
		Symbols      []string      `yaml:"symbols"`
		IndexSymbol  string        `yaml:"index_symbol" default:"^NSEI"`
		LookbackDays int           `yaml:"lookback_days" default:"60"`
		BatchSize    int           `yaml:"batch_size" default:"10"`
		CacheTTL     time.Duration `yaml:"cache_ttl" default:"120s"`
		FetchTimeout time.Duration `yaml:"fetch_timeout" default:"15s"`
	} `yaml:"market"`
	Yahoo struct {
		BaseURL      string        `yaml:"base_url" default:"https://query1.finance.yahoo.com"`
		Suffix       string        `yaml:"suffix" default:".NS"`
		Timeout      time.Duration `yaml:"timeout" default:"10s"`
		RatePerSec   float64       `yaml:"rate_per_sec" default:"5"`
		Burst        float64       `yaml:"burst" default:"10"`
		HistoryCache time.Duration `yaml:"history_cache" default:"60s"`
	} `yaml:"yahoo"`
	Redis struct {
		Enabled  bool   `yaml:"enabled" default:"false"`
		Addr     string `yaml:"addr" default:"localhost:6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db" default:"0"`
	} `yaml:"redis"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled" default:"false"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic" default:"n50.snapshots"`
		RequiredAcks int           `yaml:"required_acks" default:"-1"`
		Compression  string        `yaml:"compression" default:"gzip"`
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	} `yaml:"kafka"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Market.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Market.CacheTTL = d
		}
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Enabled = true
		c.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Enabled = true
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535], got %d", c.Server.Port)
	}
	if c.Market.CacheTTL <= 0 {
		return fmt.Errorf("market.cache_ttl must be positive")
	}
	if c.Market.LookbackDays < 10 {
		return fmt.Errorf("market.lookback_days must be at least 10, got %d", c.Market.LookbackDays)
	}
	if c.Market.BatchSize <= 0 {
		return fmt.Errorf("market.batch_size must be positive")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	return nil
}

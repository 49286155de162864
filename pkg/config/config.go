package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Market struct {
		BaseURL         string        `yaml:"base_url"`
		VsCurrency      string        `yaml:"vs_currency"`
		LookbackDays    int           `yaml:"lookback_days"`
		RefreshInterval time.Duration `yaml:"refresh_interval"`
		Timeout         time.Duration `yaml:"timeout"`
	} `yaml:"market"`
	Classifier struct {
		ServiceURL string        `yaml:"service_url"`
		Timeout    time.Duration `yaml:"timeout"`
		CacheTTL   time.Duration `yaml:"cache_ttl"`
	} `yaml:"classifier"`
	Cache struct {
		MemorySize int `yaml:"memory_size"`
		Redis      struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic"`
		Compression  string        `yaml:"compression"`
		RequiredAcks int           `yaml:"required_acks"`
		MaxAttempts  int           `yaml:"max_attempts"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
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

	c.applyDefaults()
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

	if v := os.Getenv("MARKET_BASE_URL"); v != "" {
		c.Market.BaseURL = v
	}
	if v := os.Getenv("CLASSIFIER_URL"); v != "" {
		c.Classifier.ServiceURL = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
		c.Cache.Redis.Enabled = true
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Market.VsCurrency == "" {
		c.Market.VsCurrency = "usd"
	}
	if c.Market.LookbackDays == 0 {
		c.Market.LookbackDays = 7
	}
	if c.Market.RefreshInterval == 0 {
		c.Market.RefreshInterval = 60 * time.Second
	}
	if c.Market.Timeout == 0 {
		c.Market.Timeout = 15 * time.Second
	}
	if c.Classifier.Timeout == 0 {
		c.Classifier.Timeout = 30 * time.Second
	}
	if c.Classifier.CacheTTL == 0 {
		c.Classifier.CacheTTL = 10 * time.Minute
	}
	if c.Cache.MemorySize == 0 {
		c.Cache.MemorySize = 1000
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Market.BaseURL == "" {
		return fmt.Errorf("market.base_url is required")
	}
	if c.Classifier.ServiceURL == "" {
		return fmt.Errorf("classifier.service_url is required")
	}
	if c.Market.LookbackDays < 1 {
		return fmt.Errorf("market.lookback_days must be >= 1")
	}
	if c.Market.RefreshInterval <= 0 {
		return fmt.Errorf("market.refresh_interval must be positive")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	return nil
}

// Lookback returns the market lookback window as a duration.
func (c *Config) Lookback() time.Duration {
	return time.Duration(c.Market.LookbackDays) * 24 * time.Hour
}

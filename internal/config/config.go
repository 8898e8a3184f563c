package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the complete application configuration. Defaults are layered
// first, then an optional YAML file, then environment variables (prefix LME).
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Holidays HolidaysConfig `yaml:"holidays" envconfig:"HOLIDAYS"`
	Policy   PolicyConfig   `yaml:"policy" envconfig:"POLICY"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// HolidaysConfig says where holiday data comes from. The feed shape follows
// the gov.uk bank-holidays service: a JSON object keyed by division, each
// holding an events array of dated records.
type HolidaysConfig struct {
	FilePath     string        `yaml:"file_path" envconfig:"FILE_PATH"`
	FeedURL      string        `yaml:"feed_url" envconfig:"FEED_URL"`
	FeedDivision string        `yaml:"feed_division" envconfig:"FEED_DIVISION"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" envconfig:"FETCH_TIMEOUT"`
}

// PolicyConfig selects between the historical resolution behaviors and the
// active calendar system.
type PolicyConfig struct {
	HonorFixDate       bool   `yaml:"honor_fix_date" envconfig:"HONOR_FIX_DATE"`
	InstructionsForC2R bool   `yaml:"c2r_instructions" envconfig:"C2R_INSTRUCTIONS"`
	Calendar           string `yaml:"calendar" envconfig:"CALENDAR"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimitRPS:    100,
			RateLimitBurst:  50,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Holidays: HolidaysConfig{
			FilePath:     "holidays.json",
			FeedURL:      "https://www.gov.uk/bank-holidays.json",
			FeedDivision: "england-and-wales",
			FetchTimeout: 10 * time.Second,
		},
		Policy: PolicyConfig{
			InstructionsForC2R: true,
			Calendar:           "gregorian",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file named by
// LME_CONFIG_FILE (or config.yaml when present), then environment variables.
func Load() (*Config, error) {
	cfg := Default()

	configFile := os.Getenv("LME_CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}
	if _, err := os.Stat(configFile); err == nil {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process("LME", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}
	if c.Holidays.FetchTimeout <= 0 {
		return fmt.Errorf("holiday fetch timeout must be positive")
	}
	return nil
}

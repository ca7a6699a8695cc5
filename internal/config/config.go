package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultEndpoint = "https://bfhl-api-peach.vercel.app/bfhl"
	DefaultTimeout  = 30 * time.Second
)

type Config struct {
	API      APIConfig    `yaml:"api"`
	Output   OutputConfig `yaml:"output"`
	LogLevel string       `yaml:"log_level"`
	LogFile  string       `yaml:"log_file"`
}

type APIConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
	// Rate is the maximum number of submissions per second, 0 disables it.
	Rate float64 `yaml:"rate"`
}

type OutputConfig struct {
	Directory string   `yaml:"directory"`
	Format    []string `yaml:"format"` // json, csv, xlsx
}

var supportedFormats = map[string]bool{
	"json": true,
	"csv":  true,
	"xlsx": true,
}

func Default() *Config {
	return &Config{
		API: APIConfig{
			Endpoint: DefaultEndpoint,
			Timeout:  DefaultTimeout,
		},
		Output: OutputConfig{
			Directory: "reports",
		},
		LogLevel: "info",
	}
}

// Load builds the configuration from defaults, an optional YAML file, a
// .env file in the working directory and the environment, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("DATAPROC_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	// a missing .env is fine
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("DATAPROC_ENDPOINT"); v != "" {
		c.API.Endpoint = v
	}

	if v := os.Getenv("DATAPROC_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid DATAPROC_TIMEOUT %q: %w", v, err)
		}
		c.API.Timeout = d
	}

	if v := os.Getenv("DATAPROC_RATE"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid DATAPROC_RATE %q: %w", v, err)
		}
		c.API.Rate = r
	}

	c.LogLevel = getEnvOrDefault("DATAPROC_LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnvOrDefault("DATAPROC_LOG_FILE", c.LogFile)
	c.Output.Directory = getEnvOrDefault("DATAPROC_OUTPUT_DIR", c.Output.Directory)

	if v := os.Getenv("DATAPROC_OUTPUT_FORMAT"); v != "" {
		c.Output.Format = ParseFormats(v)
	}

	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks.
func ParseFormats(s string) []string {
	var formats []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}

func (c *Config) Validate() error {
	if c.API.Endpoint == "" {
		return fmt.Errorf("no endpoint configured (set DATAPROC_ENDPOINT or --endpoint)")
	}

	u, err := url.Parse(c.API.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", c.API.Endpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("endpoint %q must be an absolute http(s) URL", c.API.Endpoint)
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.API.Timeout)
	}

	if c.API.Rate < 0 {
		return fmt.Errorf("rate must not be negative, got %v", c.API.Rate)
	}

	for _, f := range c.Output.Format {
		if !supportedFormats[f] {
			return fmt.Errorf("unsupported output format %q (use json, csv or xlsx)", f)
		}
	}

	return nil
}

// SuspiciousEndpoint reports whether the endpoint looks like a front-end
// deployment or an unfilled placeholder rather than the processing API.
func (c *Config) SuspiciousEndpoint() bool {
	e := strings.ToLower(c.API.Endpoint)
	for _, marker := range []string{"bfhl-g8mowv9im", "frontend", "replace-this", "example.com"} {
		if strings.Contains(e, marker) {
			return true
		}
	}
	return false
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

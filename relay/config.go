package relay

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the relay server configuration.
type Config struct {
	// Address to listen on (e.g., ":3000")
	ListenAddr string

	// Upstream completion provider base URL (e.g., "https://api.openai.com")
	UpstreamURL string

	// APIKey is the provider credential. An empty key is not rejected at
	// startup; it surfaces as an upstream failure on the first /chat call.
	APIKey string

	// Fixed generation parameters sent with every completion request.
	// Callers cannot override these.
	Model       string
	MaxTokens   int
	Temperature float64

	// Rate limiting for /chat, counted per client IP within a fixed window
	RateMax    int
	RateWindow time.Duration

	// LogFile is an optional path for the rotated operational log
	LogFile string

	// Debug enables debug logging
	Debug bool
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		ListenAddr:  ":3000",
		UpstreamURL: "https://api.openai.com",
		Model:       "gpt-3.5-turbo",
		MaxTokens:   150,
		Temperature: 0.7,
		RateMax:     100,
		RateWindow:  15 * time.Minute,
	}
}

// LoadConfig resolves the configuration in order: defaults, then the TOML
// file at path (skipped when path is empty), then environment variables.
// Environment always wins.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, fmt.Errorf("load config file: %w", err)
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the resolved configuration is usable.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return errors.New("config: listen address must not be empty")
	}
	if c.UpstreamURL == "" {
		return errors.New("config: upstream URL must not be empty")
	}
	if c.Model == "" {
		return errors.New("config: model must not be empty")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("config: max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("config: temperature must be in [0, 2], got %g", c.Temperature)
	}
	if c.RateMax <= 0 {
		return fmt.Errorf("config: rate limit max must be positive, got %d", c.RateMax)
	}
	if c.RateWindow <= 0 {
		return fmt.Errorf("config: rate limit window must be positive, got %s", c.RateWindow)
	}
	return nil
}

// fileConfig mirrors Config for TOML decoding. Pointer fields distinguish
// "absent" from zero values so the file only overrides what it sets.
type fileConfig struct {
	Listen      *string   `toml:"listen"`
	Upstream    *string   `toml:"upstream"`
	Model       *string   `toml:"model"`
	MaxTokens   *int      `toml:"max_tokens"`
	Temperature *float64  `toml:"temperature"`
	RateMax     *int      `toml:"rate_max"`
	RateWindow  *duration `toml:"rate_window"`
	LogFile     *string   `toml:"log_file"`
	Debug       *bool     `toml:"debug"`
}

// duration decodes TOML strings like "15m" via time.ParseDuration.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (c *Config) applyFile(path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return err
	}

	if fc.Listen != nil {
		c.ListenAddr = *fc.Listen
	}
	if fc.Upstream != nil {
		c.UpstreamURL = *fc.Upstream
	}
	if fc.Model != nil {
		c.Model = *fc.Model
	}
	if fc.MaxTokens != nil {
		c.MaxTokens = *fc.MaxTokens
	}
	if fc.Temperature != nil {
		c.Temperature = *fc.Temperature
	}
	if fc.RateMax != nil {
		c.RateMax = *fc.RateMax
	}
	if fc.RateWindow != nil {
		c.RateWindow = fc.RateWindow.Duration
	}
	if fc.LogFile != nil {
		c.LogFile = *fc.LogFile
	}
	if fc.Debug != nil {
		c.Debug = *fc.Debug
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ListenAddr = envOr("MEDI8_ADDR", c.ListenAddr)
	c.UpstreamURL = envOr("MEDI8_UPSTREAM", c.UpstreamURL)
	c.APIKey = envOr("OPENAI_API_KEY", c.APIKey)
	c.Model = envOr("MEDI8_MODEL", c.Model)
	c.MaxTokens = envOrInt("MEDI8_MAX_TOKENS", c.MaxTokens)
	c.Temperature = envOrFloat("MEDI8_TEMPERATURE", c.Temperature)
	c.RateMax = envOrInt("MEDI8_RATE_MAX", c.RateMax)
	c.RateWindow = envOrDuration("MEDI8_RATE_WINDOW", c.RateWindow)
	c.LogFile = envOr("MEDI8_LOG_FILE", c.LogFile)
	c.Debug = envOrBool("MEDI8_DEBUG", c.Debug)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envOrFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envOrBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envOrDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

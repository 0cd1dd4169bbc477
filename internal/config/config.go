package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Dataset  DatasetConfig
	Logger   LoggerConfig
	Security SecurityConfig
	AI       AIConfig
}

type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" envDefault:"localhost"`
	Port            int           `env:"SERVER_PORT" envDefault:"3000"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// DatasetConfig points at the directory holding orders.json, traffic.json,
// social.json and the optional catalog files.
type DatasetConfig struct {
	Dir         string        `env:"DATASET_DIR" envDefault:"data"`
	LoadTimeout time.Duration `env:"DATASET_LOAD_TIMEOUT" envDefault:"30s"`
}

type LoggerConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type SecurityConfig struct {
	EnableRateLimit bool     `env:"SECURITY_RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRPS    int      `env:"SECURITY_RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst  int      `env:"SECURITY_RATE_LIMIT_BURST" envDefault:"20"`
	AllowedOrigins  []string `env:"SECURITY_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	TrustedProxies  []string `env:"SECURITY_TRUSTED_PROXIES" envSeparator:"," envDefault:"127.0.0.1"`
}

// AIConfig configures the optional language model. An empty APIKey is a
// normal condition and selects the deterministic fallback paths.
type AIConfig struct {
	APIKey            string        `env:"OPENAI_API_KEY"`
	Model             string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	BaseURL           string        `env:"OPENAI_BASE_URL"`
	SummarizerTimeout time.Duration `env:"SUMMARIZER_TIMEOUT" envDefault:"8s"`
	RecommendCategory string        `env:"RECOMMEND_CATEGORY" envDefault:"Engine Oil"`
}

// Enabled reports whether a credential for the language model is configured.
func (c AIConfig) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	// A missing .env is the common case outside local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if strings.TrimSpace(c.Dataset.Dir) == "" {
		return fmt.Errorf("dataset directory cannot be empty")
	}

	if c.Dataset.LoadTimeout <= 0 {
		return fmt.Errorf("dataset load timeout must be positive")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, c.Logger.Level) {
		return fmt.Errorf("invalid log level %q, must be one of: %s", c.Logger.Level, strings.Join(validLogLevels, ", "))
	}

	validLogFormats := []string{"json", "text"}
	if !slices.Contains(validLogFormats, c.Logger.Format) {
		return fmt.Errorf("invalid log format %q, must be one of: %s", c.Logger.Format, strings.Join(validLogFormats, ", "))
	}

	if c.Security.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit RPS must be positive")
	}

	if c.Security.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}

	// The summarizer wait must stay below the write timeout or the
	// fallback would never reach the client.
	if c.AI.SummarizerTimeout <= 0 || c.AI.SummarizerTimeout >= c.Server.WriteTimeout {
		return fmt.Errorf("summarizer timeout must be positive and below the write timeout (%s), got %s",
			c.Server.WriteTimeout, c.AI.SummarizerTimeout)
	}

	return nil
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

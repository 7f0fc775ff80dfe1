package checker

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is a configuration for the checker application
type Config struct {
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:"localhost:9090"`
	ISO8583Addr string `env:"ISO8583_ADDR" envDefault:"localhost:8583"`
	// RepoBackend selects the repository: "mem" or "pg".
	RepoBackend string `env:"REPO_BACKEND" envDefault:"mem"`
	// DBDSN is required when RepoBackend is "pg".
	DBDSN string `env:"DB_DSN"`
	// PANHashKey is the HMAC pepper used to store and look up card numbers.
	PANHashKey string `env:"PAN_HASH_KEY" envDefault:"dev-secret-pepper"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	// LogFormat is "json" or "text".
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

func DefaultConfig() *Config {
	return &Config{
		HTTPAddr:    "localhost:9090",
		ISO8583Addr: "localhost:8583",
		RepoBackend: "mem",
		PANHashKey:  "dev-secret-pepper",
		LogLevel:    "info",
		LogFormat:   "json",
	}
}

// LoadConfig reads the configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}

	switch cfg.RepoBackend {
	case "mem":
	case "pg":
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required for pg backend")
		}
	default:
		return nil, fmt.Errorf("unsupported REPO_BACKEND=%s", cfg.RepoBackend)
	}

	return cfg, nil
}

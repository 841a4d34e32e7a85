package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL  string        `env:"API_BASE_URL" envDefault:"https://buxdu.uz/api"`
	Locale      string        `env:"CONTENT_LOCALE" envDefault:"uz"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`
	ServerPort  string        `env:"SERVER_PORT" envDefault:"8080"`

	LoadAllMaxPages int `env:"LOAD_ALL_MAX_PAGES" envDefault:"100"`
	LoadAllMaxItems int `env:"LOAD_ALL_MAX_ITEMS" envDefault:"10000"`

	BreakerMaxFailures uint32        `env:"BREAKER_MAX_FAILURES" envDefault:"3"`
	BreakerOpenTimeout time.Duration `env:"BREAKER_OPEN_TIMEOUT" envDefault:"30s"`
	APIRateLimit       float64       `env:"API_RATE_LIMIT" envDefault:"0"`
	APIRateBurst       int           `env:"API_RATE_BURST" envDefault:"5"`

	FallbackFile string `env:"FALLBACK_FILE"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"content_degradation"`
	KafkaGroupID string   `env:"KAFKA_GROUP_ID" envDefault:"degradation-monitor"`

	OTelEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load reads configuration once from the environment, after merging a .env file if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "https://buxdu.uz/api"
	}
	if cfg.Locale == "" {
		cfg.Locale = "uz"
	}
	return cfg, nil
}

// KafkaEnabled reports whether degradation events go to Kafka.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0 && c.KafkaBrokers[0] != ""
}

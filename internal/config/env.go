// Package config loads shopcart settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"

	"github.com/hupe1980/shopcart/logging"
)

// Slot backends.
const (
	SlotMemory = "memory"
	SlotFile   = "file"
	SlotSQLite = "sqlite"
)

// Config holds every tunable of the CLI wiring.
type Config struct {
	CatalogURL     string        `env:"SHOPCART_CATALOG_URL" envDefault:"http://localhost:3333"`
	CatalogTimeout time.Duration `env:"SHOPCART_CATALOG_TIMEOUT" envDefault:"5s"`

	SlotBackend string `env:"SHOPCART_SLOT_BACKEND" envDefault:"file"`
	SlotPath    string `env:"SHOPCART_SLOT_PATH" envDefault:"shopcart.json"`
	SlotKey     string `env:"SHOPCART_SLOT_KEY" envDefault:"@RocketShoes:cart"`

	AMQPURI   string `env:"SHOPCART_AMQP_URI"`
	AMQPQueue string `env:"SHOPCART_AMQP_QUEUE" envDefault:"cart-events"`

	Locale    string `env:"SHOPCART_LOCALE" envDefault:"pt-BR"`
	LogLevel  string `env:"SHOPCART_LOG_LEVEL" envDefault:"warn"`
	LogFormat string `env:"SHOPCART_LOG_FORMAT" envDefault:"text"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates a Config.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate normalizes and checks the configuration.
func (c *Config) Validate() error {
	c.SlotBackend = strings.ToLower(strings.TrimSpace(c.SlotBackend))
	switch c.SlotBackend {
	case SlotMemory:
	case SlotFile, SlotSQLite:
		if strings.TrimSpace(c.SlotPath) == "" {
			return fmt.Errorf("SHOPCART_SLOT_PATH is required for the %s backend", c.SlotBackend)
		}
	default:
		return fmt.Errorf("unknown slot backend %q", c.SlotBackend)
	}
	if strings.TrimSpace(c.CatalogURL) == "" {
		return fmt.Errorf("SHOPCART_CATALOG_URL is required")
	}
	if c.CatalogTimeout < 0 {
		return fmt.Errorf("SHOPCART_CATALOG_TIMEOUT must not be negative")
	}
	if _, err := c.Language(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("SHOPCART_LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// Language returns the parsed locale tag.
func (c Config) Language() (language.Tag, error) {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("parse locale %q: %w", c.Locale, err)
	}
	return tag, nil
}

// Logger builds the CartLogger described by the configuration.
func (c Config) Logger() *logging.CartLogger {
	level, _ := logging.ParseLevel(c.LogLevel)
	return logging.NewSlogLogger(level, c.LogFormat, false)
}

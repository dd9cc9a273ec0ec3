package config

import (
	"fmt"

	pkgconfig "github.com/bitss-one/storefront-monorepo/pkg/config"
	"github.com/bitss-one/storefront-monorepo/pkg/logger"
)

const serviceName = "storefront"

type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Session  SessionConfig  `yaml:"session"`
	Backend  BackendConfig  `yaml:"backend"`
	Rates    RatesConfig    `yaml:"rates"`
	Stripe   StripeConfig   `yaml:"stripe"`
	Mail     MailConfig     `yaml:"mail"`
	Mailbox  MailboxConfig  `yaml:"mailbox"`
	Contact  ContactConfig  `yaml:"contact"`
	Bank     BankConfig     `yaml:"bank"`
	Log      logger.Config  `yaml:"log"`
}

// LoadConfig reads configs/{APP_ENV}/storefront.yaml (or CONFIG_PATH) with
// STOREFRONT_* environment overrides and fills in defaults.
func LoadConfig() (*Config, error) {
	raw, err := pkgconfig.Load(serviceName)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var cfg Config
	if err := raw.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("session.secret is required")
	}
	switch c.Session.Store {
	case SessionStoreRedis, SessionStoreMemory:
	default:
		return fmt.Errorf("session.store must be %q or %q, got %q", SessionStoreRedis, SessionStoreMemory, c.Session.Store)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Service.Name == "" {
		c.Service.Name = serviceName
	}
	c.Server.applyDefaults()
	c.Database.applyDefaults()
	c.Session.applyDefaults()
	c.Backend.applyDefaults()
	c.Rates.applyDefaults()
	c.Contact.applyDefaults()
	c.Bank.applyDefaults()
}

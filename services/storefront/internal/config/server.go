package config

import "time"

type ServerConfig struct {
	HTTP HTTPConfig `yaml:"http"`
	GRPC GRPCConfig `yaml:"grpc"`
}

type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// RateLimit is requests per second per client IP. Zero disables limiting.
	RateLimit float64 `yaml:"rate_limit"`
}

type GRPCConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

func (c *ServerConfig) applyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.GRPC.Port == 0 {
		c.GRPC.Port = 9090
	}
}

const (
	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
)

type SessionConfig struct {
	// Store selects the cart/auth storage backend: "redis" or "memory".
	Store  string `yaml:"store"`
	Secret string `yaml:"secret"`
	// CartTTL is the lifetime of the session-scoped cart.
	CartTTL time.Duration `yaml:"cart_ttl"`
	// AuthTTL is the lifetime of the persisted login.
	AuthTTL      time.Duration `yaml:"auth_ttl"`
	CookieSecure bool          `yaml:"cookie_secure"`
}

func (c *SessionConfig) applyDefaults() {
	if c.Store == "" {
		c.Store = SessionStoreMemory
	}
	if c.CartTTL == 0 {
		c.CartTTL = 24 * time.Hour
	}
	if c.AuthTTL == 0 {
		c.AuthTTL = 30 * 24 * time.Hour
	}
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// EventsChannel receives order.confirmed events. Empty disables publishing.
	EventsChannel string `yaml:"events_channel"`
}

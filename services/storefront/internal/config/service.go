package config

import "time"

type ServiceConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
	// ClientURL is the storefront web origin, used for CORS and payment return links.
	ClientURL string `yaml:"client_url"`
}

type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	// OrderTimeout bounds order submission. Submissions are never retried.
	OrderTimeout time.Duration `yaml:"order_timeout"`
	Breaker      BreakerConfig `yaml:"breaker"`
}

type BreakerConfig struct {
	MaxRequests         uint32        `yaml:"max_requests"`
	Interval            time.Duration `yaml:"interval"`
	Timeout             time.Duration `yaml:"timeout"`
	ConsecutiveFailures uint32        `yaml:"consecutive_failures"`
}

func (c *BackendConfig) applyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
	if c.OrderTimeout == 0 {
		c.OrderTimeout = 20 * time.Second
	}
	if c.Breaker.MaxRequests == 0 {
		c.Breaker.MaxRequests = 1
	}
	if c.Breaker.Interval == 0 {
		c.Breaker.Interval = time.Minute
	}
	if c.Breaker.Timeout == 0 {
		c.Breaker.Timeout = 30 * time.Second
	}
	if c.Breaker.ConsecutiveFailures == 0 {
		c.Breaker.ConsecutiveFailures = 5
	}
}

type RatesConfig struct {
	URL      string        `yaml:"url"`
	Timeout  time.Duration `yaml:"timeout"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

func (c *RatesConfig) applyDefaults() {
	if c.URL == "" {
		c.URL = "https://api.exchangerate-api.com/v4/latest/EUR"
	}
	if c.Timeout == 0 {
		c.Timeout = 5 * time.Second
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 30 * time.Minute
	}
}

type StripeConfig struct {
	SecretKey string `yaml:"secret_key"`
}

type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// MailboxConfig points at the mail provider API used to check whether a
// storefront mailbox name is still free during registration.
type MailboxConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
	Domain string `yaml:"domain"`
}

type ContactConfig struct {
	SupportAddress string   `yaml:"support_address"`
	ForbiddenWords []string `yaml:"forbidden_words"`
}

func (c *ContactConfig) applyDefaults() {
	if c.SupportAddress == "" {
		c.SupportAddress = "support@bitss.one"
	}
}

// BankConfig holds the transfer details shown for bank payments and
// unpaid renewal invoices.
type BankConfig struct {
	BankName string `yaml:"bank_name"`
	IBAN     string `yaml:"iban"`
	BIC      string `yaml:"bic"`
}

func (c *BankConfig) applyDefaults() {
	if c.BankName == "" {
		c.BankName = "LCL Bank France"
	}
	if c.IBAN == "" {
		c.IBAN = "FR62 3000 2030 3700 0007 3125 M63"
	}
	if c.BIC == "" {
		c.BIC = "CRLYFRPP"
	}
}

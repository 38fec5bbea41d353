package publisher

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smnsjas/go-pomade/atom"
)

// Defaults for optional settings.
const (
	DefaultHost       = "timessquare2.com"
	DefaultPathname   = "/p/p.svc/Assets/"
	DefaultPort       = 80
	DefaultTimeFormat = "%Y-%m-%dT%H:%M:%SZ"
	DefaultTimeout    = 60 * time.Second
)

// Config holds configuration for a Publisher.
type Config struct {
	// Subdomain selects the service instance: requests go to Subdomain.Host.
	Subdomain string `json:"subdomain"`

	// Username for NTLM authentication. Empty together with Password means
	// requests are sent unauthenticated.
	Username string `json:"username"`

	// Password for NTLM authentication.
	Password string `json:"password"`

	// ClientID prefixes every record ID and is sent in the Client property.
	ClientID string `json:"clientId"`

	// Host is the domain the instance lives on (default: timessquare2.com).
	Host string `json:"host"`

	// Pathname is the asset collection path (default: /p/p.svc/Assets/).
	Pathname string `json:"pathname"`

	// Port is the HTTP port (default: 80).
	Port int `json:"port"`

	// TimeFormat is the strftime layout of the entry timestamp.
	TimeFormat string `json:"timeFormat"`

	// LoginDomain is the optional NTLM login domain.
	LoginDomain string `json:"loginDomain"`

	// SkipAuthentication skips the credential probe New runs against the feed.
	SkipAuthentication bool `json:"skipAuthentication"`

	// Debug logs request progress to stderr when no logger is supplied.
	Debug bool `json:"debug"`

	// Timeout bounds each HTTP request. Zero means DefaultTimeout.
	Timeout time.Duration `json:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:       DefaultHost,
		Pathname:   DefaultPathname,
		Port:       DefaultPort,
		TimeFormat: DefaultTimeFormat,
		Timeout:    DefaultTimeout,
	}
}

// withDefaults fills unset optional fields.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Host == "" {
		c.Host = d.Host
	}
	if c.Pathname == "" {
		c.Pathname = d.Pathname
	}
	if c.Port == 0 {
		c.Port = d.Port
	}
	if c.TimeFormat == "" {
		c.TimeFormat = d.TimeFormat
	}
	if c.Timeout == 0 {
		c.Timeout = d.Timeout
	}
	return c
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Subdomain == "" {
		return errors.New("subdomain is required")
	}
	if c.ClientID == "" {
		return errors.New("client ID is required")
	}
	if (c.Username == "") != (c.Password == "") {
		return errors.New("username and password must be given together")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Pathname != "" && !strings.HasPrefix(c.Pathname, "/") {
		return fmt.Errorf("pathname %q must start with /", c.Pathname)
	}
	return nil
}

// Endpoint returns the asset collection URL.
func (c *Config) Endpoint() string {
	cfg := c.withDefaults()
	if cfg.Port == DefaultPort {
		return fmt.Sprintf("http://%s.%s%s", cfg.Subdomain, cfg.Host, cfg.Pathname)
	}
	return fmt.Sprintf("http://%s.%s:%d%s", cfg.Subdomain, cfg.Host, cfg.Port, cfg.Pathname)
}

// base returns the xml:base for entries.
func (c *Config) base() string {
	return atom.ServiceBase(c.withDefaults().Pathname)
}

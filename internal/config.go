package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/blinko-mcp/internal/blinko"
)

// Transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Blinko BlinkoConfig      `yaml:"blinko"`
	Auth   AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Blinko.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	Transport string     `yaml:"transport"`
	HTTP      HTTPConfig `yaml:"http"`
	// Timezone is the IANA zone used to render note timestamps. Empty means
	// the local zone.
	Timezone string `yaml:"timezone"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Transport, validation.Required, validation.In(TransportStdio, TransportHTTP)),
		validation.Field(&c.Timezone, validation.By(func(any) error {
			_, err := c.Location()
			return err
		})),
	); err != nil {
		return err
	}
	if c.Transport == TransportHTTP {
		return c.HTTP.Validate()
	}
	return nil
}

// Location resolves Timezone.
func (c *ApplicationConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q", c.Timezone)
	}
	return loc, nil
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// BlinkoConfig identifies the Blinko instance and its API key.
type BlinkoConfig struct {
	// Domain is a bare host (https is assumed) or a full http(s) URL.
	Domain string `yaml:"domain"`
	APIKey string `yaml:"api_key"`
}

// Validate validates the Blinko configuration.
func (c *BlinkoConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Domain, validation.Required.Error("is required (--blinko_domain or BLINKO_DOMAIN)")),
		validation.Field(&c.APIKey, validation.Required.Error("is required (--blinko_api_key or BLINKO_API_KEY)")),
	)
}

// Credentials returns the client credentials.
func (c *BlinkoConfig) Credentials() blinko.Credentials {
	return blinko.Credentials{Domain: c.Domain, APIKey: c.APIKey}
}

// AuthConfig guards the HTTP transport.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local use.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// Overrides are values given on the command line or through the environment.
// Zero values leave the config untouched.
type Overrides struct {
	BlinkoDomain string
	BlinkoAPIKey string
	Transport    string
	HTTPPort     int
}

// Apply writes the non-zero overrides into cfg.
func (o Overrides) Apply(cfg *Config) {
	if o.BlinkoDomain != "" {
		cfg.Blinko.Domain = o.BlinkoDomain
	}
	if o.BlinkoAPIKey != "" {
		cfg.Blinko.APIKey = o.BlinkoAPIKey
	}
	if o.Transport != "" {
		cfg.App.Transport = o.Transport
	}
	if o.HTTPPort != 0 {
		cfg.App.HTTP.Port = o.HTTPPort
	}
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelInfo,
			Transport: TransportStdio,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}

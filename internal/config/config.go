package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"issuerpick/internal/domain"
	"issuerpick/internal/eventbus"
	"issuerpick/internal/form"
	"issuerpick/internal/page"
)

// EnvPrefix prefixes environment variables overriding config keys,
// e.g. ISSUERPICK_LOGIN_ACTION
const EnvPrefix = "ISSUERPICK"

var (
	// ErrNotFound is returned when the config file does not exist
	ErrNotFound = errors.New("config file not found")
	// ErrInvalid is returned when the config fails validation
	ErrInvalid = errors.New("invalid config")
)

// Config represents the application configuration
type Config struct {
	Version int                  `toml:"version" mapstructure:"version"`
	Login   domain.LoginSettings `toml:"login" mapstructure:"login"`
	Issuers []domain.Issuer      `toml:"issuers" mapstructure:"issuers"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Path() string
	Load() (*Config, error)
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// DefaultPath returns the config file used when none is given
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "issuerpick", "config.toml")
}

// NewConfigService creates a config service for path, DefaultPath when empty
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from the service's file
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{
			Path:    cs.filePath,
			Login:   cfg.Login,
			Issuers: cfg.Issuers,
		})
	}
	return cfg, nil
}

// LoadFromPath reads, applies environment overrides to, and validates the
// configuration at path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// newViper returns a viper instance with defaults and environment overrides
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every overridable key needs a default so Unmarshal sees its env value
	v.SetDefault("version", 1)
	v.SetDefault("login.title", page.DefaultTitle)
	v.SetDefault("login.action", "")
	v.SetDefault("login.method", "GET")
	v.SetDefault("login.issuer_param", page.DefaultIssuerParam)
	v.SetDefault("login.next", "")
	return v
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the login settings and the issuer list
func Validate(cfg *Config) error {
	action, err := url.Parse(cfg.Login.Action)
	if err != nil || !action.IsAbs() || action.Host == "" {
		return fmt.Errorf("%w: login.action must be an absolute URL, got %q", ErrInvalid, cfg.Login.Action)
	}
	method, err := form.Method(cfg.Login.Method)
	if err != nil {
		return fmt.Errorf("%w: login.method: %v", ErrInvalid, err)
	}
	cfg.Login.Method = method
	if !page.ValidIssuerParam(cfg.Login.IssuerParam) {
		return fmt.Errorf("%w: login.issuer_param must be one of %s, got %q",
			ErrInvalid, strings.Join(page.IssuerParams, ", "), cfg.Login.IssuerParam)
	}

	seen := make(map[string]bool, len(cfg.Issuers))
	for i, iss := range cfg.Issuers {
		if strings.TrimSpace(iss.ID) == "" {
			return fmt.Errorf("%w: issuers[%d] has no id", ErrInvalid, i)
		}
		if seen[iss.ID] {
			return fmt.Errorf("%w: duplicate issuer id %q", ErrInvalid, iss.ID)
		}
		seen[iss.ID] = true
	}
	return nil
}

// FindIssuer returns the configured issuer with the given id
func (c *Config) FindIssuer(id string) (domain.Issuer, bool) {
	for _, iss := range c.Issuers {
		if iss.ID == id {
			return iss, true
		}
	}
	return domain.Issuer{}, false
}

// DefaultConfig returns the configuration written by "config init"
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Login: domain.LoginSettings{
			Title:       page.DefaultTitle,
			Action:      "https://auth.example.org/login",
			Method:      "GET",
			IssuerParam: page.DefaultIssuerParam,
		},
		Issuers: []domain.Issuer{
			{ID: "https://accounts.google.com", DisplayName: "Google", Tags: []string{"oauth", "oidc"}},
			{ID: "https://login.microsoftonline.com/common/v2.0", DisplayName: "Microsoft", Tags: []string{"azure", "entra", "oidc"}},
			{ID: "https://example.okta.com", DisplayName: "Okta", Tags: []string{"saml"}},
		},
	}
}

package config

import (
	"fmt"
	"time"

	"github.com/neckcare/neckscan/internal/analysis"
	"github.com/neckcare/neckscan/internal/session"
	"github.com/neckcare/neckscan/internal/urls"
)

// CurrentVersion is the config file schema version
const CurrentVersion = 1

// Config represents the entire user configuration file.
// The Gemini API key is never stored here; see GeminiConfig.APIKey.
type Config struct {
	Version int           `yaml:"version"`
	Gemini  GeminiConfig  `yaml:"gemini"`
	Loading LoadingConfig `yaml:"loading"`
	Links   LinksConfig   `yaml:"links"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// GeminiConfig selects the model and endpoint used for analysis
type GeminiConfig struct {
	Model          string        `yaml:"model"`
	BaseURL        string        `yaml:"base_url,omitempty"`    // Empty uses the SDK default endpoint
	APIKeyEnv      string        `yaml:"api_key_env,omitempty"` // Extra env var checked before the defaults
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// LoadingConfig controls the rotating loading messages
type LoadingConfig struct {
	Interval time.Duration `yaml:"interval"`
	Messages []string      `yaml:"messages,omitempty"`
}

// LinksConfig holds the outbound URLs shown with a result
type LinksConfig struct {
	ProductURL string `yaml:"product_url"`
	ShareURL   string `yaml:"share_url"`
}

// ServerConfig is used by `neckscan serve`
type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Advertise bool   `yaml:"advertise"` // Register the server via mDNS
}

// LoggingConfig mirrors the --log-level and --log-file flags
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"`
	File  string `yaml:"file,omitempty"`
}

// Default values
const (
	DefaultRequestTimeout = 60 * time.Second
	DefaultHost           = "0.0.0.0"
	DefaultPort           = 8080
)

// NewConfig creates a Config with default values
func NewConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills every zero-valued field that has a default
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = CurrentVersion
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = analysis.DefaultModel
	}
	if c.Gemini.RequestTimeout == 0 {
		c.Gemini.RequestTimeout = DefaultRequestTimeout
	}
	if c.Loading.Interval == 0 {
		c.Loading.Interval = session.DefaultLoadingInterval
	}
	if len(c.Loading.Messages) == 0 {
		c.Loading.Messages = append([]string(nil), session.DefaultLoadingMessages...)
	}
	if c.Links.ProductURL == "" {
		c.Links.ProductURL = urls.ProductPage
	}
	if c.Links.ShareURL == "" {
		c.Links.ShareURL = urls.SharePage
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
}

// Validate checks values that defaults cannot repair
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", c.Version, CurrentVersion)
	}
	if c.Gemini.RequestTimeout < 0 {
		return fmt.Errorf("gemini.request_timeout must not be negative")
	}
	if c.Loading.Interval < 0 {
		return fmt.Errorf("loading.interval must not be negative")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range (1-65535)", c.Server.Port)
	}
	return nil
}

// ListenAddr returns host:port for the HTTP server
func (s ServerConfig) ListenAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Package config resolves the todocheck configuration directory and settings.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "todocheck"

	// ConfigFile is the optional settings file inside the config directory.
	ConfigFile = "config.yaml"

	// OAuthClientFile is the OAuth client credentials filename (googletasks backend).
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename (googletasks backend).
	TokenFile = "token.json"

	// DefaultEndpoint is the public todo service the suite targets.
	DefaultEndpoint = "http://todo.pixegami.io"

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 10 * time.Second

	// DefaultListCount is how many tasks the list scenario creates.
	DefaultListCount = 3

	// DefaultServeAddr is where `todocheck serve` listens.
	DefaultServeAddr = ":8080"
)

// Backend names.
const (
	BackendTodoAPI     = "todoapi"
	BackendGoogleTasks = "googletasks"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `yaml:"-"`

	Endpoint  string        `yaml:"endpoint"`
	Backend   string        `yaml:"backend"`
	Timeout   time.Duration `yaml:"timeout"`
	Token     string        `yaml:"token"`
	ListCount int           `yaml:"list_count"`
	SchemaDir string        `yaml:"schema_dir"`
	ServeAddr string        `yaml:"serve_addr"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	FluentBit FluentBitConfig `yaml:"fluentbit"`

	// Debug enables debug logging.
	Debug bool `yaml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `yaml:"-"`

	// Log is the process logger, set by the CLI once flags are parsed.
	Log *slog.Logger `yaml:"-"`
}

// FluentBitConfig configures result shipping to Fluent Bit.
type FluentBitConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// New creates a Config with defaults and the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todocheck or $HOME/.config/todocheck.
func New(configDir string) *Config {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:       dir,
		Endpoint:  DefaultEndpoint,
		Backend:   BackendTodoAPI,
		Timeout:   DefaultTimeout,
		ListCount: DefaultListCount,
		ServeAddr: DefaultServeAddr,
		LogLevel:  "info",
		LogFormat: "text",
		FluentBit: FluentBitConfig{Port: 24224},
	}
}

// Load builds a Config from defaults, config.yaml in the config directory,
// a .env file in the working directory, and the environment, in that order.
func Load(configDir string) (*Config, error) {
	cfg := New(configDir)

	if err := cfg.loadFile(); err != nil {
		return nil, err
	}

	// A missing .env is the normal case outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile() error {
	data, err := os.ReadFile(c.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", c.Path(), err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", c.Path(), err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	c.Endpoint = getEnv("TODO_ENDPOINT", c.Endpoint)
	c.Backend = getEnv("TODO_BACKEND", c.Backend)
	c.Token = getEnv("TODO_TOKEN", c.Token)
	c.SchemaDir = getEnv("TODO_SCHEMA_DIR", c.SchemaDir)
	c.ServeAddr = getEnv("TODO_SERVE_ADDR", c.ServeAddr)
	c.LogLevel = getEnv("TODO_LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("TODO_LOG_FORMAT", c.LogFormat)
	c.FluentBit.Host = getEnv("FLUENTBIT_HOST", c.FluentBit.Host)

	if v, ok := os.LookupEnv("TODO_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TODO_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v, ok := os.LookupEnv("TODO_LIST_COUNT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TODO_LIST_COUNT: %w", err)
		}
		c.ListCount = n
	}
	if v, ok := os.LookupEnv("FLUENTBIT_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("FLUENTBIT_ENABLED: %w", err)
		}
		c.FluentBit.Enabled = b
	}
	if v, ok := os.LookupEnv("FLUENTBIT_PORT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FLUENTBIT_PORT: %w", err)
		}
		c.FluentBit.Port = n
	}
	return nil
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid endpoint: %q", c.Endpoint)
	}
	switch c.Backend {
	case BackendTodoAPI, BackendGoogleTasks:
	default:
		return fmt.Errorf("unknown backend: %q", c.Backend)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}
	if c.ListCount < 1 {
		return fmt.Errorf("invalid list count: %d", c.ListCount)
	}
	if c.FluentBit.Enabled && c.FluentBit.Host == "" {
		return errors.New("fluentbit enabled but host is not set")
	}
	return nil
}

// Logger returns c.Log, or a logger that drops everything when unset.
func (c *Config) Logger() *slog.Logger {
	if c.Log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Log
}

// BaseURL returns the endpoint without a trailing slash.
func (c *Config) BaseURL() string {
	return strings.TrimRight(c.Endpoint, "/")
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Path returns the path to config.yaml.
func (c *Config) Path() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

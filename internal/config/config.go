// Package config loads ottoshop's settings: an optional YAML file, then
// environment overrides, then defaults for anything still unset.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/ottoshop/internal/logger"
)

// Environment variables read by Load.
const (
	EnvAppEnv   = "APP_ENV"
	EnvAPIURL   = "LUA_API_URL"
	EnvAPIKey   = "LUA_API_KEY"
	EnvAgentID  = "LUA_AGENT_ID"
	EnvAddr     = "OTTOSHOP_ADDR"
	EnvBackend  = "OTTOSHOP_BACKEND"
	EnvLogLevel = "OTTOSHOP_LOG_LEVEL"

	EnvTextFallback = "OTTOSHOP_TEXT_FALLBACK"
)

// Backends.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// DefaultFile is read when no path is given and it exists.
const DefaultFile = "ottoshop.yaml"

// Config is the full application configuration.
type Config struct {
	Backend string        `yaml:"backend"`
	Agent   AgentConfig   `yaml:"agent"`
	Server  ServerConf    `yaml:"server"`
	Extract ExtractConfig `yaml:"extract"`
	Log     LogConfig     `yaml:"log"`
}

// AgentConfig is the remote agent platform connection.
type AgentConfig struct {
	URL     string        `yaml:"url"`
	APIKey  string        `yaml:"api_key"`
	AgentID string        `yaml:"agent_id"`
	Channel string        `yaml:"channel"`
	Timeout time.Duration `yaml:"timeout"`
	Retries uint64        `yaml:"retries"`
}

// ServerConf is the HTTP API listener.
type ServerConf struct {
	Addr           string        `yaml:"addr"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	SessionTTL     time.Duration `yaml:"session_ttl"` // idle conversations are evicted after this
}

// ExtractConfig tunes how agent replies are read.
type ExtractConfig struct {
	// TextFallback reads store prices out of the reply prose when the
	// reply carries no structured comparisons.
	TextFallback bool `yaml:"text_fallback"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Agent: AgentConfig{
			URL:     "https://api.heylua.ai",
			Channel: "production",
			Timeout: 60 * time.Second,
			Retries: 3,
		},
		Server: ServerConf{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
			SessionTTL:     2 * time.Hour,
		},
		Extract: ExtractConfig{TextFallback: true},
		Log: LogConfig{
			Level: "normal",
			File:  ".ottoshop-logs/ottoshop.log",
		},
	}
}

// Load reads path (or DefaultFile if path is empty and the file exists),
// applies .env outside production, then environment overrides.
func Load(path string) (*Config, error) {
	if os.Getenv(EnvAppEnv) != "production" {
		_ = godotenv.Load()
	}

	cfg := Defaults()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg.applyEnv()
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Agent.URL, EnvAPIURL)
	set(&c.Agent.APIKey, EnvAPIKey)
	set(&c.Agent.AgentID, EnvAgentID)
	set(&c.Server.Addr, EnvAddr)
	set(&c.Backend, EnvBackend)
	set(&c.Log.Level, EnvLogLevel)

	var fallback string
	set(&fallback, EnvTextFallback)
	if b, err := strconv.ParseBool(fallback); err == nil {
		c.Extract.TextFallback = b
	}
}

// finish resolves the backend and checks what the chosen backend needs.
func (c *Config) finish() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		c.Backend = BackendLocal
		if c.Agent.APIKey != "" {
			c.Backend = BackendRemote
		}
	}

	switch c.Backend {
	case BackendLocal:
	case BackendRemote:
		if c.Agent.APIKey == "" || c.Agent.AgentID == "" {
			return fmt.Errorf("remote backend needs %s and %s", EnvAPIKey, EnvAgentID)
		}
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendLocal, BackendRemote)
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() logger.Level {
	l, _ := logger.ParseLevel(c.Log.Level)
	return l
}

// String summarises the config without secrets.
func (c *Config) String() string {
	key := "unset"
	if c.Agent.APIKey != "" {
		key = "set"
	}
	return fmt.Sprintf("backend=%s agent=%s id=%s key=%s retries=%s addr=%s text_fallback=%t",
		c.Backend, c.Agent.URL, c.Agent.AgentID, key, strconv.FormatUint(c.Agent.Retries, 10), c.Server.Addr,
		c.Extract.TextFallback)
}

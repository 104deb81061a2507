// Package config provides YAML-based configuration loading for Sprintdeck.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level Sprintdeck configuration, loaded from config.yaml.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Supabase SupabaseConfig `yaml:"supabase"`
	ClickUp  ClickUpConfig  `yaml:"clickup"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Auth     AuthConfig     `yaml:"auth"`
	Notify   NotifyConfig   `yaml:"notify"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig holds the Postgres connection and pool settings.
type DatabaseConfig struct {
	DSN                string `yaml:"dsn"`
	MaxOpenConns       int    `yaml:"max_open_conns"`
	MaxIdleConns       int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMin int    `yaml:"conn_max_lifetime_min"`
}

// SupabaseConfig holds the identity provider endpoint and key.
type SupabaseConfig struct {
	URL     string `yaml:"url"`
	AnonKey string `yaml:"anon_key"`
}

// ClickUpConfig holds the issue tracker credentials and list bindings.
type ClickUpConfig struct {
	APIKey        string `yaml:"api_key"`
	BacklogListID string `yaml:"backlog_list_id"`
	FolderID      string `yaml:"folder_id"`
	CacheTTLSec   int    `yaml:"cache_ttl_sec"`
	TimeoutSec    int    `yaml:"timeout_sec"`
}

// GeminiConfig holds the generative model settings.
type GeminiConfig struct {
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	TimeoutSec int    `yaml:"timeout_sec"`
	MaxRetries int    `yaml:"max_retries"`
}

// AuthConfig holds authorization policy knobs.
type AuthConfig struct {
	// UnknownRolePolicy decides what happens when an authenticated user has
	// no role row: "default" grants employee, "deny" rejects the request.
	UnknownRolePolicy string `yaml:"unknown_role_policy"`
}

// NotifyConfig holds optional chat digest delivery settings.
type NotifyConfig struct {
	Platform   string `yaml:"platform"` // "", "slack", or "discord"
	Token      string `yaml:"token"`
	Channel    string `yaml:"channel"`
	DigestCron string `yaml:"digest_cron"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config. Secrets may come
// from the environment instead of the file.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overlays secret values from environment variables so keys
// never need to live in the YAML file.
func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("SUPABASE_ANON_KEY"); v != "" {
		c.Supabase.AnonKey = v
	}
	if v := os.Getenv("CLICKUP_API_KEY"); v != "" {
		c.ClickUp.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("NOTIFY_TOKEN"); v != "" {
		c.Notify.Token = v
	}
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetimeMin == 0 {
		c.Database.ConnMaxLifetimeMin = 30
	}
	if c.ClickUp.CacheTTLSec == 0 {
		c.ClickUp.CacheTTLSec = 30
	}
	if c.ClickUp.TimeoutSec == 0 {
		c.ClickUp.TimeoutSec = 30
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.0-flash"
	}
	if c.Gemini.TimeoutSec == 0 {
		c.Gemini.TimeoutSec = 30
	}
	if c.Gemini.MaxRetries == 0 {
		c.Gemini.MaxRetries = 3
	}
	if c.Auth.UnknownRolePolicy == "" {
		c.Auth.UnknownRolePolicy = "default"
	}
	if c.Notify.DigestCron == "" {
		c.Notify.DigestCron = "0 18 * * 1-5"
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.Database.DSN == "" {
		errs = append(errs, "database.dsn is required")
	}
	if c.Supabase.URL == "" {
		errs = append(errs, "supabase.url is required")
	}
	if c.Supabase.AnonKey == "" {
		errs = append(errs, "supabase.anon_key is required")
	}
	if p := c.Auth.UnknownRolePolicy; p != "default" && p != "deny" {
		errs = append(errs, fmt.Sprintf("auth.unknown_role_policy %q invalid (must be default or deny)", p))
	}
	switch c.Notify.Platform {
	case "", "slack", "discord":
	default:
		errs = append(errs, fmt.Sprintf("notify.platform %q invalid (must be slack or discord)", c.Notify.Platform))
	}
	if c.Notify.Platform != "" {
		if c.Notify.Token == "" {
			errs = append(errs, "notify.token is required when notify.platform is set")
		}
		if c.Notify.Channel == "" {
			errs = append(errs, "notify.channel is required when notify.platform is set")
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

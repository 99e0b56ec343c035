package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/fchimpan/leetboard/internal/heatmap"
)

const (
	DefaultPath = "leetboard.yaml"

	SourceLeetCode = "leetcode"
	SourceGitHub   = "github"
)

type Config struct {
	// Users is the fixed list of accounts shown on the dashboard.
	Users       []string      `yaml:"users"`
	Source      string        `yaml:"source"`
	APIBase     string        `yaml:"api_base"`
	Policy      string        `yaml:"policy"`
	Timeout     string        `yaml:"timeout"`
	Concurrency int           `yaml:"concurrency"`
	Server      ServerConfig  `yaml:"server"`
	Logging     LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

func DefaultConfig() *Config {
	return &Config{
		Source:      SourceLeetCode,
		APIBase:     "https://alfa-leetcode-api.onrender.com",
		Policy:      heatmap.PolicyPercentile,
		Timeout:     "15s",
		Concurrency: 4,
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadDotEnv loads KEY=VALUE pairs from .env files without overriding variables
// that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load loads configuration from a YAML file, then applies environment overrides.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("LEETBOARD_USERS"); v != "" {
		c.Users = SplitList(v)
	}
	if v := os.Getenv("LEETBOARD_SOURCE"); v != "" {
		c.Source = v
	}
	if v := os.Getenv("LEETBOARD_API_BASE"); v != "" {
		c.APIBase = v
	}
	if v := os.Getenv("LEETBOARD_POLICY"); v != "" {
		c.Policy = v
	}
	if v := os.Getenv("LEETBOARD_TIMEOUT"); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv("LEETBOARD_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Addr = ":" + strings.TrimPrefix(v, ":")
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Source) {
	case SourceLeetCode, SourceGitHub:
	default:
		return fmt.Errorf("unknown source %q (want %q or %q)", c.Source, SourceLeetCode, SourceGitHub)
	}
	if _, err := heatmap.PolicyByName(c.Policy); err != nil {
		return err
	}
	if _, err := c.RequestTimeout(); err != nil {
		return err
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be > 0")
	}
	return nil
}

// RequestTimeout parses Timeout; an empty value means no timeout.
func (c *Config) RequestTimeout() (time.Duration, error) {
	if strings.TrimSpace(c.Timeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout must not be negative")
	}
	return d, nil
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

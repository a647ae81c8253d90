package internal

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g. SENTRY_API_BASE_URL
const EnvPrefix = "SENTRY_"

const maxConfigFileSize = 1024 * 1024

// Config is the client configuration
type Config struct {
	API      APIConfig      `koanf:"api"`
	Ingest   IngestConfig   `koanf:"ingest"`
	Search   SearchConfig   `koanf:"search"`
	Progress ProgressConfig `koanf:"progress"`
	Storage  StorageConfig  `koanf:"storage"`
	Log      LogConfig      `koanf:"log"`
}

// APIConfig locates the backend
type APIConfig struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

// IngestConfig holds the fixed fields sent with every ingestion
type IngestConfig struct {
	OrgID        int      `koanf:"org_id"`
	Title        string   `koanf:"title"`
	ACLRoles     []string `koanf:"acl_roles"`
	DefaultLevel int      `koanf:"default_level"`
}

// SearchConfig holds the query constants and page size
type SearchConfig struct {
	PageSize  int    `koanf:"page_size"`
	Purpose   string `koanf:"purpose"`
	MaxChunks int    `koanf:"max_chunks"`
}

// ProgressConfig drives the fixed-increment progress indicators
type ProgressConfig struct {
	Step           int           `koanf:"step"`
	UploadInterval time.Duration `koanf:"upload_interval"`
	DemoInterval   time.Duration `koanf:"demo_interval"`
}

// StorageConfig locates the persisted client storage
type StorageConfig struct {
	Path string `koanf:"path"`
}

// LogConfig sets the log level
type LogConfig struct {
	Level string `koanf:"level"`
}

// DefaultConfig returns the configuration used when nothing overrides it
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// DefaultConfigPath is ~/.config/sentry/config.yaml
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "sentry", "config.yaml"), nil
}

// DefaultStoragePath is ~/.sentry/storage.db
func DefaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".sentry", "storage.db")
	}
	return filepath.Join(home, ".sentry", "storage.db")
}

// LoadConfig loads configuration from a YAML file, then overrides with environment variables.
//
// Precedence (highest to lowest):
//  1. SENTRY_* environment variables (SENTRY_API_BASE_URL -> api.base_url)
//  2. YAML config file (~/.config/sentry/config.yaml unless configPath is set)
//  3. Defaults
//
// A missing config file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		var err error
		configPath, err = DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}

	if info, err := os.Stat(configPath); err == nil {
		if info.Size() > maxConfigFileSize {
			return nil, fmt.Errorf("config file %s exceeds %d bytes", configPath, maxConfigFileSize)
		}
		content, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		LogDebug("Loaded config from %s", configPath)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// envKey maps SENTRY_SECTION_FIELD_NAME to section.field_name
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

func applyDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://localhost:8003"
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 30 * time.Second
	}
	if cfg.Ingest.OrgID == 0 {
		cfg.Ingest.OrgID = 1
	}
	if cfg.Ingest.Title == "" {
		cfg.Ingest.Title = "Uploaded Document"
	}
	if len(cfg.Ingest.ACLRoles) == 0 {
		cfg.Ingest.ACLRoles = []string{"employee"}
	}
	if cfg.Ingest.DefaultLevel == 0 {
		cfg.Ingest.DefaultLevel = int(DefaultSensitivity)
	}
	if cfg.Search.PageSize == 0 {
		cfg.Search.PageSize = 3
	}
	if cfg.Search.Purpose == "" {
		cfg.Search.Purpose = PurposeGeneral
	}
	if cfg.Search.MaxChunks == 0 {
		cfg.Search.MaxChunks = DefaultMaxChunks
	}
	if cfg.Progress.Step == 0 {
		cfg.Progress.Step = 20
	}
	if cfg.Progress.UploadInterval == 0 {
		cfg.Progress.UploadInterval = 200 * time.Millisecond
	}
	if cfg.Progress.DemoInterval == 0 {
		cfg.Progress.DemoInterval = 300 * time.Millisecond
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = DefaultStoragePath()
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate checks the configuration for values the flows cannot work with
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must be http or https, got %q", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	if err := Sensitivity(c.Ingest.DefaultLevel).Validate(); err != nil {
		return fmt.Errorf("ingest.default_level: %w", err)
	}
	if c.Search.PageSize < 1 {
		return fmt.Errorf("search.page_size must be positive, got %d", c.Search.PageSize)
	}
	if c.Progress.Step < 1 || c.Progress.Step > 100 {
		return fmt.Errorf("progress.step must be within 1..100, got %d", c.Progress.Step)
	}
	if c.Progress.UploadInterval < 0 || c.Progress.DemoInterval < 0 {
		return fmt.Errorf("progress intervals must not be negative")
	}
	return nil
}

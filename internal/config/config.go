package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jask/adminconsole/internal/table"
)

const envPrefix = "ADMINCONSOLE"

// Config holds application configuration.
type Config struct {
	API     APIConfig
	Storage StorageConfig
	UI      UIConfig
	Log     LogConfig
	Stub    StubConfig
}

// APIConfig describes the remote users API.
type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	TokenEnv  string        `mapstructure:"token_env"`
	Token     string        `mapstructure:"token"`
	ListLimit int           `mapstructure:"list_limit"`
}

// StorageConfig selects where local state (dashboard layout) lives.
type StorageConfig struct {
	Backend string `mapstructure:"backend"` // sqlite | file | memory
	Path    string `mapstructure:"path"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	FilterDebounce time.Duration `mapstructure:"filter_debounce"`
	PageSize       int           `mapstructure:"page_size"`
	Locale         string        `mapstructure:"locale"`
	Sort           string        `mapstructure:"sort"` // column, "-" prefix for descending
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type StubConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads configuration from file and env. Env var overrides use prefix ADMINCONSOLE_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")

	cfgPath := os.Getenv(envPrefix + "_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "adminconsole"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing file is fine; a broken one is not
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "https://dummyjson.com/users")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("api.token_env", envPrefix+"_API_TOKEN")
	v.SetDefault("api.token", "")
	v.SetDefault("api.list_limit", 0)
	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "adminconsole", "adminconsole.db"))
	v.SetDefault("ui.filter_debounce", 300*time.Millisecond)
	v.SetDefault("ui.page_size", 10)
	v.SetDefault("ui.locale", "en-US")
	v.SetDefault("ui.sort", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("stub.addr", "127.0.0.1:8089")
}

// Validate rejects values the console cannot run with.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case "sqlite", "file", "memory":
	default:
		return fmt.Errorf("storage.backend: unknown backend %q", c.Storage.Backend)
	}
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.UI.PageSize < 0 {
		return fmt.Errorf("ui.page_size must not be negative")
	}
	if c.UI.FilterDebounce < 0 {
		return fmt.Errorf("ui.filter_debounce must not be negative")
	}
	if _, err := table.ParseSort(c.UI.Sort); err != nil {
		return fmt.Errorf("ui.sort: %w", err)
	}
	return nil
}

// Save writes the provided config to disk, creating the config directory if needed.
// The API token is written in plain text; prefer the env var or the secrets store.
func Save(cfg Config) error {
	path := os.Getenv(envPrefix + "_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "adminconsole", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.timeout", cfg.API.Timeout.String())
	v.Set("api.token_env", cfg.API.TokenEnv)
	v.Set("api.token", cfg.API.Token)
	v.Set("api.list_limit", cfg.API.ListLimit)
	v.Set("storage.backend", cfg.Storage.Backend)
	v.Set("storage.path", cfg.Storage.Path)
	v.Set("ui.filter_debounce", cfg.UI.FilterDebounce.String())
	v.Set("ui.page_size", cfg.UI.PageSize)
	v.Set("ui.locale", cfg.UI.Locale)
	v.Set("ui.sort", cfg.UI.Sort)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("stub.addr", cfg.Stub.Addr)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

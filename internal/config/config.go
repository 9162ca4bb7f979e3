// Package config provides settings management for the resto CLI.
// Settings come from ~/.resto/config.yaml, RESTO_* environment variables
// and built-in defaults, in increasing order of precedence for env.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultAPIURL is the default back-office API endpoint
	DefaultAPIURL = "http://localhost:3000"

	// DefaultWebURL is the default back-office web interface
	DefaultWebURL = "http://localhost:4200"

	// ConfigDirName is the name of the config directory
	ConfigDirName = ".resto"

	// ConfigFileName is the name of the settings file, without extension
	ConfigFileName = "config"

	// CredentialsFileName is the name of the credentials file
	CredentialsFileName = "credentials.json"

	// EnvPrefix is prepended to every environment variable, e.g. RESTO_API_URL
	EnvPrefix = "RESTO"
)

// Credentials backends
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Settings represents the resolved CLI configuration
type Settings struct {
	APIURL             string        `mapstructure:"api_url"`
	APIPrefix          string        `mapstructure:"api_prefix"`
	WebURL             string        `mapstructure:"web_url"`
	Timeout            time.Duration `mapstructure:"timeout"`
	RateLimit          float64       `mapstructure:"rate_limit"`
	RateBurst          int           `mapstructure:"rate_burst"`
	LogLevel           string        `mapstructure:"log_level"`
	CredentialsBackend string        `mapstructure:"credentials_backend"`
	CredentialsPath    string        `mapstructure:"credentials_path"`
	RedisAddr          string        `mapstructure:"redis_addr"`
	RedisPassword      string        `mapstructure:"redis_password"`
	RedisDB            int           `mapstructure:"redis_db"`
	RedisKey           string        `mapstructure:"redis_key"`
	RedisTTL           time.Duration `mapstructure:"redis_ttl"`
}

// Manager loads settings from disk and the environment
type Manager struct {
	configDir string
	v         *viper.Viper
}

// NewManager creates a new settings manager rooted at ~/.resto
func NewManager() (*Manager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate home directory: %w", err)
	}

	return NewManagerWithDir(filepath.Join(homeDir, ConfigDirName)), nil
}

// NewManagerWithDir creates a settings manager reading config.yaml from dir.
// This is useful for testing
func NewManagerWithDir(dir string) *Manager {
	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("api_prefix", "api/v1")
	v.SetDefault("web_url", DefaultWebURL)
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("rate_limit", 0)
	v.SetDefault("rate_burst", 1)
	v.SetDefault("log_level", "warn")
	v.SetDefault("credentials_backend", BackendFile)
	v.SetDefault("credentials_path", filepath.Join(dir, CredentialsFileName))
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_key", "resto:credentials:default")
	v.SetDefault("redis_ttl", time.Duration(0))

	return &Manager{configDir: dir, v: v}
}

// Load reads the settings file, when present, and resolves the settings
func (m *Manager) Load() (*Settings, error) {
	if err := m.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var settings Settings
	if err := m.v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := settings.validate(); err != nil {
		return nil, err
	}

	return &settings, nil
}

// Set overrides a single key, e.g. from a command-line flag
func (m *Manager) Set(key string, value any) {
	m.v.Set(key, value)
}

// ConfigDir returns the directory holding config and credentials files
func (m *Manager) ConfigDir() string {
	return m.configDir
}

// ConfigFileUsed returns the settings file that was read, if any
func (m *Manager) ConfigFileUsed() string {
	return m.v.ConfigFileUsed()
}

func (s *Settings) validate() error {
	if strings.TrimSpace(s.APIURL) == "" {
		return errors.New("api_url must not be empty")
	}

	switch s.CredentialsBackend {
	case BackendFile, BackendRedis:
	default:
		return fmt.Errorf("unknown credentials backend %q (expected %q or %q)",
			s.CredentialsBackend, BackendFile, BackendRedis)
	}

	if s.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative, got %v", s.RateLimit)
	}

	return nil
}

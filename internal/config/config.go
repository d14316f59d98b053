package config

import (
	"strings"

	"github.com/spf13/viper"
)

// APIConfig holds settings for the upstream document API.
type APIConfig struct {
	BaseURL string
}

// LogConfig controls log output.
type LogConfig struct {
	Level  string
	Format string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables.
type AppConfig struct {
	Port      string
	API       APIConfig
	Log       LogConfig
	InboxSize int
}

// Defaults for non-sensitive values.
const (
	DefaultAPIURL    = "http://localhost:8001/api"
	DefaultPort      = "8080"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultInboxSize = 20
)

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence over .env entries.
func Load() *AppConfig {
	return FromViper(New())
}

// New returns a viper instance with defaults and environment bindings.
// Callers may bind flags on it before passing it to FromViper.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("port", DefaultPort)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_format", DefaultLogFormat)
	v.SetDefault("inbox_size", DefaultInboxSize)
	return v
}

// FromViper builds an AppConfig from v.
func FromViper(v *viper.Viper) *AppConfig {
	return &AppConfig{
		Port: getString(v, "port", DefaultPort),
		API: APIConfig{
			BaseURL: getString(v, "api_url", DefaultAPIURL),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getString(v, "log_level", DefaultLogLevel)),
			Format: strings.ToLower(getString(v, "log_format", DefaultLogFormat)),
		},
		InboxSize: getInt(v, "inbox_size", DefaultInboxSize),
	}
}

func getString(v *viper.Viper, key, def string) string {
	if s := strings.TrimSpace(v.GetString(key)); s != "" {
		return s
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if i := v.GetInt(key); i > 0 {
		return i
	}
	return def
}

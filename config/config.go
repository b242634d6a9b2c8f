package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// INSTAFRONT_API_BASE_URL for api.base_url.
const EnvPrefix = "INSTAFRONT"

// Config holds the application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// APIConfig points at the remote REST API
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// SessionConfig holds the session cache settings
type SessionConfig struct {
	DBPath       string        `mapstructure:"db_path"`
	TTL          time.Duration `mapstructure:"ttl" validate:"gt=0"`
	CookieSecure bool          `mapstructure:"cookie_secure"`
}

var validate = validator.New()

// New returns a viper instance with the defaults, search paths and
// environment overrides in place. A non-empty file replaces the search.
func New(file string) *viper.Viper {
	v := viper.New()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetDefault("server.addr", ":3000")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("api.timeout", "15s")
	v.SetDefault("session.db_path", "data/sessions")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("session.cookie_secure", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file, if any, and decodes v into a Config.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Println("No config file found, using defaults and environment variables")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Package config loads configuration for the CLI and the development API from an
// optional YAML file and the environment.
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

// Client holds blogctl configuration
type Client struct {
	APIBaseURL              string        `mapstructure:"API_BASE_URL"`
	APIServiceName          string        `mapstructure:"API_SERVICE_NAME"`
	ConsulAddr              string        `mapstructure:"CONSUL_HTTP_ADDR"`
	ConsulToken             string        `mapstructure:"CONSUL_HTTP_TOKEN"`
	SessionBackend          string        `mapstructure:"SESSION_BACKEND"`
	SessionFile             string        `mapstructure:"SESSION_FILE"`
	RedisAddr               string        `mapstructure:"REDIS_ADDR"`
	RedisPassword           string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB                 int           `mapstructure:"REDIS_DB"`
	HTTPTimeout             time.Duration `mapstructure:"HTTP_TIMEOUT"`
	PageSize                int           `mapstructure:"PAGE_SIZE"`
	StaleResponseGuard      bool          `mapstructure:"STALE_RESPONSE_GUARD"`
	KafkaBrokers            string        `mapstructure:"KAFKA_BROKERS"`
	KafkaNotificationsTopic string        `mapstructure:"KAFKA_TOPIC_NOTIFICATIONS"`
	PushgatewayURL          string        `mapstructure:"PUSHGATEWAY_URL"`
	LogLevel                string        `mapstructure:"LOG_LEVEL"`
	LogFormat               string        `mapstructure:"LOG_FORMAT"`
}

// Server holds development API configuration
type Server struct {
	Env            string        `mapstructure:"APP_ENV"`
	Host           string        `mapstructure:"DEVAPI_HOST"`
	Port           int           `mapstructure:"DEVAPI_PORT"`
	JWTSecret      string        `mapstructure:"JWT_SECRET"`
	TokenTTL       time.Duration `mapstructure:"TOKEN_TTL"`
	AllowedOrigins string        `mapstructure:"ALLOWED_ORIGINS"`
	ServiceName    string        `mapstructure:"API_SERVICE_NAME"`
	ConsulRegister bool          `mapstructure:"CONSUL_REGISTER"`
	ConsulAddr     string        `mapstructure:"CONSUL_HTTP_ADDR"`
	ConsulToken    string        `mapstructure:"CONSUL_HTTP_TOKEN"`
	SeedDemoData   bool          `mapstructure:"SEED_DEMO_DATA"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	LogFormat      string        `mapstructure:"LOG_FORMAT"`
}

// DefaultJWTSecret is the development-only signing secret
const DefaultJWTSecret = "blog-devapi-secret-change-me"

// LoadClient reads blogctl configuration. path names an explicit YAML file; when
// empty, blogctl.yml is looked up in the working directory and the user config dir.
func LoadClient(path string) (*Client, error) {
	v := viper.New()
	v.SetDefault("API_BASE_URL", "http://localhost:8080")
	v.SetDefault("API_SERVICE_NAME", "")
	v.SetDefault("CONSUL_HTTP_ADDR", "")
	v.SetDefault("CONSUL_HTTP_TOKEN", "")
	v.SetDefault("SESSION_BACKEND", "file")
	v.SetDefault("SESSION_FILE", defaultSessionFile())
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("HTTP_TIMEOUT", "30s")
	v.SetDefault("PAGE_SIZE", 10)
	v.SetDefault("STALE_RESPONSE_GUARD", false)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC_NOTIFICATIONS", "blog-notifications")
	v.SetDefault("PUSHGATEWAY_URL", "")
	v.SetDefault("LOG_LEVEL", "warn")
	v.SetDefault("LOG_FORMAT", "text")

	if err := readFile(v, path, "blogctl"); err != nil {
		return nil, err
	}

	var cfg Client
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	cfg.SessionBackend = strings.ToLower(strings.TrimSpace(cfg.SessionBackend))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// LoadServer reads development API configuration, from devapi.yml when present
func LoadServer(path string) (*Server, error) {
	v := viper.New()
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DEVAPI_HOST", "")
	v.SetDefault("DEVAPI_PORT", 8080)
	v.SetDefault("JWT_SECRET", DefaultJWTSecret)
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("API_SERVICE_NAME", "blog-api")
	v.SetDefault("CONSUL_REGISTER", false)
	v.SetDefault("CONSUL_HTTP_ADDR", "")
	v.SetDefault("CONSUL_HTTP_TOKEN", "")
	v.SetDefault("SEED_DEMO_DATA", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	if err := readFile(v, path, "devapi"); err != nil {
		return nil, err
	}

	var cfg Server
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Origins returns the allowed CORS origins
func (s *Server) Origins() []string {
	var out []string
	for _, o := range strings.Split(s.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func readFile(v *viper.Viper, path, name string) error {
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName(name)
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "blogctl"))
	}

	var notFound viper.ConfigFileNotFoundError
	if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "blogctl", "session.json")
}

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// Session backends
const (
	SessionBackendFile  = "file"
	SessionBackendRedis = "redis"
)

// Validate checks the CLI configuration
func (c *Client) Validate() error {
	var problems []string

	if c.APIBaseURL == "" && c.APIServiceName == "" {
		problems = append(problems, "API_BASE_URL or API_SERVICE_NAME is required")
	}
	if c.APIBaseURL != "" {
		if u, err := url.Parse(c.APIBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			problems = append(problems, fmt.Sprintf("API_BASE_URL %q must be an http(s) URL", c.APIBaseURL))
		}
	}
	if c.APIServiceName != "" && c.ConsulAddr == "" {
		problems = append(problems, "CONSUL_HTTP_ADDR is required when API_SERVICE_NAME is set")
	}

	switch c.SessionBackend {
	case SessionBackendFile:
		if c.SessionFile == "" {
			problems = append(problems, "SESSION_FILE is required for the file session backend")
		}
	case SessionBackendRedis:
		if c.RedisAddr == "" {
			problems = append(problems, "REDIS_ADDR is required for the redis session backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("SESSION_BACKEND must be %q or %q, got %q", SessionBackendFile, SessionBackendRedis, c.SessionBackend))
	}

	if c.PushgatewayURL != "" {
		if u, err := url.Parse(c.PushgatewayURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			problems = append(problems, fmt.Sprintf("PUSHGATEWAY_URL %q must be an http(s) URL", c.PushgatewayURL))
		}
	}

	if c.HTTPTimeout <= 0 {
		problems = append(problems, "HTTP_TIMEOUT must be positive")
	}
	if c.PageSize < 1 || c.PageSize > 100 {
		problems = append(problems, "PAGE_SIZE must be between 1 and 100")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// Validate checks the development API configuration
func (s *Server) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("DEVAPI_PORT %d is out of range", s.Port)
	}
	if s.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if s.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if s.ConsulRegister && s.ConsulAddr == "" {
		return errors.New("CONSUL_HTTP_ADDR is required when CONSUL_REGISTER is set")
	}

	isProduction := s.Env == "production" || s.Env == "prod"
	if isProduction {
		if s.JWTSecret == DefaultJWTSecret {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(s.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
	} else if len(s.JWTSecret) < 32 {
		slog.Warn("JWT_SECRET is shorter than 32 characters")
	}

	return nil
}

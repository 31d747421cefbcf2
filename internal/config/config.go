package config

import (
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	sharedauth "github.com/sahayak/qa-service/shared/auth"
	"github.com/sahayak/qa-service/shared/envconfig"
	"github.com/sahayak/qa-service/shared/logging"
)

// DefaultAllowedOrigins are the local front-end dev servers.
var DefaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://localhost:3003",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:3003",
}

// Config encapsulates the runtime configuration for the Sahayak API.
type Config struct {
	Host        string `validate:"required"`
	Port        string `validate:"required,numeric"`
	ServiceName string `validate:"required"`
	LogLevel    slog.Level
	CORS        CORSConfig
	Auth        AuthConfig
	Agent       AgentConfig
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `validate:"dive,url"`
}

// AuthConfig stores authentication middleware setup for the /v1 routes.
type AuthConfig struct {
	Mode   sharedauth.Mode
	Secret string
	Issuer string
}

// AgentConfig tunes the in-memory agent session host.
type AgentConfig struct {
	AppName    string        `validate:"required"`
	SessionTTL time.Duration `validate:"gt=0"`
}

// Addr is the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Load reads environment variables into Config with validation.
func Load() (Config, error) {
	cfg := Config{
		Host:        envconfig.Get("HOST", "0.0.0.0"),
		Port:        envconfig.Get("PORT", "8001"),
		ServiceName: envconfig.Get("SERVICE_NAME", "sahayak-api"),
		LogLevel:    logging.ParseLevel(envconfig.Get("LOG_LEVEL", "info")),
		CORS: CORSConfig{
			AllowedOrigins: envconfig.GetList("CORS_ALLOWED_ORIGINS", DefaultAllowedOrigins),
		},
		Auth: AuthConfig{
			Mode:   sharedauth.Mode(strings.ToLower(envconfig.Get("AUTH_MODE", string(sharedauth.ModeNoop)))),
			Secret: envconfig.Get("AUTH_JWT_SECRET", ""),
			Issuer: envconfig.Get("AUTH_JWT_ISSUER", ""),
		},
		Agent: AgentConfig{
			AppName:    envconfig.Get("AGENT_APP_NAME", "qa_agent"),
			SessionTTL: envconfig.GetDuration("SESSION_TTL", 24*time.Hour),
		},
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func validate(cfg Config) error {
	if err := envconfig.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	switch cfg.Auth.Mode {
	case sharedauth.ModeJWT:
		if strings.TrimSpace(cfg.Auth.Secret) == "" {
			return fmt.Errorf("AUTH_JWT_SECRET is required when AUTH_MODE=jwt")
		}
	case sharedauth.ModeNoop:
		// no-op
	default:
		return fmt.Errorf("unsupported auth mode: %s", cfg.Auth.Mode)
	}

	return nil
}

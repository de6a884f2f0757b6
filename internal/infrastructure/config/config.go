package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// JWTSecret signs every issued bearer token. Read-only after startup.
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=30m"`

	// FrontendURL is where password-reset links land.
	FrontendURL string `env:"FRONTEND_URL, default=http://localhost:3000"`
	// AdminRedirectURL is the deep link used by admin confirmation emails.
	AdminRedirectURL string `env:"ADMIN_APP_REDIRECT_URL"`

	Supabase SupabaseConfig
	Redis    RedisConfig
	Login    LoginConfig
}

type SupabaseConfig struct {
	URL            string        `env:"SUPABASE_URL, required"`
	AnonKey        string        `env:"SUPABASE_ANON_KEY, required"`
	ServiceRoleKey string        `env:"SUPABASE_SERVICE_ROLE_KEY, required"`
	Timeout        time.Duration `env:"SUPABASE_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type LoginConfig struct {
	MaxAttempts   int           `env:"LOGIN_MAX_ATTEMPTS,   default=10"`
	AttemptWindow time.Duration `env:"LOGIN_ATTEMPT_WINDOW, default=15m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// ResetRedirectURL is the frontend page a password-reset email points at.
func (c *Config) ResetRedirectURL() string {
	return c.FrontendURL + "/reset-password"
}

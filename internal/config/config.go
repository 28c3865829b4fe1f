package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App struct {
		Name     string     `envconfig:"APP_NAME" default:"Wandura"`
		Port     int        `envconfig:"PORT" default:"8080"`
		LogLevel slog.Level `envconfig:"LOG_LEVEL" default:"INFO"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"wandura"`
		SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
		Migrate  bool   `envconfig:"DB_MIGRATE" default:"true"`
	}

	Server struct {
		Timeout         time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
		MaxBodyBytes    int64         `envconfig:"SERVER_MAX_BODY_BYTES" default:"65536"`
	}

	Auth struct {
		JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
		TokenTTL  time.Duration `envconfig:"JWT_TTL" default:"24h"`
	}

	Stripe struct {
		SecretKey     string        `envconfig:"STRIPE_SECRET_KEY"`
		WebhookSecret string        `envconfig:"STRIPE_WEBHOOK_SECRET"`
		Currency      string        `envconfig:"STRIPE_CURRENCY" default:"usd"`
		ConfirmEvents bool          `envconfig:"STRIPE_CONFIRM_EVENTS" default:"false"`
		VerifyTimeout time.Duration `envconfig:"GATEWAY_VERIFY_TIMEOUT" default:"5s"`
	}

	Pricing struct {
		CommissionRate decimal.Decimal `envconfig:"COMMISSION_RATE" default:"0.10"`
	}

	Rabbit struct {
		URL      string `envconfig:"RABBIT_URL"`
		Exchange string `envconfig:"RABBIT_EXCHANGE" default:"wandura.events"`
	}

	Redis struct {
		URL     string        `envconfig:"REDIS_URL"`
		LockTTL time.Duration `envconfig:"SETTLEMENT_LOCK_TTL" default:"30s"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must not be empty")
	}

	if cfg.Pricing.CommissionRate.IsNegative() || cfg.Pricing.CommissionRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("COMMISSION_RATE must be within [0, 1], got %s", cfg.Pricing.CommissionRate)
	}

	return &cfg, nil
}

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const devJWTSecret = "dev_jwt_secret_change_me"

// Config holds the runtime settings of the storefront.
type Config struct {
	AppEnv             string
	AppPort            string
	DBDriver           string
	DatabaseDSN        string
	JWTSecret          string
	TokenTTL           time.Duration
	CartStore          string
	RedisURL           string
	CartTTL            time.Duration
	RabbitMQURL        string
	LoginRatePerMinute int
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	return FromViper(v)
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "storefront.db")
	v.SetDefault("JWT_SECRET", devJWTSecret)
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("CART_STORE", "memory")
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("CART_TTL", "168h")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("LOGIN_RATE_PER_MINUTE", 30)
}

// FromViper builds and validates a Config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppEnv:             v.GetString("APP_ENV"),
		AppPort:            v.GetString("APP_PORT"),
		DBDriver:           v.GetString("DB_DRIVER"),
		DatabaseDSN:        v.GetString("DATABASE_DSN"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		TokenTTL:           v.GetDuration("TOKEN_TTL"),
		CartStore:          v.GetString("CART_STORE"),
		RedisURL:           v.GetString("REDIS_URL"),
		CartTTL:            v.GetDuration("CART_TTL"),
		RabbitMQURL:        v.GetString("RABBITMQ_URL"),
		LoginRatePerMinute: v.GetInt("LOGIN_RATE_PER_MINUTE"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.CartStore {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported CART_STORE %q", c.CartStore)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.IsProduction() && c.JWTSecret == devJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.TokenTTL <= 0 || c.CartTTL <= 0 {
		return errors.New("TOKEN_TTL and CART_TTL must be positive durations")
	}
	if c.LoginRatePerMinute <= 0 {
		return errors.New("LOGIN_RATE_PER_MINUTE must be positive")
	}
	return nil
}

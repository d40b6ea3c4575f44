package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Operator is a dashboard login with a bcrypt password hash.
type Operator struct {
	Name         string
	PasswordHash string
}

// Config is the process configuration.
type Config struct {
	AppPort   string
	LogLevel  string
	LogFormat string

	ShopwareHost string
	ShopwareUser string
	ShopwareKey  string

	ZalandoHost      string
	ZalandoMachineID string

	UpstreamTimeout time.Duration

	DatabaseDriver string
	DatabaseDSN    string

	RabbitMQURL string

	JWTSecret string
	Operators []Operator
}

// AuthEnabled reports whether operator login guards the API.
func (c Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// Load reads .env (when present) and the environment. Missing upstream
// settings are not an error here; requests fail when they need them.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("SHOPWARE_HOST", "")
	v.SetDefault("SHOPWARE_USER", "")
	v.SetDefault("SHOPWARE_KEY", "")
	v.SetDefault("ZALANDO_HOST", "")
	v.SetDefault("ZALANDO_MACHINE_ID", "")
	v.SetDefault("UPSTREAM_TIMEOUT", "30s")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "backoffice.db")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("OPERATORS", "")
	v.AutomaticEnv()

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		AppPort:          v.GetString("APP_PORT"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		LogFormat:        v.GetString("LOG_FORMAT"),
		ShopwareHost:     v.GetString("SHOPWARE_HOST"),
		ShopwareUser:     v.GetString("SHOPWARE_USER"),
		ShopwareKey:      v.GetString("SHOPWARE_KEY"),
		ZalandoHost:      v.GetString("ZALANDO_HOST"),
		ZalandoMachineID: v.GetString("ZALANDO_MACHINE_ID"),
		UpstreamTimeout:  v.GetDuration("UPSTREAM_TIMEOUT"),
		DatabaseDriver:   strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseDSN:      v.GetString("DATABASE_DSN"),
		RabbitMQURL:      v.GetString("RABBITMQ_URL"),
		JWTSecret:        v.GetString("JWT_SECRET"),
	}

	switch cfg.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return Config{}, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}

	ops, err := ParseOperators(v.GetString("OPERATORS"))
	if err != nil {
		return Config{}, err
	}
	cfg.Operators = ops

	if cfg.AuthEnabled() && len(cfg.Operators) == 0 {
		return Config{}, fmt.Errorf("JWT_SECRET is set but OPERATORS is empty")
	}
	return cfg, nil
}

// ParseOperators parses "name:hash,name:hash".
func ParseOperators(raw string) ([]Operator, error) {
	var ops []Operator
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, hash, ok := strings.Cut(entry, ":")
		if !ok || name == "" || hash == "" {
			return nil, fmt.Errorf("invalid operator entry %q", entry)
		}
		ops = append(ops, Operator{Name: name, PasswordHash: hash})
	}
	return ops, nil
}

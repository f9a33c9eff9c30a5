package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Addr         string        `env:"APP_ADDR" env-default:":8080"`
	DataDir      string        `env:"DATA_DIR" env-default:"data"`
	JWTSecret    string        `env:"JWT_SECRET" env-default:"dev_secret_change_me"`
	Environment  string        `env:"APP_ENV" env-default:"development"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" env-default:"168h"`
	MaxBodyBytes int64         `env:"MAX_BODY_BYTES" env-default:"1048576"`
}

func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if c.Environment == "production" && c.JWTSecret == "dev_secret_change_me" {
		return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	return nil
}

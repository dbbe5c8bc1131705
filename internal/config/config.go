// internal/config/config.go
//
// Typed server configuration read from the environment.
// main loads .env first (godotenv), then calls Load.

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every knob the server reads at startup.
type Config struct {
	Port           string        `env:"PORT" envDefault:"5175"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	ClientOrigin   string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	Env            string        `env:"NODE_ENV" envDefault:"development"`
	JWTSecret      string        `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	JWTExpiresDays int           `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string        `env:"COOKIE_NAME" envDefault:"mindreader_player"`
	LedgerDSN      string        `env:"LEDGER_DSN" envDefault:"file:mindreader?mode=memory&cache=shared"`
	DailySalt      string        `env:"DAILY_SALT" envDefault:"local_dev_salt"`
	IdleTimeout    time.Duration `env:"IDLE_TIMEOUT" envDefault:"2h"`
	SweepInterval  time.Duration `env:"SWEEP_INTERVAL" envDefault:"5m"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
}

// Production reports whether cookies should be Secure/SameSite=None.
func (c Config) Production() bool { return c.Env == "production" }

// Load parses the environment into a Config.
func Load() (Config, error) {
	var c Config
	if err := ParseEnv(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

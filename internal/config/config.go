// Package config loads server settings from the environment.
//
// A .env file in the working directory is loaded first (if present); real
// environment variables win over it.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/robalobadob/liquidsort/apps/go-server/internal/game"
)

// Config controls the HTTP server, storage, auth and level sizing.
type Config struct {
	Port      string `env:"PORT"      envDefault:"5175"`
	DBPath    string `env:"DB_PATH"   envDefault:"./data/liquidsort.db"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY"`

	JWTSecret      string `env:"JWT_SECRET"       envDefault:"dev_secret_change_me"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string `env:"COOKIE_NAME"      envDefault:"liquidsort_token"`
	ClientOrigin   string `env:"CLIENT_ORIGIN"    envDefault:"http://localhost:5173"`
	Production     bool   `env:"PRODUCTION"`

	PaletteFile string `env:"LIQUIDSORT_PALETTE_FILE"`

	DefaultFilled int `env:"DEFAULT_FILLED" envDefault:"4"`
	DefaultEmpty  int `env:"DEFAULT_EMPTY"  envDefault:"2"`
	Segments      int `env:"SEGMENTS"       envDefault:"4"`
	MaxBottles    int `env:"MAX_BOTTLES"    envDefault:"16"`

	DailySalt   string `env:"DAILY_SALT"   envDefault:"local_dev_salt"`
	DailyFilled int    `env:"DAILY_FILLED" envDefault:"7"`
	DailyEmpty  int    `env:"DAILY_EMPTY"  envDefault:"2"`
}

// Load reads .env (if any) and parses the environment into a Config.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse parses the current environment without touching .env files.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.DefaultParams().Validate(); err != nil {
		return Config{}, fmt.Errorf("default level: %w", err)
	}
	if err := cfg.DailyParams().Validate(); err != nil {
		return Config{}, fmt.Errorf("daily level: %w", err)
	}
	return cfg, nil
}

// DefaultParams sizes a regular level.
func (c Config) DefaultParams() game.Params {
	return game.Params{Filled: c.DefaultFilled, Empty: c.DefaultEmpty, Segments: c.Segments}
}

// DailyParams sizes the level of the day.
func (c Config) DailyParams() game.Params {
	return game.Params{Filled: c.DailyFilled, Empty: c.DailyEmpty, Segments: c.Segments}
}

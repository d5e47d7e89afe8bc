package internal

import (
	"fmt"
	"github.com/caarlos0/env/v11"
)

// Config is the environment configuration shared by the example programs.
type Config struct {
	AssetsDir   string  `env:"EARTHVIEW_ASSETS_DIR" envDefault:"assets"`
	ResInv      int     `env:"EARTHVIEW_RES_INV" envDefault:"2"`
	Watch       bool    `env:"EARTHVIEW_WATCH" envDefault:"false"`
	Title       string  `env:"EARTHVIEW_TITLE" envDefault:"Interactive earth"`
	SunDistance float64 `env:"EARTHVIEW_SUN_DISTANCE" envDefault:"60"`
}

// LoadConfig parses the configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

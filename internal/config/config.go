package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/virtualboard/board/internal/geometry"
)

type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`

	// Board seeding
	SeedItems  int    `envconfig:"SEED_ITEMS" default:"10000"`
	SeedRandom uint64 `envconfig:"SEED_RANDOM" default:"1"`

	// Viewport size assumed until the client reports its own
	DefaultViewportWidth  float64 `envconfig:"DEFAULT_VIEWPORT_WIDTH" default:"800"`
	DefaultViewportHeight float64 `envconfig:"DEFAULT_VIEWPORT_HEIGHT" default:"600"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.SeedItems < 0 {
		return nil, fmt.Errorf("SEED_ITEMS must not be negative, got %d", cfg.SeedItems)
	}
	return &cfg, nil
}

// Origins splits AllowedOrigins into its trimmed, non-empty entries.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// SlogLevel maps LogLevel onto a slog level. Unknown names mean info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (c *Config) ViewportSize() geometry.Size {
	return geometry.Size{Width: c.DefaultViewportWidth, Height: c.DefaultViewportHeight}
}

package meta

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Interval is a [Min, Max] range of seconds between AI polls.
type Interval struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Config is the runtime configuration of a match. Zero fields are filled from
// the defaults above.
type Config struct {
	LogLevel string `yaml:"log_level" env:"XIANGQI_LOG_LEVEL"`
	Seed     uint64 `yaml:"seed" env:"XIANGQI_SEED"`

	TickRate        int     `yaml:"tick_rate" env:"XIANGQI_TICK_RATE"`
	TransitSpeed    float64 `yaml:"transit_speed" env:"XIANGQI_TRANSIT_SPEED"`
	CollisionRadius float64 `yaml:"collision_radius" env:"XIANGQI_COLLISION_RADIUS"`

	MaxResource   float64 `yaml:"max_resource" env:"XIANGQI_MAX_RESOURCE"`
	StartResource float64 `yaml:"start_resource" env:"XIANGQI_START_RESOURCE"`
	RegenRate     float64 `yaml:"regen_rate" env:"XIANGQI_REGEN_RATE"`
	MoveCost      int     `yaml:"move_cost" env:"XIANGQI_MOVE_COST"`

	CannonScreen bool `yaml:"cannon_screen" env:"XIANGQI_CANNON_SCREEN"`
	ElephantEye  bool `yaml:"elephant_eye" env:"XIANGQI_ELEPHANT_EYE"`

	SearchDepth int `yaml:"search_depth" env:"XIANGQI_SEARCH_DEPTH"`
	Goroutines  int `yaml:"goroutines" env:"XIANGQI_GOROUTINES"`

	// Poll intervals keyed by difficulty name.
	Intervals map[string]Interval `yaml:"intervals"`

	MaxMatch time.Duration `yaml:"max_match" env:"XIANGQI_MAX_MATCH"`
	HTTPAddr string        `yaml:"http_addr" env:"XIANGQI_HTTP_ADDR"`
}

// DefaultIntervals are the AI poll ranges per difficulty.
var DefaultIntervals = map[string]Interval{
	"easy":     {Min: 2.0, Max: 4.0},
	"hard":     {Min: 1.0, Max: 2.5},
	"veryhard": {Min: 0.5, Max: 1.5},
}

// Default returns the configuration built from the package defaults.
func Default() Config {
	intervals := make(map[string]Interval, len(DefaultIntervals))
	for k, v := range DefaultIntervals {
		intervals[k] = v
	}
	return Config{
		LogLevel:        "info",
		TickRate:        TickRate,
		TransitSpeed:    TransitSpeed,
		CollisionRadius: CollisionRadius,
		MaxResource:     MaxResource,
		StartResource:   StartResource,
		RegenRate:       RegenRate,
		MoveCost:        MoveCost,
		SearchDepth:     SearchDepth,
		Goroutines:      Goroutines,
		Intervals:       intervals,
		MaxMatch:        MaxMatchSeconds * time.Second,
		HTTPAddr:        ":8080",
	}
}

// Load builds a Config from the defaults, then the YAML file at path (if path
// is not empty), then XIANGQI_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	switch {
	case c.TickRate <= 0:
		return fmt.Errorf("tick rate must be positive, got %d", c.TickRate)
	case c.TransitSpeed <= 0:
		return fmt.Errorf("transit speed must be positive, got %g", c.TransitSpeed)
	case c.CollisionRadius <= 0:
		return fmt.Errorf("collision radius must be positive, got %g", c.CollisionRadius)
	case c.MaxResource < 0 || c.RegenRate < 0 || c.MoveCost < 0:
		return fmt.Errorf("resource parameters must be non-negative")
	case c.SearchDepth < 1:
		return fmt.Errorf("search depth must be at least 1, got %d", c.SearchDepth)
	}
	for name, iv := range c.Intervals {
		if iv.Min <= 0 || iv.Max < iv.Min {
			return fmt.Errorf("interval %q must satisfy 0 < min <= max", name)
		}
	}
	return nil
}

// Interval returns the poll range for a difficulty, falling back to the default.
func (c Config) Interval(difficulty string) Interval {
	if iv, ok := c.Intervals[difficulty]; ok {
		return iv
	}
	return DefaultIntervals[difficulty]
}

// TickDuration is the wall-clock period of one tick.
func (c Config) TickDuration() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

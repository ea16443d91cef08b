// Package config loads the blockshape TOML configuration.
//
// Every section is optional; missing keys keep their defaults.
//
//	[engine]
//	timeout = "2s"
//
//	[log]
//	level = "debug"
//
//	[world]
//	min = [-64, -64, -64]
//	max = [63, 319, 63]
//
//	[preview]
//	palette = ["#4A90D9", "#E67E22"]
//	[preview.colors]
//	"minecraft:glass" = "#AADDFF"
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/chazu/blockshape/pkg/engine"
	"github.com/chazu/blockshape/pkg/geom"
	"github.com/chazu/blockshape/pkg/vec"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// ParseError is a TOML syntax or type error in a configuration file.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Duration is a time.Duration read from a TOML string such as "1500ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the full configuration.
type Config struct {
	Engine  Engine  `toml:"engine"`
	Log     Log     `toml:"log"`
	World   World   `toml:"world"`
	Preview Preview `toml:"preview"`
}

// Engine configures script evaluation.
type Engine struct {
	Timeout Duration `toml:"timeout"`
}

// Log configures the CLI logger.
type Log struct {
	Level string `toml:"level"`
}

// World limits where scripts may place blocks. Both corners are inclusive.
// Leaving both unset means unbounded.
type World struct {
	Min []int `toml:"min"`
	Max []int `toml:"max"`
}

// Preview configures mesh colours.
type Preview struct {
	Palette []string          `toml:"palette"`
	Colors  map[string]string `toml:"colors"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Engine: Engine{Timeout: Duration{engine.EvalTimeout}},
		Log:    Log{Level: "info"},
	}
}

// Load reads the file at path on top of the defaults. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes data on top of the defaults and validates the result.
// Unknown keys are rejected. path is only used in error messages.
func Parse(path string, data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		pe := &ParseError{Path: path, Err: err}
		var tpe toml.ParseError
		if errors.As(err, &tpe) {
			pe.Line = tpe.Position.Line
		}
		return Config{}, pe
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys %s: %w", path, strings.Join(keys, ", "), ErrInvalid)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Engine.Timeout.Duration <= 0 {
		return fmt.Errorf("engine.timeout must be positive, got %s: %w", c.Engine.Timeout.Duration, ErrInvalid)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if _, _, err := c.Bounds(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses the configured log level.
func (c Config) LogLevel() (log.Level, error) {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("log.level: %v: %w", err, ErrInvalid)
	}
	return lvl, nil
}

// Bounds returns the world limits as a box. ok is false when no limits are
// configured.
func (c Config) Bounds() (box geom.Box, ok bool, err error) {
	w := c.World
	if w.Min == nil && w.Max == nil {
		return geom.Box{}, false, nil
	}
	if len(w.Min) != 3 || len(w.Max) != 3 {
		return geom.Box{}, false, fmt.Errorf("world.min and world.max must both hold 3 integers: %w", ErrInvalid)
	}
	lo := vec.P(w.Min[0], w.Min[1], w.Min[2])
	hi := vec.P(w.Max[0], w.Max[1], w.Max[2])
	if hi.X < lo.X || hi.Y < lo.Y || hi.Z < lo.Z {
		return geom.Box{}, false, fmt.Errorf("world.max %v is below world.min %v: %w", hi, lo, ErrInvalid)
	}
	return geom.Between(lo, hi), true, nil
}

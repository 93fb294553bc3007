// Package config holds the timer's settings: defaults, optional TOML or YAML
// file, and validation. Command-line flags are applied on top by cmd/yolodoro.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/sweeney/yolodoro/internal/logic"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Notifier kinds.
const (
	NotifierDesktop = "desktop"
	NotifierNone    = "none"
)

// Default interval lengths in minutes.
const (
	DefaultLength     = 24
	DefaultShortPause = 5
	DefaultLongPause  = 20
)

// PinDisabled is the GPIO pin value that turns the work indicator off.
const PinDisabled = -1

// MQTT contains broker settings. An empty broker disables publishing.
type MQTT struct {
	Broker string `toml:"broker" yaml:"broker"`
}

// GPIO contains the work indicator line. A negative pin disables it.
type GPIO struct {
	Pin int `toml:"pin" yaml:"pin"`
}

// HTTP contains the status page listener. An empty address disables it.
type HTTP struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// Config encapsulates all configuration values for yolodoro.
type Config struct {
	Length        uint64 `toml:"length" yaml:"length"`
	ShortPause    uint64 `toml:"short_pause" yaml:"short_pause"`
	LongPause     uint64 `toml:"long_pause" yaml:"long_pause"`
	Notifier      string `toml:"notifier" yaml:"notifier"`
	WaitDismiss   bool   `toml:"wait_dismiss" yaml:"wait_dismiss"`
	AllowMultiple bool   `toml:"allow_multiple" yaml:"allow_multiple"`
	MQTT          MQTT   `toml:"mqtt" yaml:"mqtt"`
	GPIO          GPIO   `toml:"gpio" yaml:"gpio"`
	HTTP          HTTP   `toml:"http" yaml:"http"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Length:     DefaultLength,
		ShortPause: DefaultShortPause,
		LongPause:  DefaultLongPause,
		Notifier:   NotifierDesktop,
		GPIO:       GPIO{Pin: PinDisabled},
	}
}

// Load reads the file at path over the defaults and validates the result.
// An empty path returns the defaults. The format is chosen by extension:
// .toml, or .yaml/.yml.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	if err := decode(file, filepath.Ext(path), &cfg); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func decode(r io.Reader, ext string, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".toml":
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		// An empty document leaves the defaults.
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("parse config: %w", err)
		}
	default:
		return fmt.Errorf("%w: unsupported config format %q", ErrInvalid, ext)
	}
	return nil
}

// Validate checks values that cannot be expressed by the types alone.
func (c Config) Validate() error {
	switch c.Notifier {
	case NotifierDesktop, NotifierNone:
	default:
		return fmt.Errorf("%w: unknown notifier %q (want %q or %q)", ErrInvalid, c.Notifier, NotifierDesktop, NotifierNone)
	}
	if c.GPIO.Pin < PinDisabled {
		return fmt.Errorf("%w: gpio pin %d (use %d to disable)", ErrInvalid, c.GPIO.Pin, PinDisabled)
	}
	if c.MQTT.Broker != "" && !strings.Contains(c.MQTT.Broker, "://") {
		return fmt.Errorf("%w: mqtt broker %q needs a scheme such as tcp://", ErrInvalid, c.MQTT.Broker)
	}
	for _, m := range []struct {
		name  string
		value uint64
	}{
		{"length", c.Length},
		{"short_pause", c.ShortPause},
		{"long_pause", c.LongPause},
	} {
		if m.value > logic.MaxMinutes {
			return fmt.Errorf("%w: %s %d minutes exceeds %d", ErrInvalid, m.name, m.value, logic.MaxMinutes)
		}
	}
	if err := c.Durations().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Durations converts the minute settings for the scheduler.
func (c Config) Durations() logic.Durations {
	return logic.DurationsFromMinutes(c.Length, c.ShortPause, c.LongPause)
}

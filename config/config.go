// Package config holds the settings of the player. Defaults are embedded and
// can be overridden by a config.yml in the user configuration directory or
// by an explicitly given file.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/vsariola/pacer"
	"gopkg.in/yaml.v2"
	yaml3 "gopkg.in/yaml.v3"
)

type (
	Config struct {
		PPQN          int           `yaml:"ppqn"` // for files that do not set their own resolution
		SpeedAdjust   int           `yaml:"speedAdjust"`
		Speed         float64       `yaml:"speed"`
		TickInterval  time.Duration `yaml:"tickInterval"`
		ActiveChannel int           `yaml:"activeChannel"`
		Hand          string        `yaml:"hand"`
		LowWater      LowWater      `yaml:"lowWater"`
		Queues        Queues        `yaml:"queues"`
		LogLevel      string        `yaml:"logLevel"`
		// MIDIOut is the name prefix of the output port; empty opens the
		// first port found.
		MIDIOut string `yaml:"midiOut"`
	}

	LowWater struct {
		Playback int `yaml:"playback"`
		Chord    int `yaml:"chord"`
		Score    int `yaml:"score"`
	}

	Queues struct {
		Playback int `yaml:"playback"`
		Chords   int `yaml:"chords"`
		Score    int `yaml:"score"`
	}
)

// FileName is the name of the override file in the user config directory.
const FileName = "config.yml"

var (
	// ErrUnknownField wraps decoding failures of override files, which are
	// decoded strictly.
	ErrUnknownField = errors.New("invalid config field")
	ErrInvalidValue = errors.New("invalid config value")
)

//go:embed config.yml
var defaultConfigYaml []byte

// Default returns the embedded defaults.
func Default() Config {
	var c Config
	if err := yaml.UnmarshalStrict(defaultConfigYaml, &c); err != nil {
		panic(fmt.Errorf("failed to unmarshal default config: %w", err))
	}
	return c
}

// UserPath returns the path of the override file in the user config
// directory.
func UserPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "pacer", FileName), nil
}

// Load returns the defaults overridden by the file at path. With an empty
// path the user config file is used if it exists.
func Load(path string) (Config, error) {
	c := Default()
	explicit := path != ""
	if !explicit {
		p, err := UserPath()
		if err != nil {
			return c, nil
		}
		path = p
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, fmt.Errorf("could not read config %v: %w", path, err)
	}
	if err := c.Merge(bytes.NewReader(b)); err != nil {
		return Default(), fmt.Errorf("%v: %w", path, err)
	}
	return c, nil
}

// Merge overrides the fields present in r. Unknown fields are errors.
func (c *Config) Merge(r io.Reader) error {
	dec := yaml3.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", ErrUnknownField, err)
	}
	return c.Validate()
}

// Validate checks the values that cannot be clamped sensibly.
func (c *Config) Validate() error {
	if c.PPQN <= 0 {
		return fmt.Errorf("%w: ppqn must be positive, got %d", ErrInvalidValue, c.PPQN)
	}
	if c.SpeedAdjust <= 0 {
		return fmt.Errorf("%w: speedAdjust must be positive, got %d", ErrInvalidValue, c.SpeedAdjust)
	}
	if c.Speed <= 0 {
		return fmt.Errorf("%w: speed must be positive, got %v", ErrInvalidValue, c.Speed)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("%w: tickInterval must be positive, got %v", ErrInvalidValue, c.TickInterval)
	}
	if _, err := pacer.ParseHand(c.Hand); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return nil
}

// ParsedHand returns the configured hand; Validate has already checked it.
func (c *Config) ParsedHand() pacer.Hand {
	h, _ := pacer.ParseHand(c.Hand)
	return h
}

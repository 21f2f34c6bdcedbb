// Package config loads runtime settings from defaults, a YAML file, an optional
// .env file and STARFIELD_* environment variables, in that order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/starfield/parameter"
	"github.com/lixenwraith/starfield/starfield"
)

// ErrInvalid is wrapped by every validation and override parse failure
var ErrInvalid = errors.New("invalid config")

// Color mode names accepted by terminal.color
const (
	ColorAuto      = "auto"
	ColorTrueColor = "truecolor"
	Color256       = "256"
)

// DefaultPath is the config file read when no --config flag is given
const DefaultPath = "starfield.yaml"

// DefaultEnvFile is the dotenv file consulted by Load
const DefaultEnvFile = ".env"

type Config struct {
	Animation starfield.Config `yaml:"animation"`
	Terminal  TerminalConfig   `yaml:"terminal"`
	Audio     AudioConfig      `yaml:"audio"`
	Log       LogConfig        `yaml:"log"`
}

type TerminalConfig struct {
	FPS        int     `yaml:"fps"`
	Color      string  `yaml:"color"`
	CellWidth  float64 `yaml:"cell_width"`
	CellHeight float64 `yaml:"cell_height"`
	// PixelRatio is the device pixel ratio reported to the animator
	PixelRatio float64 `yaml:"pixel_ratio"`
	// Pointer enables mouse tracking and the cursor follower
	Pointer bool `yaml:"pointer"`
	// HUD shows the status line at the bottom row
	HUD bool `yaml:"hud"`
}

type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"`
}

type LogConfig struct {
	Debug bool   `yaml:"debug"`
	Dir   string `yaml:"dir"`
}

// Default returns a valid configuration
func Default() Config {
	return Config{
		Animation: starfield.DefaultConfig(),
		Terminal: TerminalConfig{
			FPS:        parameter.FrameRate,
			Color:      ColorAuto,
			CellWidth:  parameter.CellWidth,
			CellHeight: parameter.CellHeight,
			PixelRatio: parameter.TerminalPixelRatio,
			Pointer:    true,
		},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  parameter.AudioDefaultVolume,
		},
		Log: LogConfig{
			Dir: parameter.LogDir,
		},
	}
}

// Load builds a Config from defaults, the YAML file at path and the environment
// A missing file is not an error; envFiles default to DefaultEnvFile and may be absent too
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := decode(data, &cfg); err != nil {
				return cfg, err
			}
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}
	dotenv, err := readEnvFiles(envFiles)
	if err != nil {
		return cfg, err
	}

	// Process environment wins over .env, matching godotenv.Load semantics
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := applyEnvOverrides(&cfg, lookup); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: failed to parse config: %w", ErrInvalid, err)
	}
	return nil
}

func readEnvFiles(files []string) (map[string]string, error) {
	merged := make(map[string]string)
	for _, f := range files {
		m, err := godotenv.Read(f)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to read env file %s: %w", f, err)
		}
		// Earlier files take precedence
		for k, v := range m {
			if _, ok := merged[k]; !ok {
				merged[k] = v
			}
		}
	}
	return merged, nil
}

// Marshal renders cfg as YAML
func Marshal(cfg Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Validate checks terminal, audio and animation settings
func (c Config) Validate() error {
	t := c.Terminal
	if t.FPS <= 0 || t.FPS > parameter.MaxFrameRate {
		return fmt.Errorf("%w: terminal.fps %d outside (0,%d]", ErrInvalid, t.FPS, parameter.MaxFrameRate)
	}
	switch t.Color {
	case ColorAuto, ColorTrueColor, Color256:
	default:
		return fmt.Errorf("%w: terminal.color %q not one of auto, truecolor, 256", ErrInvalid, t.Color)
	}
	if !(t.CellWidth > 0) || !(t.CellHeight > 0) {
		return fmt.Errorf("%w: terminal cell metrics must be positive", ErrInvalid)
	}
	if !(t.PixelRatio > 0) {
		return fmt.Errorf("%w: terminal.pixel_ratio must be positive", ErrInvalid)
	}
	if !(c.Audio.Volume >= 0 && c.Audio.Volume <= 1) {
		return fmt.Errorf("%w: audio.volume %v outside [0,1]", ErrInvalid, c.Audio.Volume)
	}
	if err := c.Animation.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the host render settings. Engine timing constants live in
// the timeline package and are not configurable.
type Config struct {
	ScriptPath      string  `yaml:"script"`
	AudioPath       string  `yaml:"audio"`
	OutputVideo     string  `yaml:"output"`
	DurationSeconds float64 `yaml:"duration"` // used only when no audio can be measured
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	FPS             int     `yaml:"fps"`
	Workers         int     `yaml:"workers"` // 0 sizes the pool from CPU and memory
	Debug           bool    `yaml:"debug"`
	VideoEncoder    string  `yaml:"encoder"`
	Quality         int     `yaml:"quality"` // 0 picks the encoder default
	ShowStats       bool    `yaml:"show_stats"`

	ScriptsDir string `yaml:"scripts_dir"`
	AudioDir   string `yaml:"audio_dir"`
	OutputDir  string `yaml:"output_dir"`

	BuildVersion string `yaml:"-"`
}

// Default returns the settings of a 1080x1920 vertical video at 30 fps.
func Default() *Config {
	return &Config{
		Width:      1080,
		Height:     1920,
		FPS:        30,
		ScriptsDir: "input/scripts",
		AudioDir:   "input/audio",
		OutputDir:  "output",
	}
}

// Load builds the config from defaults, an optional YAML file, .env files
// and the environment, in that order of increasing precedence.
// Without envFiles a .env in the working directory is read if present.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "decode config %s", path)
		}
	}

	if len(envFiles) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			envFiles = []string{".env"}
		}
	}
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, errors.Wrap(err, "load env file")
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv applies DEBUG, RENDER_WORKERS and RENDER_FPS overrides.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("DEBUG"); ok {
		c.Debug = strings.EqualFold(strings.TrimSpace(v), "true")
	}
	if v, ok := lookup("RENDER_WORKERS"); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrap(err, "RENDER_WORKERS")
		}
		c.Workers = n
	}
	if v, ok := lookup("RENDER_FPS"); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrap(err, "RENDER_FPS")
		}
		c.FPS = n
	}
	return nil
}

// Validate checks the settings the renderer depends on.
func (c *Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return errors.Errorf("invalid frame size %dx%d", c.Width, c.Height)
	case c.Width%2 != 0 || c.Height%2 != 0:
		return errors.Errorf("frame size %dx%d must be even for yuv420p", c.Width, c.Height)
	case c.FPS <= 0:
		return errors.Errorf("invalid fps %d", c.FPS)
	case c.Workers < 0:
		return errors.Errorf("invalid worker count %d", c.Workers)
	case c.DurationSeconds < 0:
		return errors.Errorf("invalid duration %v", c.DurationSeconds)
	}
	return nil
}

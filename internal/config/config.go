package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

const (
	WindowWidth  = 1024
	WindowHeight = 512

	VisualRingSize = 8192

	// Button dimensions
	ButtonWidth  = 96
	ButtonHeight = 32
	ButtonX      = 20
	ButtonY      = 40
	ButtonGap    = 8

	// Scene parameters
	RingRadius  = 300
	TubeRadius  = 2
	CameraStep  = 10
	CameraStart = 500
	OrbitRadius = 500
	OrbitSpeed  = 0.5

	// Analyser smoothing time constant
	Smoothing = 0.8

	appDir = "ring-visualization"
)

// CameraMode selects how the camera pose is driven.
type CameraMode string

const (
	CameraFixed CameraMode = "fixed"
	CameraOrbit CameraMode = "orbit"
)

// Preset is a named analysis resolution.
type Preset string

const (
	PresetBass   Preset = "bass"
	PresetMid    Preset = "mid"
	PresetTreble Preset = "treble"
)

// Presets lists the resolution presets in ascending bin count.
var Presets = []Preset{PresetBass, PresetMid, PresetTreble}

// FFTSize returns the analyser window length for the preset.
func (p Preset) FFTSize() int {
	switch p {
	case PresetBass:
		return 512
	case PresetMid:
		return 1024
	case PresetTreble:
		return 2048
	}
	return 0
}

// Bins returns the number of frequency bins the preset produces.
func (p Preset) Bins() int { return p.FFTSize() / 2 }

// ParsePreset maps a preset name to a Preset.
func ParsePreset(s string) (Preset, error) {
	for _, p := range Presets {
		if string(p) == s {
			return p, nil
		}
	}
	return "", errors.Errorf("unknown preset %q", s)
}

// Config is the configuration record for one visualizer instance.
type Config struct {
	Camera               CameraMode `json:"camera"`
	Divisor              float64    `json:"divisor"`
	TorusRadius          float64    `json:"torusRadius"`
	TubeRadius           float64    `json:"tubeRadius"`
	RingRadius           float64    `json:"ringRadius"`
	Preset               Preset     `json:"preset"`
	Smoothing            float64    `json:"smoothing"`
	LightFollowsSpectrum bool       `json:"lightFollowsSpectrum"`
	OrbitRadius          float64    `json:"orbitRadius"`
	OrbitSpeed           float64    `json:"orbitSpeed"`
	CameraStep           float64    `json:"cameraStep"`
	CameraStart          [3]float64 `json:"cameraStart"`
	Width                int        `json:"width"`
	Height               int        `json:"height"`

	Debug bool   `json:"-"`
	File  string `json:"-"`
}

// Keyboard returns the variant with a fixed, keyboard-stepped camera.
func Keyboard() *Config {
	c := base()
	c.Camera = CameraFixed
	c.Divisor = 12
	c.TorusRadius = 5
	return c
}

// Orbit returns the variant with the automatically orbiting camera.
func Orbit() *Config {
	c := base()
	c.Camera = CameraOrbit
	c.Divisor = 8
	c.TorusRadius = 7
	return c
}

// Variant returns the named configuration variant.
func Variant(name string) (*Config, error) {
	switch name {
	case "keyboard":
		return Keyboard(), nil
	case "orbit":
		return Orbit(), nil
	}
	return nil, errors.Errorf("unknown variant %q", name)
}

func base() *Config {
	return &Config{
		TubeRadius:           TubeRadius,
		RingRadius:           RingRadius,
		Preset:               PresetTreble,
		Smoothing:            Smoothing,
		LightFollowsSpectrum: true,
		OrbitRadius:          OrbitRadius,
		OrbitSpeed:           OrbitSpeed,
		CameraStep:           CameraStep,
		CameraStart:          [3]float64{0, 0, CameraStart},
		Width:                WindowWidth,
		Height:               WindowHeight,
	}
}

// Validate rejects values the frame updater cannot work with.
func (c *Config) Validate() error {
	switch c.Camera {
	case CameraFixed, CameraOrbit:
	default:
		return errors.Errorf("unknown camera mode %q", c.Camera)
	}
	if _, err := ParsePreset(string(c.Preset)); err != nil {
		return err
	}
	if c.Divisor <= 0 {
		return errors.Errorf("divisor must be positive, got %v", c.Divisor)
	}
	if c.Smoothing < 0 || c.Smoothing >= 1 {
		return errors.Errorf("smoothing must be in [0, 1), got %v", c.Smoothing)
	}
	if c.TorusRadius <= 0 || c.TubeRadius <= 0 || c.RingRadius <= 0 {
		return errors.New("torus, tube and ring radius must be positive")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Errorf("invalid window size %dx%d", c.Width, c.Height)
	}
	return nil
}

// Dir returns the config directory path
func Dir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appDir), nil
}

// Path returns the full path to config.json
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFrom reads the config at path on top of def. A missing file yields def.
func LoadFrom(path string, def *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return def, nil
		}
		return nil, errors.Wrap(err, "read config")
	}

	cfg := *def
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return &cfg, nil
}

// Load reads the user's config, or returns def if there is none.
func Load(def *Config) (*Config, error) {
	path, err := Path()
	if err != nil {
		return def, nil
	}
	return LoadFrom(path, def)
}

// SaveTo writes the config to path, creating its directory.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

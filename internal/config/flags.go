package config

import (
	"flag"
	"io"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

// Loader supplies the persisted config layered under command-line flags.
type Loader func(def *Config) (*Config, error)

// ParseFlags builds a Config from a variant, the persisted config and args.
// Flags given explicitly win over the file; -variant given explicitly skips the file.
func ParseFlags(args []string, load Loader, output io.Writer) (*Config, error) {
	fs := flag.NewFlagSet("ring-visualization", flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}

	variant := fs.String("variant", "keyboard", "configuration variant: keyboard or orbit")
	camera := fs.String("camera", "", "camera mode: fixed or orbit")
	divisor := fs.Float64("divisor", 0, "sensitivity divisor applied to bin amplitudes")
	torus := fs.Float64("torus-radius", 0, "primary radius of each torus")
	preset := fs.String("preset", "", "analysis resolution: bass, mid or treble")
	smoothing := fs.Float64("smoothing", Smoothing, "analyser smoothing time constant in [0, 1)")
	light := fs.Bool("light", true, "tint the point light from the mean spectrum")
	debugLog := fs.Bool("debug", false, "write a debug log next to the config file")
	file := fs.String("file", "", "audio file to play on start")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	def, err := Variant(*variant)
	if err != nil {
		return nil, err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg := def
	if !set["variant"] && load != nil {
		if cfg, err = load(def); err != nil {
			return nil, err
		}
	}

	if set["camera"] {
		cfg.Camera = CameraMode(*camera)
	}
	if set["divisor"] {
		cfg.Divisor = *divisor
	}
	if set["torus-radius"] {
		cfg.TorusRadius = *torus
	}
	if set["preset"] {
		cfg.Preset = Preset(*preset)
	}
	if set["smoothing"] {
		cfg.Smoothing = *smoothing
	}
	if set["light"] {
		cfg.LightFollowsSpectrum = *light
	}
	cfg.Debug = *debugLog
	if cfg.File, err = homedir.Expand(*file); err != nil {
		return nil, errors.Wrap(err, "audio file")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

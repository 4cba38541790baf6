package visual

import (
	"github.com/pkg/errors"

	"github.com/iburimskiy/ring-visualization/internal/config"
)

// Resolution is the analyser side of a resolution switch.
type Resolution interface {
	Configure(fftSize int) error
	BinCount() int
}

// Resolver applies resolution presets to an analyser and the bar registry.
type Resolver struct {
	analyser Resolution
	registry *Registry
	current  config.Preset
}

func NewResolver(analyser Resolution, registry *Registry) *Resolver {
	return &Resolver{analyser: analyser, registry: registry}
}

// Switch reconfigures the analyser for p and rebuilds every bar for the new
// bin count. On error the registry is left as it was.
func (r *Resolver) Switch(p config.Preset) error {
	size := p.FFTSize()
	if size == 0 {
		return errors.Errorf("unknown preset %q", p)
	}
	if err := r.analyser.Configure(size); err != nil {
		return errors.Wrapf(err, "switch to %s", p)
	}
	r.registry.Build(r.analyser.BinCount())
	r.current = p
	return nil
}

func (r *Resolver) Current() config.Preset { return r.current }

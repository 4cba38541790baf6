package transport

import (
	"github.com/pkg/errors"

	"github.com/iburimskiy/ring-visualization/internal/config"
	"github.com/iburimskiy/ring-visualization/internal/spectrum"
)

type micStream interface {
	Start() error
	Stop() error
	Close() error
	Ring() *spectrum.Ring
}

var openMicrophone = func(ring *spectrum.Ring) (micStream, error) {
	m, err := spectrum.OpenMicrophone(ring)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Capture is a running microphone input.
type Capture struct {
	mic micStream
}

// CaptureMicrophone opens and starts the default input device. It blocks
// while the system negotiates access and may run off the render thread.
func CaptureMicrophone() (*Capture, error) {
	mic, err := openMicrophone(spectrum.NewRing(config.VisualRingSize))
	if err != nil {
		return nil, errors.Wrapf(ErrPermissionDenied, "%v", err)
	}
	if err := mic.Start(); err != nil {
		_ = mic.Close()
		return nil, errors.Wrapf(ErrPermissionDenied, "%v", err)
	}
	return &Capture{mic: mic}, nil
}

func (c *Capture) Close() error {
	_ = c.mic.Stop()
	return c.mic.Close()
}

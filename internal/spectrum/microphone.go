package spectrum

import (
	"github.com/gordonklaus/portaudio"
	"github.com/pkg/errors"
)

const (
	MicSampleRate      = 44100
	MicFramesPerBuffer = 1024
)

// Microphone captures the default input device into a Ring.
type Microphone struct {
	ring   *Ring
	stream *portaudio.Stream
}

// OpenMicrophone initializes portaudio and opens a mono input stream on the
// default device. The stream is not started.
func OpenMicrophone(ring *Ring) (*Microphone, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, errors.Wrap(err, "initialize portaudio")
	}

	m := &Microphone{ring: ring}
	stream, err := portaudio.OpenDefaultStream(1, 0, MicSampleRate, MicFramesPerBuffer, m.capture)
	if err != nil {
		portaudio.Terminate()
		return nil, errors.Wrap(err, "open input stream")
	}
	m.stream = stream
	return m, nil
}

func (m *Microphone) capture(in []float32) {
	m.ring.WriteFloat32(in)
}

func (m *Microphone) Start() error { return m.stream.Start() }

func (m *Microphone) Stop() error { return m.stream.Stop() }

// Close stops capture and releases portaudio.
func (m *Microphone) Close() error {
	err := m.stream.Close()
	portaudio.Terminate()
	return err
}

// Ring returns the buffer the microphone records into.
func (m *Microphone) Ring() *Ring { return m.ring }

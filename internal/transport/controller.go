package transport

import (
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/pkg/errors"

	"github.com/iburimskiy/ring-visualization/internal/config"
	"github.com/iburimskiy/ring-visualization/internal/debug"
	"github.com/iburimskiy/ring-visualization/internal/spectrum"
)

// SampleRate is the rate the speaker runs at; tracks are resampled to it.
const SampleRate beep.SampleRate = 44100

// Output is the audio device the controller plays through.
type Output interface {
	Init(sr beep.SampleRate, bufferSize int) error
	Play(s ...beep.Streamer)
	Clear()
	Lock()
	Unlock()
}

type speakerOutput struct{}

// Speaker returns the system speaker from beep.
func Speaker() Output { return speakerOutput{} }

func (speakerOutput) Init(sr beep.SampleRate, bufferSize int) error {
	return speaker.Init(sr, bufferSize)
}
func (speakerOutput) Play(s ...beep.Streamer) { speaker.Play(s...) }
func (speakerOutput) Clear() { speaker.Clear() }
func (speakerOutput) Lock() { speaker.Lock() }
func (speakerOutput) Unlock() { speaker.Unlock() }

// Kind is the type of the active audio source.
type Kind int

const (
	KindNone Kind = iota
	KindFile
	KindMicrophone
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindMicrophone:
		return "microphone"
	}
	return "none"
}

// Controller owns the audio graph: one file or microphone source at a time.
// Its methods are called from the render thread only.
type Controller struct {
	out      Output
	initDone bool

	track    *Track
	lastPath string
	ctrl     *beep.Ctrl
	tap      *spectrum.Tap

	capture *Capture

	paused bool
	gen    uint64
	ended  chan uint64
}

func New(out Output) *Controller {
	return &Controller{
		out:   out,
		ended: make(chan uint64, 1),
	}
}

// PlayTrack stops the current source and starts playing t.
func (c *Controller) PlayTrack(t *Track) error {
	if !c.initDone {
		if err := c.out.Init(SampleRate, SampleRate.N(time.Second/20)); err != nil {
			_ = t.Close()
			return errors.Wrap(err, "initialize speaker")
		}
		c.initDone = true
	}
	c.Stop()

	var src beep.Streamer = t.Streamer
	if t.Format.SampleRate != SampleRate {
		src = beep.Resample(4, t.Format.SampleRate, SampleRate, src)
	}

	// Prepare audio chain: decoder -> tap -> ctrl -> speaker
	tap := spectrum.NewTap(src, spectrum.NewRing(config.VisualRingSize))
	ctrl := &beep.Ctrl{Streamer: tap}

	c.gen++
	gen := c.gen
	c.track = t
	c.lastPath = t.Path
	c.tap = tap
	c.ctrl = ctrl
	c.paused = false

	c.out.Play(beep.Seq(ctrl, beep.Callback(func() {
		select {
		case c.ended <- gen:
		default:
		}
	})))
	debug.Log("transport", "playing %s (%v, %d Hz)", t.Path, t.Duration(), t.Format.SampleRate)
	return nil
}

// UseCapture stops the current source and switches to live microphone input.
func (c *Controller) UseCapture(cp *Capture) {
	c.Stop()
	c.gen++
	c.capture = cp
	c.paused = false
	debug.Log("transport", "microphone capture started")
}

// Start resumes a paused source. With nothing loaded it returns the last
// chosen file for the caller to decode again, or ErrNoInput.
func (c *Controller) Start() (reload string, err error) {
	if c.Kind() != KindNone {
		if c.paused {
			c.TogglePause()
		}
		return "", nil
	}
	if c.lastPath == "" {
		return "", ErrNoInput
	}
	return c.lastPath, nil
}

// TogglePause suspends or resumes the active source and reports the new state.
func (c *Controller) TogglePause() bool {
	switch c.Kind() {
	case KindFile:
		c.out.Lock()
		c.paused = !c.paused
		c.ctrl.Paused = c.paused
		c.out.Unlock()
	case KindMicrophone:
		var err error
		if c.paused {
			// drop audio captured before the pause
			c.capture.mic.Ring().Reset()
			err = c.capture.mic.Start()
		} else {
			err = c.capture.mic.Stop()
		}
		if err != nil {
			debug.Log("transport", "microphone pause toggle: %v", err)
			return c.paused
		}
		c.paused = !c.paused
	default:
		return false
	}
	debug.Log("transport", "paused=%v", c.paused)
	return c.paused
}

func (c *Controller) Paused() bool { return c.paused }

func (c *Controller) Kind() Kind {
	switch {
	case c.track != nil:
		return KindFile
	case c.capture != nil:
		return KindMicrophone
	}
	return KindNone
}

// Source is what the analyser should read, or nil with nothing playing.
func (c *Controller) Source() spectrum.Source {
	switch {
	case c.tap != nil:
		return c.tap.Ring()
	case c.capture != nil:
		return c.capture.mic.Ring()
	}
	return nil
}

// Ended reports, once, that the current track played to the end.
func (c *Controller) Ended() bool {
	select {
	case gen := <-c.ended:
		return gen == c.gen && c.track != nil
	default:
		return false
	}
}

// Position is the playback position of the current track.
func (c *Controller) Position() time.Duration {
	if c.track == nil {
		return 0
	}
	c.out.Lock()
	pos := c.track.Streamer.Position()
	c.out.Unlock()
	return c.track.Format.SampleRate.D(pos)
}

// Duration is the length of the current track.
func (c *Controller) Duration() time.Duration {
	if c.track == nil {
		return 0
	}
	return c.track.Duration()
}

// Seek moves the current track to frac of its length and forgets the
// samples recorded before the jump.
func (c *Controller) Seek(frac float64) error {
	if c.track == nil {
		return nil
	}
	s := c.track.Streamer
	pos := int(min(max(frac, 0), 1) * float64(s.Len()))
	if pos >= s.Len() {
		pos = s.Len() - 1
	}
	if pos < 0 {
		pos = 0
	}

	c.out.Lock()
	err := s.Seek(pos)
	if err == nil {
		c.tap.Ring().Reset()
	}
	c.out.Unlock()
	return errors.Wrap(err, "seek")
}

// Stop silences and releases the active source.
func (c *Controller) Stop() {
	c.out.Clear()
	if c.track != nil {
		_ = c.track.Close()
		c.track = nil
	}
	if c.capture != nil {
		_ = c.capture.Close()
		c.capture = nil
	}
	c.tap = nil
	c.ctrl = nil
	c.paused = false
}

// Close stops everything.
func (c *Controller) Close() { c.Stop() }

package spectrum

import (
	"github.com/faiface/beep"
)

// Tap wraps a beep.Streamer and records a mono mix of everything it plays
// into a Ring, so the analyser sees the audio the speaker is playing.
type Tap struct {
	Source beep.Streamer
	ring   *Ring
}

func NewTap(src beep.Streamer, ring *Ring) *Tap {
	return &Tap{Source: src, ring: ring}
}

func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n > 0 {
		t.ring.mu.Lock()
		for i := 0; i < n; i++ {
			t.ring.put((samples[i][0] + samples[i][1]) * 0.5)
		}
		t.ring.mu.Unlock()
	}
	return n, ok
}

func (t *Tap) Err() error { return t.Source.Err() }

// Ring returns the buffer the tap records into.
func (t *Tap) Ring() *Ring { return t.ring }

package spectrum

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
	"github.com/pkg/errors"
)

const (
	MinFFTSize = 32
	MaxFFTSize = 32768

	DefaultSmoothing = 0.8
	MinDecibels      = -100.0
	MaxDecibels      = -30.0
)

// Analyser turns the latest time-domain samples of a Source into byte
// magnitudes, one per frequency bin, once per call to ReadInto.
type Analyser struct {
	fftSize   int
	smoothing float64
	source    Source

	samples []float64
	win     []float64
	smooth  []float64
}

// NewAnalyser returns an analyser configured for fftSize.
func NewAnalyser(fftSize int) (*Analyser, error) {
	a := &Analyser{smoothing: DefaultSmoothing}
	if err := a.Configure(fftSize); err != nil {
		return nil, err
	}
	return a, nil
}

// Configure sets the analysis window length and resets smoothing history.
// fftSize must be a power of two in [MinFFTSize, MaxFFTSize].
func (a *Analyser) Configure(fftSize int) error {
	if fftSize < MinFFTSize || fftSize > MaxFFTSize || fftSize&(fftSize-1) != 0 {
		return errors.Errorf("fft size %d is not a power of two in [%d, %d]", fftSize, MinFFTSize, MaxFFTSize)
	}
	a.fftSize = fftSize
	a.samples = make([]float64, fftSize)
	a.win = window.Blackman(fftSize)
	a.smooth = make([]float64, fftSize/2)
	return nil
}

// Attach selects the audio the analyser reads. A nil source reads as silence.
func (a *Analyser) Attach(src Source) {
	a.source = src
	for i := range a.smooth {
		a.smooth[i] = 0
	}
}

// SetSmoothing sets the time constant in [0, 1) blending each frame with the last.
func (a *Analyser) SetSmoothing(tau float64) {
	a.smoothing = math.Max(0, math.Min(tau, 0.999))
}

func (a *Analyser) FFTSize() int { return a.fftSize }

// BinCount is the number of values ReadInto produces.
func (a *Analyser) BinCount() int { return a.fftSize / 2 }

// ReadInto writes min(len(dst), BinCount()) byte magnitudes into dst and
// returns how many were written.
func (a *Analyser) ReadInto(dst []uint8) int {
	n := len(dst)
	if n > len(a.smooth) {
		n = len(a.smooth)
	}

	if a.source == nil {
		for i := 0; i < n; i++ {
			dst[i] = 0
		}
		return n
	}

	a.source.Latest(a.samples)
	for i, w := range a.win {
		a.samples[i] *= w
	}
	spectrum := fft.FFTReal(a.samples)

	scale := 1 / float64(a.fftSize)
	for k := range a.smooth {
		mag := cmplx.Abs(spectrum[k]) * scale
		a.smooth[k] = a.smoothing*a.smooth[k] + (1-a.smoothing)*mag
	}
	for i := 0; i < n; i++ {
		dst[i] = toByte(a.smooth[i])
	}
	return n
}

func toByte(mag float64) uint8 {
	if mag <= 0 {
		return 0
	}
	db := 20 * math.Log10(mag)
	v := math.Floor(255 / (MaxDecibels - MinDecibels) * (db - MinDecibels))
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

package visual

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Bar is the torus standing for one frequency bin.
type Bar struct {
	Index    int
	Angle    float64
	Position mgl64.Vec3
	// Yaw turns the torus to face away from the ring centre.
	Yaw    float64
	ScaleY float64
	Hue    float64
	Color  colorful.Color
}

var initialColor = colorful.Color{R: 1}

// Registry holds one bar per bin, evenly spaced on a ring of fixed radius.
type Registry struct {
	radius float64
	bars   []Bar
}

func NewRegistry(radius float64) *Registry {
	return &Registry{radius: radius}
}

// Build discards any existing bars and lays out exactly n new ones.
func (r *Registry) Build(n int) {
	if n <= 0 {
		r.bars = nil
		return
	}

	bars := make([]Bar, n)
	step := 2 * math.Pi / float64(n)
	for i := range bars {
		angle := step * float64(i)
		bars[i] = Bar{
			Index:    i,
			Angle:    angle,
			Position: mgl64.Vec3{r.radius * math.Cos(angle), 0, r.radius * math.Sin(angle)},
			Yaw:      -angle,
			ScaleY:   1,
			Color:    initialColor,
		}
	}
	r.bars = bars
}

func (r *Registry) Len() int { return len(r.bars) }

// Bars exposes the bars for in-place updates and drawing.
func (r *Registry) Bars() []Bar { return r.bars }

package visual

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Hue wraps x cyclically into [0, 1).
func Hue(x float64) float64 {
	h := math.Mod(x, 1)
	if h < 0 {
		h++
	}
	if h >= 1 {
		h = 0
	}
	return h
}

// HSL returns the colour at hue h (turns), full saturation and mid lightness.
func HSL(h float64) colorful.Color {
	return colorful.Hsl(Hue(h)*360, 1, 0.5)
}

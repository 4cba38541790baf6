package visual

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/ring-visualization/internal/config"
)

// Light is the point light tinted by the mean spectrum.
type Light struct {
	Hue   float64
	Color colorful.Color
}

var white = colorful.Color{R: 1, G: 1, B: 1}

// Scene is everything one visualizer instance draws.
type Scene struct {
	Registry *Registry
	Light    Light
	Camera   Camera
}

// NewScene builds an empty scene with the camera at its configured start.
func NewScene(cfg *config.Config) *Scene {
	s := &Scene{
		Registry: NewRegistry(cfg.RingRadius),
		Light:    Light{Color: white},
	}
	s.Camera.Position = mgl64.Vec3(cfg.CameraStart)
	s.Camera.LookAt(mgl64.Vec3{})
	return s
}

// Updater maps one frame of bin magnitudes onto the scene.
type Updater struct {
	cfg *config.Config
}

func NewUpdater(cfg *config.Config) *Updater {
	return &Updater{cfg: cfg}
}

// Scale returns the bar height for a sample: max(s/D, 1).
func (u *Updater) Scale(sample uint8) float64 {
	raw := float64(sample) / u.cfg.Divisor
	if raw < 1 {
		return 1
	}
	return raw
}

// Update applies samples to the scene's bars and light. A registry whose
// length differs from len(samples) is rebuilt first.
func (u *Updater) Update(s *Scene, samples []uint8) {
	if s.Registry.Len() != len(samples) {
		s.Registry.Build(len(samples))
	}

	bars := s.Registry.Bars()
	var sum int
	for i, v := range samples {
		b := &bars[i]
		b.ScaleY = u.Scale(v)
		b.Hue = Hue(float64(v) / u.cfg.Divisor / 3)
		b.Color = colorful.Hsl(b.Hue*360, 1, 0.5)
		sum += int(v)
	}

	if !u.cfg.LightFollowsSpectrum {
		s.Light = Light{Color: white}
		return
	}
	if len(samples) == 0 {
		return
	}
	mean := float64(sum) / float64(len(samples))
	s.Light.Hue = Hue(mean / 256)
	s.Light.Color = colorful.Hsl(s.Light.Hue*360, 1, 0.5)
}

// Animate moves the camera along its orbit when the camera is orbiting.
func (u *Updater) Animate(s *Scene, elapsed time.Duration) {
	if u.cfg.Camera != config.CameraOrbit {
		return
	}
	s.Camera.Orbit(elapsed.Seconds(), u.cfg.OrbitRadius, u.cfg.OrbitSpeed)
}

// Step applies a keyboard camera step when the camera is fixed.
func (u *Updater) Step(s *Scene, d Direction) {
	if u.cfg.Camera != config.CameraFixed {
		return
	}
	s.Camera.Step(d, u.cfg.CameraStep)
}

package visual

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Direction is a discrete keyboard camera step.
type Direction int

const (
	Forward Direction = iota // W: toward the scene, z decreases
	Back                     // S
	Left                     // A
	Right                    // D
)

// Camera is a position aimed at a target.
type Camera struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
}

// LookAt aims the camera at p.
func (c *Camera) LookAt(p mgl64.Vec3) { c.Target = p }

// Orbit places the camera on the periodic orbit of radius a at time t
// seconds with angular speed omega, looking at the origin.
func (c *Camera) Orbit(t, a, omega float64) {
	s, co := math.Sincos(t * omega)
	c.Position = mgl64.Vec3{a * s, a * co, a * co}
	c.LookAt(mgl64.Vec3{})
}

// Step moves the camera by delta along one axis and re-aims at the origin.
func (c *Camera) Step(d Direction, delta float64) {
	switch d {
	case Forward:
		c.Position[2] -= delta
	case Back:
		c.Position[2] += delta
	case Left:
		c.Position[0] -= delta
	case Right:
		c.Position[0] += delta
	}
	c.LookAt(mgl64.Vec3{})
}

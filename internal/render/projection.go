package render

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/iburimskiy/ring-visualization/internal/visual"
)

const (
	FieldOfView = 75.0 // degrees, vertical
	Near        = 0.1
	Far         = 1000
)

var (
	worldUp = mgl64.Vec3{0, 1, 0}
	// up vector used when the camera looks straight along the Y axis
	polarUp = mgl64.Vec3{0, 0, -1}
)

// View is the combined perspective and look-at transform for one frame.
type View struct {
	viewProj      mgl64.Mat4
	width, height float64
	// focal is the vertical projection scale, 1/tan(fov/2).
	focal float64
}

// NewView builds the view for cam on a width x height viewport.
func NewView(cam visual.Camera, width, height int) View {
	up := worldUp
	if cam.Target.Sub(cam.Position).Cross(up).Len() < 1e-9 {
		up = polarUp
	}

	aspect := 1.0
	if height > 0 {
		aspect = float64(width) / float64(height)
	}
	proj := mgl64.Perspective(mgl64.DegToRad(FieldOfView), aspect, Near, Far)
	look := mgl64.LookAtV(cam.Position, cam.Target, up)
	return View{
		viewProj: proj.Mul4(look),
		width:    float64(width),
		height:   float64(height),
		focal:    proj[5],
	}
}

// Project maps a world point to screen coordinates. ok is false when the
// point lies outside the near/far range.
func (v View) Project(p mgl64.Vec3) (x, y, depth float64, ok bool) {
	clip := v.viewProj.Mul4x1(p.Vec4(1))
	depth = clip.W()
	if !(depth >= Near && depth <= Far) {
		return 0, 0, depth, false
	}
	nx, ny := clip.X()/depth, clip.Y()/depth
	x = (nx + 1) / 2 * v.width
	y = (1 - ny) / 2 * v.height
	return x, y, depth, true
}

// PixelsPerUnit is the on-screen size of one world unit at depth.
func (v View) PixelsPerUnit(depth float64) float64 {
	if depth <= 0 {
		return 0
	}
	return v.height * v.focal / (2 * depth)
}

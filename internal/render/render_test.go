package render

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/ring-visualization/internal/visual"
)

func TestProjectCentre(t *testing.T) {
	cam := visual.Camera{Position: mgl64.Vec3{0, 0, 500}}
	v := NewView(cam, 1024, 512)

	x, y, depth, ok := v.Project(mgl64.Vec3{})
	if !ok {
		t.Fatal("Expected origin to be visible")
	}
	if math.Abs(x-512) > 1e-6 || math.Abs(y-256) > 1e-6 {
		t.Errorf("Expected origin at screen centre, got (%v, %v)", x, y)
	}
	if math.Abs(depth-500) > 1e-6 {
		t.Errorf("Expected depth 500, got %v", depth)
	}
}

func TestProjectOrientation(t *testing.T) {
	cam := visual.Camera{Position: mgl64.Vec3{0, 0, 500}}
	v := NewView(cam, 800, 800)

	rx, _, _, _ := v.Project(mgl64.Vec3{100, 0, 0})
	if rx <= 400 {
		t.Errorf("Expected +X to land right of centre, got %v", rx)
	}
	_, uy, _, _ := v.Project(mgl64.Vec3{0, 100, 0})
	if uy >= 400 {
		t.Errorf("Expected +Y to land above centre, got %v", uy)
	}
	if _, _, _, ok := v.Project(mgl64.Vec3{0, 0, 600}); ok {
		t.Error("Expected a point behind the camera to be culled")
	}
}

func TestViewStraightDown(t *testing.T) {
	cam := visual.Camera{Position: mgl64.Vec3{0, 500, 0}}
	v := NewView(cam, 100, 100)
	if _, _, _, ok := v.Project(mgl64.Vec3{}); !ok {
		t.Error("Expected origin visible when looking straight down")
	}
}

func TestShade(t *testing.T) {
	red := colorful.Color{R: 1}
	white := colorful.Color{R: 1, G: 1, B: 1}

	if got := Shade(red, white); got != red {
		t.Errorf("Expected white light to keep full colour, got %v", got)
	}
	if got := Shade(red, colorful.Color{}); got.R != ambient || got.G != 0 {
		t.Errorf("Expected ambient-only shading without light, got %v", got)
	}
}

func TestResizeIgnoresEmptyViewport(t *testing.T) {
	r := New(1024, 512, 5, 2)
	r.Resize(0, 0)
	if w, h := r.Size(); w != 1024 || h != 512 {
		t.Errorf("Expected size unchanged, got %dx%d", w, h)
	}
	r.Resize(640, 480)
	if w, h := r.Size(); w != 640 || h != 480 {
		t.Errorf("Expected 640x480, got %dx%d", w, h)
	}
}

func TestSortByDepthFarFirst(t *testing.T) {
	reg := visual.NewRegistry(300)
	reg.Build(4)
	cam := visual.Camera{Position: mgl64.Vec3{0, 0, 500}}
	r := New(100, 100, 5, 2)

	r.sortByDepth(NewView(cam, 100, 100), reg.Bars())
	// bar 3 sits at z=-300, farthest; bar 1 at z=+300, nearest.
	if r.order[0] != 3 || r.order[len(r.order)-1] != 1 {
		t.Errorf("Expected far-to-near order starting with 3 and ending with 1, got %v", r.order)
	}
}

func TestPixelsPerUnit(t *testing.T) {
	cam := visual.Camera{Position: mgl64.Vec3{0, 0, 500}}
	v := NewView(cam, 800, 600)

	_, top, _, _ := v.Project(mgl64.Vec3{0, 50, 0})
	_, mid, depth, _ := v.Project(mgl64.Vec3{})
	if got, want := v.PixelsPerUnit(depth)*50, mid-top; math.Abs(got-want) > 1e-6 {
		t.Errorf("Expected 50 units to span %v pixels, got %v", want, got)
	}
	if v.PixelsPerUnit(0) != 0 {
		t.Error("Expected no size at zero depth")
	}
}

func TestBarModel(t *testing.T) {
	b := visual.Bar{Position: mgl64.Vec3{300, 0, 0}, ScaleY: 2}
	m := barModel(&b)

	if got := m.Mul4x1(mgl64.Vec4{5, 0, 0, 1}).Vec3(); !got.ApproxEqual(mgl64.Vec3{305, 0, 0}) {
		t.Errorf("Expected the torus rim at x=305, got %v", got)
	}
	if got := m.Mul4x1(mgl64.Vec4{0, 5, 0, 1}).Vec3(); !got.ApproxEqual(mgl64.Vec3{300, 10, 0}) {
		t.Errorf("Expected the torus stretched to y=10, got %v", got)
	}

	b = visual.Bar{Position: mgl64.Vec3{0, 0, 300}, Yaw: -math.Pi / 2, ScaleY: 1}
	got := barModel(&b).Mul4x1(mgl64.Vec4{5, 0, 0, 1}).Vec3()
	if math.Abs(got[0]) > 1e-9 || math.Abs(got[2]-305) > 1e-9 {
		t.Errorf("Expected the rim turned outward to z=305, got %v", got)
	}
}

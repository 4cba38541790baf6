package render

import (
	"cmp"
	"image/color"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/ring-visualization/internal/visual"
)

const (
	torusSegments = 16
	ambient       = 0.5
	background    = 0.08
)

// Renderer draws a Scene as a ring of wireframe tori.
type Renderer struct {
	width, height int
	torusRadius   float64
	tubeRadius    float64

	circle [torusSegments + 1][2]float64
	order  []int
	depth  []float64
}

func New(width, height int, torusRadius, tubeRadius float64) *Renderer {
	r := &Renderer{
		width:       width,
		height:      height,
		torusRadius: torusRadius,
		tubeRadius:  tubeRadius,
	}
	for i := range r.circle {
		u := 2 * math.Pi * float64(i) / torusSegments
		r.circle[i] = [2]float64{math.Cos(u), math.Sin(u)}
	}
	return r
}

// Resize follows viewport changes reported by ebiten's Layout.
func (r *Renderer) Resize(width, height int) {
	if width > 0 && height > 0 {
		r.width, r.height = width, height
	}
}

func (r *Renderer) Size() (int, int) { return r.width, r.height }

// Shade lights a surface colour with the white ambient term plus the point light.
func Shade(c, light colorful.Color) colorful.Color {
	lit := func(v, l float64) float64 { return math.Min(v*(ambient+(1-ambient)*l), 1) }
	return colorful.Color{R: lit(c.R, light.R), G: lit(c.G, light.G), B: lit(c.B, light.B)}
}

// Draw renders the scene onto screen, far bars first.
func (r *Renderer) Draw(screen *ebiten.Image, s *visual.Scene) {
	bg := colorful.Color{}.BlendRgb(s.Light.Color, background)
	screen.Fill(bg)

	view := NewView(s.Camera, r.width, r.height)
	bars := s.Registry.Bars()
	r.sortByDepth(view, bars)

	for _, i := range r.order {
		if math.IsInf(r.depth[i], -1) {
			continue
		}
		r.drawTorus(screen, view, &bars[i], Shade(bars[i].Color, s.Light.Color))
	}
}

func (r *Renderer) sortByDepth(view View, bars []visual.Bar) {
	if cap(r.order) < len(bars) {
		r.order = make([]int, len(bars))
		r.depth = make([]float64, len(bars))
	}
	r.order = r.order[:len(bars)]
	r.depth = r.depth[:len(bars)]

	for i := range bars {
		r.order[i] = i
		_, _, d, ok := view.Project(bars[i].Position)
		if !ok {
			d = math.Inf(-1)
		}
		r.depth[i] = d
	}
	slices.SortFunc(r.order, func(a, b int) int { return cmp.Compare(r.depth[b], r.depth[a]) })
}

// barModel places a unit-space torus on its bar: stretched by ScaleY,
// turned by Yaw and moved onto the ring.
func barModel(b *visual.Bar) mgl64.Mat4 {
	p := b.Position
	return mgl64.Translate3D(p[0], p[1], p[2]).
		Mul4(mgl64.HomogRotate3DY(b.Yaw)).
		Mul4(mgl64.Scale3D(1, b.ScaleY, 1))
}

func (r *Renderer) drawTorus(screen *ebiten.Image, view View, b *visual.Bar, c color.Color) {
	model := barModel(b)
	var prevX, prevY float64
	prevOK := false
	for _, p := range r.circle {
		local := mgl64.Vec4{r.torusRadius * p[0], r.torusRadius * p[1], 0, 1}
		x, y, depth, ok := view.Project(model.Mul4x1(local).Vec3())
		if ok && prevOK {
			width := math.Max(2*r.tubeRadius*view.PixelsPerUnit(depth), 1)
			vector.StrokeLine(screen, float32(prevX), float32(prevY), float32(x), float32(y), float32(width), c, true)
		}
		prevX, prevY, prevOK = x, y, ok
	}
}

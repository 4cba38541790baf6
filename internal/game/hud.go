package game

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/ring-visualization/internal/config"
	"github.com/iburimskiy/ring-visualization/internal/transport"
	"github.com/iburimskiy/ring-visualization/internal/visual"
)

type action int

const (
	actionNone action = iota
	actionOpen
	actionStart
	actionPause
	actionMicrophone
	actionBass
	actionMid
	actionTreble
	actionForward
	actionBack
	actionLeft
	actionRight
	actionQuit
)

var presetActions = map[action]config.Preset{
	actionBass:   config.PresetBass,
	actionMid:    config.PresetMid,
	actionTreble: config.PresetTreble,
}

var stepActions = map[action]visual.Direction{
	actionForward: visual.Forward,
	actionBack:    visual.Back,
	actionLeft:    visual.Left,
	actionRight:   visual.Right,
}

var keyActions = []struct {
	key ebiten.Key
	act action
}{
	{ebiten.KeyO, actionOpen},
	{ebiten.KeyEnter, actionStart},
	{ebiten.KeySpace, actionPause},
	{ebiten.KeyM, actionMicrophone},
	{ebiten.Key1, actionBass},
	{ebiten.Key2, actionMid},
	{ebiten.Key3, actionTreble},
	{ebiten.KeyW, actionForward},
	{ebiten.KeyS, actionBack},
	{ebiten.KeyA, actionLeft},
	{ebiten.KeyD, actionRight},
	{ebiten.KeyEscape, actionQuit},
	{ebiten.KeyQ, actionQuit},
}

// handle applies one user action on the render thread.
func (g *Game) handle(a action) {
	if p, ok := presetActions[a]; ok {
		if err := g.setPreset(p); err != nil {
			g.notify(err)
		}
		return
	}
	if d, ok := stepActions[a]; ok {
		g.updater.Step(g.scene, d)
		return
	}

	switch a {
	case actionOpen:
		g.openFile()
	case actionStart:
		g.start()
	case actionPause:
		g.transport.TogglePause()
	case actionMicrophone:
		g.openMicrophone()
	case actionQuit:
		g.close()
		g.quit = true
	}
}

type button struct {
	label   string
	act     action
	x, y    int
	hovered bool
	pressed bool
}

func (b *button) contains(x, y int) bool {
	return x >= b.x && x <= b.x+config.ButtonWidth && y >= b.y && y <= b.y+config.ButtonHeight
}

type hud struct {
	buttons []*button

	barHovered  bool
	barDragging bool
	lastSeek    time.Time
}

func newHUD() hud {
	labels := []struct {
		label string
		act   action
	}{
		{"Open File", actionOpen},
		{"Start", actionStart},
		{"Pause", actionPause},
		{"Microphone", actionMicrophone},
		{"Bass", actionBass},
		{"Mid", actionMid},
		{"Treble", actionTreble},
	}
	var h hud
	for i, l := range labels {
		h.buttons = append(h.buttons, &button{
			label: l.label,
			act:   l.act,
			x:     config.ButtonX + i*(config.ButtonWidth+config.ButtonGap),
			y:     config.ButtonY,
		})
	}
	return h
}

func progressBarRect(g *Game) (x, y, w, h int) {
	width, height := g.renderer.Size()
	return 20, height - 50, width - 40, 20
}

// poll turns this tick's keyboard and mouse input into actions.
func (h *hud) poll(g *Game) []action {
	var actions []action
	for _, k := range keyActions {
		if inpututil.IsKeyJustPressed(k.key) {
			actions = append(actions, k.act)
		}
	}

	mouseX, mouseY := ebiten.CursorPosition()
	for _, b := range h.buttons {
		b.hovered = b.contains(mouseX, mouseY)
		if b.hovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			b.pressed = true
		}
		if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
			if b.pressed && b.hovered {
				actions = append(actions, b.act)
			}
			b.pressed = false
		}
	}

	h.pollProgressBar(g, mouseX, mouseY)
	return actions
}

func (h *hud) pollProgressBar(g *Game, mouseX, mouseY int) {
	barX, barY, barWidth, barHeight := progressBarRect(g)
	h.barHovered = mouseX >= barX && mouseX <= barX+barWidth &&
		mouseY >= barY && mouseY <= barY+barHeight

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		h.barDragging = false
	}
	if g.transport.Kind() != transport.KindFile || g.transport.Duration() == 0 {
		return
	}

	if h.barHovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		h.barDragging = true
		h.seek(g, float64(mouseX-barX)/float64(barWidth), true)
		return
	}
	if h.barDragging {
		progress := clamp01(float64(mouseX-barX) / float64(barWidth))
		current := float64(g.transport.Position()) / float64(g.transport.Duration())
		// Only seek if the position changed significantly (avoid micro-seeks)
		if math.Abs(progress-current) > 0.01 {
			h.seek(g, progress, false)
		}
	}
}

func (h *hud) seek(g *Game, frac float64, force bool) {
	now := g.now()
	if !force && now.Sub(h.lastSeek) < 50*time.Millisecond {
		return
	}
	if err := g.transport.Seek(frac); err != nil {
		g.notify(err)
		return
	}
	h.lastSeek = now
}

func (h *hud) draw(screen *ebiten.Image, g *Game) {
	for _, b := range h.buttons {
		active := presetActions[b.act] == g.cfg.Preset && presetActions[b.act] != ""
		drawButton(screen, b, active)
	}
	h.drawProgressBar(screen, g)

	ebitenutil.DebugPrintAt(screen, statusLine(g), 12, 12)
	if g.notice.text != "" && g.now().Before(g.notice.until) {
		_, height := g.renderer.Size()
		ebitenutil.DebugPrintAt(screen, g.notice.text, 12, height-80)
	}
}

func statusLine(g *Game) string {
	status := ""
	switch {
	case g.transport.Kind() == transport.KindNone:
		status = "Open a file or the microphone"
	case g.transport.Paused():
		status = "Paused - Space to resume"
	default:
		status = "Playing " + g.transport.Kind().String() + " - Space to pause"
	}
	status += fmt.Sprintf(" | %s, %d bars, camera %s", g.cfg.Preset, g.scene.Registry.Len(), g.cfg.Camera)
	if g.cfg.Camera == config.CameraFixed {
		status += " (WASD)"
	}
	return status
}

func drawButton(screen *ebiten.Image, b *button, active bool) {
	var bgColor color.Color
	switch {
	case b.pressed:
		bgColor = color.RGBA{R: 60, G: 80, B: 120, A: 255}
	case b.hovered:
		bgColor = color.RGBA{R: 80, G: 100, B: 140, A: 255}
	case active:
		bgColor = color.RGBA{R: 70, G: 130, B: 110, A: 255}
	default:
		bgColor = color.RGBA{R: 100, G: 120, B: 160, A: 255}
	}

	x, y := float32(b.x), float32(b.y)
	w, h := float32(config.ButtonWidth), float32(config.ButtonHeight)
	vector.DrawFilledRect(screen, x, y, w, h, bgColor, false)
	vector.StrokeRect(screen, x, y, w, h, 2, color.RGBA{R: 150, G: 170, B: 200, A: 255}, false)

	textWidth := len(b.label) * 6 // debug font glyph width
	ebitenutil.DebugPrintAt(screen, b.label, b.x+(config.ButtonWidth-textWidth)/2, b.y+(config.ButtonHeight-16)/2)
}

func (h *hud) drawProgressBar(screen *ebiten.Image, g *Game) {
	duration := g.transport.Duration()
	if g.transport.Kind() != transport.KindFile || duration == 0 {
		return
	}

	barX, barY, barWidth, barHeight := progressBarRect(g)
	position := g.transport.Position()
	progress := clamp01(float64(position) / float64(duration))

	vector.DrawFilledRect(screen, float32(barX), float32(barY), float32(barWidth), float32(barHeight), color.RGBA{R: 25, G: 30, B: 40, A: 200}, false)
	vector.StrokeRect(screen, float32(barX), float32(barY), float32(barWidth), float32(barHeight), 2, color.RGBA{R: 70, G: 80, B: 100, A: 255}, false)

	if progress > 0 {
		fill := colorful.Color{}.BlendRgb(g.scene.Light.Color, 0.7)
		vector.DrawFilledRect(screen, float32(barX), float32(barY), float32(progress*float64(barWidth)), float32(barHeight), fill, false)
	}

	indicatorX := float32(float64(barX) + progress*float64(barWidth))
	indicatorY := float32(barY + barHeight/2)
	vector.DrawFilledCircle(screen, indicatorX, indicatorY, 7, color.White, false)
	vector.StrokeCircle(screen, indicatorX, indicatorY, 7, 2, color.RGBA{R: 100, G: 110, B: 130, A: 255}, false)

	total := formatDuration(duration)
	ebitenutil.DebugPrintAt(screen, formatDuration(position), barX, barY+barHeight+4)
	ebitenutil.DebugPrintAt(screen, total, barX+barWidth-len(total)*6, barY+barHeight+4)

	if h.barHovered {
		mouseX, _ := ebiten.CursorPosition()
		at := time.Duration(clamp01(float64(mouseX-barX)/float64(barWidth)) * float64(duration))
		ebitenutil.DebugPrintAt(screen, formatDuration(at), mouseX-15, barY-18)
	}
}

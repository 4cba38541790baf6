package game

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ncruces/zenity"
	"github.com/pkg/errors"

	"github.com/iburimskiy/ring-visualization/internal/config"
	"github.com/iburimskiy/ring-visualization/internal/debug"
	"github.com/iburimskiy/ring-visualization/internal/render"
	"github.com/iburimskiy/ring-visualization/internal/spectrum"
	"github.com/iburimskiy/ring-visualization/internal/transport"
	"github.com/iburimskiy/ring-visualization/internal/visual"
)

const noticeDuration = 4 * time.Second

// loadResult is the outcome of a file pick/decode or a microphone request.
type loadResult struct {
	req     uint64
	track   *transport.Track
	capture *transport.Capture
	err     error
}

type notice struct {
	text  string
	until time.Time
}

// Game owns one visualizer: its scene, audio graph and frame loop.
type Game struct {
	cfg       *config.Config
	scene     *visual.Scene
	updater   *visual.Updater
	analyser  *spectrum.Analyser
	resolver  *visual.Resolver
	renderer  *render.Renderer
	transport *transport.Controller
	loop      *Loop
	now       func() time.Time

	samples []uint8
	results chan loadResult
	req     uint64

	// collaborators run off the render thread
	pickFile func() (string, error)
	decode   func(path string) (*transport.Track, error)
	capture  func() (*transport.Capture, error)
	save     func() error

	hud    hud
	notice notice
	quit   bool
	closed bool
}

// NewGame wires a visualizer for cfg playing through out.
func NewGame(cfg *config.Config, out transport.Output) (*Game, error) {
	analyser, err := spectrum.NewAnalyser(cfg.Preset.FFTSize())
	if err != nil {
		return nil, err
	}
	analyser.SetSmoothing(cfg.Smoothing)

	scene := visual.NewScene(cfg)
	g := &Game{
		cfg:       cfg,
		scene:     scene,
		updater:   visual.NewUpdater(cfg),
		analyser:  analyser,
		resolver:  visual.NewResolver(analyser, scene.Registry),
		renderer:  render.New(cfg.Width, cfg.Height, cfg.TorusRadius, cfg.TubeRadius),
		transport: transport.New(out),
		loop:      NewLoop(nil),
		now:       time.Now,
		results:   make(chan loadResult, 4),
		pickFile:  pickAudioFile,
		decode:    transport.Decode,
		capture:   transport.CaptureMicrophone,
		save:      cfg.Save,
	}
	if err := g.setPreset(cfg.Preset); err != nil {
		return nil, err
	}
	g.hud = newHUD()
	return g, nil
}

func pickAudioFile() (string, error) {
	return zenity.SelectFile(
		zenity.Title("Open Audio File"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: []string{"*.wav", "*.mp3", "*.flac"},
		}},
	)
}

func (g *Game) Update() error {
	for _, a := range g.hud.poll(g) {
		g.handle(a)
	}
	g.tick()
	if g.quit {
		return ebiten.Termination
	}
	return nil
}

// tick applies finished async work, then advances one frame if the loop runs.
func (g *Game) tick() {
	for drained := false; !drained; {
		select {
		case r := <-g.results:
			g.apply(r)
		default:
			drained = true
		}
	}

	if g.transport.Ended() {
		debug.Log("game", "playback finished")
		g.transport.Stop()
		g.analyser.Attach(nil)
		g.loop.Stop()
	}

	g.loop.Tick(g.frame)
}

// frame is the per-frame update: spectrum -> bars and light -> camera.
func (g *Game) frame(elapsed time.Duration) {
	n := g.analyser.ReadInto(g.samples)
	g.updater.Update(g.scene, g.samples[:n])
	g.updater.Animate(g.scene, elapsed)
	debug.LogEvery(600, "frame", "run=%d bars=%d light=%.3f", g.loop.Generation(), n, g.scene.Light.Hue)
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.scene)
	g.hud.draw(screen, g)
}

// Layout is the resize hook: the scene is drawn at the window's size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.renderer.Resize(outsideWidth, outsideHeight)
	return g.renderer.Size()
}

// setPreset switches analysis resolution and rebuilds the bars before the next frame.
func (g *Game) setPreset(p config.Preset) error {
	if err := g.resolver.Switch(p); err != nil {
		return err
	}
	if cap(g.samples) < g.analyser.BinCount() {
		g.samples = make([]uint8, g.analyser.BinCount())
	}
	g.samples = g.samples[:g.analyser.BinCount()]
	g.cfg.Preset = p
	debug.Log("game", "preset %s: %d bars", p, g.scene.Registry.Len())
	return nil
}

// request starts an async load. Results of older requests are dropped on arrival.
func (g *Game) request(load func() loadResult) {
	g.req++
	req := g.req
	go func() {
		r := load()
		r.req = req
		g.results <- r
	}()
}

func (g *Game) openFile() {
	g.request(func() loadResult {
		path, err := g.pickFile()
		if err != nil {
			if errors.Is(err, zenity.ErrCanceled) {
				return loadResult{}
			}
			return loadResult{err: err}
		}
		return g.load(path)
	})
}

// Open decodes and plays path in the background.
func (g *Game) Open(path string) { g.openPath(path) }

func (g *Game) openPath(path string) {
	g.request(func() loadResult { return g.load(path) })
}

func (g *Game) load(path string) loadResult {
	debug.Log("game", "decoding %s", path)
	track, err := g.decode(path)
	return loadResult{track: track, err: err}
}

func (g *Game) openMicrophone() {
	g.request(func() loadResult {
		cp, err := g.capture()
		return loadResult{capture: cp, err: err}
	})
}

// apply switches to a finished load. Failures leave a running loop alone.
func (g *Game) apply(r loadResult) {
	if r.req != g.req {
		// superseded by a newer request
		if r.track != nil {
			_ = r.track.Close()
		}
		if r.capture != nil {
			_ = r.capture.Close()
		}
		return
	}

	switch {
	case r.err != nil:
		g.notify(r.err)
		return
	case r.track != nil:
		if err := g.transport.PlayTrack(r.track); err != nil {
			g.notify(err)
			return
		}
	case r.capture != nil:
		g.transport.UseCapture(r.capture)
	default:
		// dialog cancelled
		return
	}

	g.analyser.Attach(g.transport.Source())
	g.scene.Registry.Build(g.analyser.BinCount())
	run := g.loop.Start()
	debug.Log("game", "run %d: %s source", run, g.transport.Kind())
}

func (g *Game) start() {
	reload, err := g.transport.Start()
	if err != nil {
		g.notify(err)
		return
	}
	if reload != "" {
		g.openPath(reload)
	}
}

// Close stops playback and saves the configuration. It is safe to call twice.
func (g *Game) Close() { g.close() }

func (g *Game) close() {
	if g.closed {
		return
	}
	g.closed = true
	g.loop.Stop()
	g.transport.Close()
	if err := g.save(); err != nil {
		debug.Log("game", "save config: %v", err)
	}
}

func (g *Game) notify(err error) {
	debug.Log("game", "notice: %v", err)
	g.notice = notice{text: describe(err), until: g.now().Add(noticeDuration)}
}

// describe turns a transport error into a user-facing notice.
func describe(err error) string {
	switch {
	case errors.Is(err, transport.ErrNoInput):
		return "Please select a file first."
	case errors.Is(err, transport.ErrPermissionDenied):
		return "Microphone unavailable: permission denied."
	case errors.Is(err, transport.ErrUnsupported):
		return "Unsupported file: " + err.Error()
	case errors.Is(err, transport.ErrDecode):
		return "Could not decode audio: " + err.Error()
	}
	return "Error: " + err.Error()
}

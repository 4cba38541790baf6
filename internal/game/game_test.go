package game

import (
	"strings"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/ncruces/zenity"
	"github.com/pkg/errors"

	"github.com/iburimskiy/ring-visualization/internal/config"
	"github.com/iburimskiy/ring-visualization/internal/transport"
)

type nullOutput struct{ playing []beep.Streamer }

func (o *nullOutput) Init(beep.SampleRate, int) error { return nil }
func (o *nullOutput) Play(s ...beep.Streamer) { o.playing = append(o.playing, s...) }
func (o *nullOutput) Clear() { o.playing = nil }
func (o *nullOutput) Lock() {}
func (o *nullOutput) Unlock() {}

// loudStreamer plays a constant full-scale square wave of fixed length.
type loudStreamer struct {
	pos, length int
	closed      bool
}

func (s *loudStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.pos >= s.length {
		return 0, false
	}
	n := 0
	for i := range samples {
		if s.pos >= s.length {
			break
		}
		v := 1.0
		if (s.pos/8)%2 == 0 {
			v = -1
		}
		samples[i] = [2]float64{v, v}
		s.pos++
		n++
	}
	return n, true
}
func (s *loudStreamer) Err() error { return nil }
func (s *loudStreamer) Len() int { return s.length }
func (s *loudStreamer) Position() int { return s.pos }
func (s *loudStreamer) Seek(p int) error { s.pos = p; return nil }
func (s *loudStreamer) Close() error { s.closed = true; return nil }

func newTrack(path string) (*transport.Track, *loudStreamer) {
	s := &loudStreamer{length: 44100 * 10}
	return &transport.Track{
		Path:     path,
		Streamer: s,
		Format:   beep.Format{SampleRate: transport.SampleRate, NumChannels: 2, Precision: 2},
	}, s
}

func newTestGame(t *testing.T, cfg *config.Config) (*Game, *nullOutput) {
	t.Helper()
	out := &nullOutput{}
	g, err := NewGame(cfg, out)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	g.save = func() error { return nil }
	g.pickFile = func() (string, error) { return "", zenity.ErrCanceled }
	g.capture = func() (*transport.Capture, error) { return nil, transport.ErrPermissionDenied }
	g.decode = func(path string) (*transport.Track, error) {
		tr, _ := newTrack(path)
		return tr, nil
	}
	return g, out
}

// await applies the next async result.
func await(t *testing.T, g *Game) {
	t.Helper()
	select {
	case r := <-g.results:
		g.apply(r)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for load result")
	}
}

func TestNewGameBuildsPresetBars(t *testing.T) {
	cfg := config.Keyboard()
	cfg.Preset = config.PresetMid
	g, _ := newTestGame(t, cfg)

	if g.scene.Registry.Len() != 512 || len(g.samples) != 512 {
		t.Errorf("Expected 512 bars and samples, got %d and %d", g.scene.Registry.Len(), len(g.samples))
	}
	if g.loop.Running() {
		t.Error("Expected the loop to wait for an audio source")
	}
}

func TestOpenFileStartsLoop(t *testing.T) {
	g, out := newTestGame(t, config.Orbit())

	g.openPath("song.wav")
	await(t, g)

	if !g.loop.Running() {
		t.Fatal("Expected the loop to start after a successful load")
	}
	if g.transport.Kind() != transport.KindFile || len(out.playing) != 1 {
		t.Fatalf("Expected one file playing, got %s with %d streams", g.transport.Kind(), len(out.playing))
	}

	buf := make([][2]float64, 4096)
	out.playing[0].Stream(buf)
	for i := 0; i < 10; i++ {
		g.tick()
	}

	tall := 0
	for _, b := range g.scene.Registry.Bars() {
		if b.ScaleY > 1 {
			tall++
		}
	}
	if tall == 0 {
		t.Error("Expected loud audio to raise some bars above the floor")
	}
	if g.scene.Light.Hue == 0 {
		t.Error("Expected the light to follow a non-silent spectrum")
	}
}

func TestEachLoadStartsNewRun(t *testing.T) {
	g, _ := newTestGame(t, config.Keyboard())
	g.openPath("one.wav")
	await(t, g)
	first := g.loop.Generation()

	g.openPath("two.wav")
	await(t, g)
	if g.loop.Generation() == first || !g.loop.Running() {
		t.Errorf("Expected a new running generation after the second load, got %d then %d", first, g.loop.Generation())
	}
	if g.loop.Frames() != 0 {
		t.Errorf("Expected the new run to start at frame 0, got %d", g.loop.Frames())
	}
}

func TestResolutionSwitchMidPlayback(t *testing.T) {
	g, _ := newTestGame(t, config.Keyboard())
	g.openPath("song.wav")
	await(t, g)
	g.tick()
	if g.scene.Registry.Len() != 1024 {
		t.Fatalf("Expected 1024 bars, got %d", g.scene.Registry.Len())
	}

	g.handle(actionMid)
	if g.scene.Registry.Len() != 512 {
		t.Fatalf("Expected registry rebuilt to 512 before the next frame, got %d", g.scene.Registry.Len())
	}
	g.tick()
	if g.scene.Registry.Len() != 512 || len(g.samples) != 512 {
		t.Errorf("Expected 512 bars and samples after a frame, got %d and %d", g.scene.Registry.Len(), len(g.samples))
	}
	if g.cfg.Preset != config.PresetMid {
		t.Errorf("Expected preset recorded as mid, got %s", g.cfg.Preset)
	}
}

func TestDecodeFailureKeepsLoopRunning(t *testing.T) {
	g, _ := newTestGame(t, config.Keyboard())
	g.openPath("song.wav")
	await(t, g)

	g.decode = func(string) (*transport.Track, error) {
		return nil, errors.Wrap(transport.ErrDecode, "broken.mp3")
	}
	g.openPath("broken.mp3")
	await(t, g)

	if !g.loop.Running() {
		t.Error("Expected a decode failure not to stop the running loop")
	}
	if !strings.HasPrefix(g.notice.text, "Could not decode audio") {
		t.Errorf("Expected decode notice, got %q", g.notice.text)
	}
}

func TestMicrophoneDenied(t *testing.T) {
	g, _ := newTestGame(t, config.Keyboard())
	g.handle(actionMicrophone)
	await(t, g)

	if g.loop.Running() {
		t.Error("Expected the loop not to start without microphone access")
	}
	if !strings.Contains(g.notice.text, "permission denied") {
		t.Errorf("Expected permission notice, got %q", g.notice.text)
	}
}

func TestStartWithoutInput(t *testing.T) {
	g, _ := newTestGame(t, config.Keyboard())
	g.handle(actionStart)

	if g.notice.text != "Please select a file first." {
		t.Errorf("Expected no-input notice, got %q", g.notice.text)
	}
	if g.transport.Kind() != transport.KindNone || g.loop.Running() {
		t.Error("Expected no state change without input")
	}
}

func TestCancelledDialogChangesNothing(t *testing.T) {
	g, _ := newTestGame(t, config.Keyboard())
	g.handle(actionOpen)
	await(t, g)

	if g.notice.text != "" || g.loop.Running() {
		t.Errorf("Expected cancel to be silent, notice=%q running=%v", g.notice.text, g.loop.Running())
	}
}

func TestSupersededLoadIsDropped(t *testing.T) {
	g, _ := newTestGame(t, config.Keyboard())

	var streams []*loudStreamer
	g.decode = func(path string) (*transport.Track, error) {
		tr, s := newTrack(path)
		streams = append(streams, s)
		return tr, nil
	}

	g.openPath("first.wav")
	first := <-g.results
	g.openPath("second.wav")
	second := <-g.results

	g.apply(first)
	if !streams[0].closed {
		t.Error("Expected the superseded track to be closed")
	}
	if g.transport.Kind() != transport.KindNone {
		t.Error("Expected the superseded track not to play")
	}

	g.apply(second)
	if g.transport.Kind() != transport.KindFile || !g.loop.Running() {
		t.Error("Expected the latest track to play")
	}
}

func TestTrackEndStopsLoop(t *testing.T) {
	g, out := newTestGame(t, config.Keyboard())
	g.decode = func(path string) (*transport.Track, error) {
		tr, s := newTrack(path)
		s.length = 1024
		return tr, nil
	}
	g.openPath("short.wav")
	await(t, g)

	buf := make([][2]float64, 2048)
	out.playing[0].Stream(buf)
	out.playing[0].Stream(buf)
	g.tick()

	if g.loop.Running() || g.transport.Kind() != transport.KindNone {
		t.Error("Expected the loop to stop when the track ends")
	}
}

func TestKeyboardCameraActions(t *testing.T) {
	g, _ := newTestGame(t, config.Keyboard())
	g.handle(actionForward)
	g.handle(actionRight)

	want := mgl64.Vec3{10, 0, 490}
	if g.scene.Camera.Position != want {
		t.Errorf("Expected camera at %v, got %v", want, g.scene.Camera.Position)
	}
}

func TestQuitSavesAndTerminates(t *testing.T) {
	g, _ := newTestGame(t, config.Keyboard())
	saved := false
	g.save = func() error { saved = true; return nil }

	g.handle(actionQuit)
	if !saved || !g.quit {
		t.Errorf("Expected quit to save config and terminate, saved=%v quit=%v", saved, g.quit)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{transport.ErrNoInput, "Please select a file first."},
		{errors.Wrap(transport.ErrPermissionDenied, "device"), "Microphone unavailable"},
		{errors.Wrap(transport.ErrUnsupported, `".ogg"`), "Unsupported file"},
		{errors.Wrap(transport.ErrDecode, "x.mp3"), "Could not decode audio"},
		{errors.New("disk on fire"), "Error: disk on fire"},
	}
	for _, tt := range tests {
		if got := describe(tt.err); !strings.HasPrefix(got, tt.want) {
			t.Errorf("describe(%v) = %q, expected prefix %q", tt.err, got, tt.want)
		}
	}
}

func TestLoopStartStop(t *testing.T) {
	now := time.Unix(0, 0)
	l := NewLoop(func() time.Time { return now })

	ran := 0
	l.Tick(func(time.Duration) { ran++ })
	if ran != 0 {
		t.Error("Expected a stopped loop not to run frames")
	}

	gen := l.Start()
	now = now.Add(1500 * time.Millisecond)
	var got time.Duration
	l.Tick(func(e time.Duration) { got = e; ran++ })
	if ran != 1 || got != 1500*time.Millisecond {
		t.Errorf("Expected one frame at 1.5s, got %d frames at %v", ran, got)
	}

	l.Stop()
	l.Tick(func(time.Duration) { ran++ })
	if ran != 1 || l.Elapsed() != 0 {
		t.Error("Expected Stop to halt frames")
	}

	if l.Start() == gen {
		t.Error("Expected a new generation on restart")
	}
	if l.Elapsed() != 0 || l.Frames() != 0 {
		t.Error("Expected restart to reset elapsed time and frame count")
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(83 * time.Second); got != "01:23" {
		t.Errorf("Expected 01:23, got %s", got)
	}
}

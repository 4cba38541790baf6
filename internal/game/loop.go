package game

import "time"

// Loop is the start/stop handle for per-frame visual updates. ebiten keeps
// calling Update regardless; Tick only does work between Start and Stop.
type Loop struct {
	now     func() time.Time
	running bool
	epoch   time.Time
	gen     uint64
	frames  uint64
}

func NewLoop(now func() time.Time) *Loop {
	if now == nil {
		now = time.Now
	}
	return &Loop{now: now}
}

// Start (re)starts the loop, resetting elapsed time, and returns the new generation.
func (l *Loop) Start() uint64 {
	l.running = true
	l.epoch = l.now()
	l.frames = 0
	l.gen++
	return l.gen
}

// Stop halts frame updates until the next Start.
func (l *Loop) Stop() { l.running = false }

func (l *Loop) Running() bool { return l.running }

// Generation identifies the current run; it changes on every Start.
func (l *Loop) Generation() uint64 { return l.gen }

// Elapsed is the wall-clock time since the last Start.
func (l *Loop) Elapsed() time.Duration {
	if !l.running {
		return 0
	}
	return l.now().Sub(l.epoch)
}

// Frames counts ticks since the last Start.
func (l *Loop) Frames() uint64 { return l.frames }

// Tick runs frame with the elapsed time if the loop is running.
func (l *Loop) Tick(frame func(elapsed time.Duration)) bool {
	if !l.running {
		return false
	}
	l.frames++
	frame(l.Elapsed())
	return true
}

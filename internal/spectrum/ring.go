package spectrum

import "sync"

// Source yields recent time-domain samples for analysis.
type Source interface {
	// Latest fills dst with the most recent len(dst) samples, oldest first,
	// and returns how many were available.
	Latest(dst []float64) int
}

// Ring records the last N mono samples written by an audio thread so the
// render thread can analyse recently heard audio.
type Ring struct {
	buffer    []float64
	nextIndex int
	filled    int
	mu        sync.RWMutex
}

func NewRing(size int) *Ring {
	return &Ring{buffer: make([]float64, size)}
}

// Write appends samples, overwriting the oldest ones.
func (r *Ring) Write(samples []float64) {
	r.mu.Lock()
	for _, s := range samples {
		r.put(s)
	}
	r.mu.Unlock()
}

func (r *Ring) put(s float64) {
	r.buffer[r.nextIndex] = s
	r.nextIndex++
	if r.nextIndex >= len(r.buffer) {
		r.nextIndex = 0
	}
	if r.filled < len(r.buffer) {
		r.filled++
	}
}

// Latest implements Source. Missing history is left as zeros at the front of dst.
func (r *Ring) Latest(dst []float64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(dst)
	if n > r.filled {
		n = r.filled
	}
	pad := len(dst) - n
	for i := 0; i < pad; i++ {
		dst[i] = 0
	}

	// Walk forward from the oldest of the n newest samples
	idx := r.nextIndex - n
	if idx < 0 {
		idx += len(r.buffer)
	}
	for i := 0; i < n; i++ {
		dst[pad+i] = r.buffer[idx]
		idx++
		if idx >= len(r.buffer) {
			idx = 0
		}
	}
	return n
}

// Reset forgets all recorded samples.
func (r *Ring) Reset() {
	r.mu.Lock()
	r.nextIndex = 0
	r.filled = 0
	for i := range r.buffer {
		r.buffer[i] = 0
	}
	r.mu.Unlock()
}

// WriteFloat32 appends samples delivered by a capture callback.
func (r *Ring) WriteFloat32(samples []float32) {
	r.mu.Lock()
	for _, s := range samples {
		r.put(float64(s))
	}
	r.mu.Unlock()
}

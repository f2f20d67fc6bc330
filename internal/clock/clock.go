// Package clock provides song time sources. Every clock is monotonic: Now
// never returns less than a previous call.
package clock

import (
	"math"
	"sync"
	"time"
)

type Clock interface {
	// Now is the song time, from the start of playback
	Now() time.Duration
}

// Wall follows the system clock. Song time starts Delay after Start, runs
// Rate times as fast as real time and is shifted by Offset.
type Wall struct {
	Delay  time.Duration
	Rate   float64
	Offset time.Duration

	now   func() time.Time
	start time.Time
	mu    sync.Mutex
	last  time.Duration
}

func NewWall(delay time.Duration, rate float64, offset time.Duration) *Wall {
	return &Wall{Delay: delay, Rate: rate, Offset: offset, now: time.Now}
}

// Start sets time zero. Calling Now before Start starts the clock.
func (w *Wall) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.start = w.now().Add(w.Delay)
	w.last = math.MinInt64
}

func (w *Wall) Now() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.start.IsZero() {
		w.start = w.now().Add(w.Delay)
		w.last = math.MinInt64
	}
	rate := w.Rate
	if rate <= 0 {
		rate = 1
	}
	elapsed := w.now().Sub(w.start)
	t := time.Duration(math.Round(float64(elapsed)*rate)) + w.Offset
	if t < w.last {
		return w.last
	}
	w.last = t
	return t
}

// Manual only moves when told to.
type Manual struct {
	mu  sync.Mutex
	now time.Duration
}

func NewManual(start time.Duration) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set moves the clock to t. Going backwards is ignored.
func (m *Manual) Set(t time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t > m.now {
		m.now = t
	}
}

func (m *Manual) Advance(d time.Duration) {
	if d > 0 {
		m.mu.Lock()
		m.now += d
		m.mu.Unlock()
	}
}

package clock

import (
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
)

// Sampled is a beep streamer that counts the samples pulled through it.
// Put it in front of the song stream and its time follows what the speaker
// has actually consumed instead of the wall clock.
type Sampled struct {
	Streamer beep.Streamer
	Format   beep.Format
	Offset   time.Duration

	samples atomic.Int64
}

func NewSampled(s beep.Streamer, format beep.Format, offset time.Duration) *Sampled {
	return &Sampled{Streamer: s, Format: format, Offset: offset}
}

func (s *Sampled) Stream(samples [][2]float64) (int, bool) {
	n, ok := s.Streamer.Stream(samples)
	if n > 0 {
		s.samples.Add(int64(n))
	}
	return n, ok
}

func (s *Sampled) Err() error {
	return s.Streamer.Err()
}

func (s *Sampled) Samples() int {
	return int(s.samples.Load())
}

func (s *Sampled) Now() time.Duration {
	return s.Format.SampleRate.D(s.Samples()) + s.Offset
}

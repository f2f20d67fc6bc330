package score

import (
	"math"
	"time"

	"git.lost.host/meutraa/lanes/internal/engine"
	"git.lost.host/meutraa/lanes/internal/game"
)

// Tally is an event sink keeping the running score of a session.
type Tally struct {
	Counts  map[game.Tier]int
	Judged  int
	Skipped int

	// Offsets of notes that were pressed, expired notes excluded
	Hits       int
	TotalError time.Duration

	mean, m2 float64 // Welford, in nanoseconds
}

func NewTally() *Tally {
	return &Tally{Counts: map[game.Tier]int{}}
}

func (t *Tally) Emit(ev engine.Event) {
	switch ev.Kind {
	case engine.Skipped:
		t.Skipped++
		return
	case engine.Judged:
	default:
		return
	}
	t.Judged++
	t.Counts[ev.Tier]++
	if ev.Cause == engine.Expired {
		return
	}

	t.Hits++
	t.TotalError += abs(ev.Offset)
	x := float64(ev.Offset)
	delta := x - t.mean
	t.mean += delta / float64(t.Hits)
	t.m2 += delta * (x - t.mean)
}

func (t *Tally) Count(tier game.Tier) int {
	return t.Counts[tier]
}

// Mean is the average signed offset, positive means late.
func (t *Tally) Mean() time.Duration {
	return time.Duration(math.Round(t.mean))
}

// Stdev is the sample standard deviation of the offsets.
func (t *Tally) Stdev() time.Duration {
	if t.Hits < 2 {
		return 0
	}
	return time.Duration(math.Round(math.Sqrt(t.m2 / float64(t.Hits-1))))
}

func abs(x time.Duration) time.Duration {
	if x < 0 {
		return -x
	}
	return x
}

package engine

import (
	"time"

	"git.lost.host/meutraa/lanes/internal/game"
)

// Activator slides a cursor over a time ordered chart and hands out the
// notes that came within the lead time of the clock.
type Activator struct {
	notes  []game.Note
	lead   time.Duration
	cursor int
}

func NewActivator(notes []game.Note, lead time.Duration) *Activator {
	return &Activator{notes: notes, lead: lead}
}

// Tick returns the chart range [start, end) activated by now. Notes before
// the cursor are never looked at again.
func (a *Activator) Tick(now time.Duration) (int, int) {
	start := a.cursor
	for a.cursor < len(a.notes) && now >= a.notes[a.cursor].Time-a.lead {
		a.cursor++
	}
	return start, a.cursor
}

func (a *Activator) Remaining() int {
	return len(a.notes) - a.cursor
}

func (a *Activator) Exhausted() bool {
	return a.cursor >= len(a.notes)
}

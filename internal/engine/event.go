package engine

import (
	"fmt"
	"time"

	"git.lost.host/meutraa/lanes/internal/game"
)

type EventKind uint8

const (
	// Activated notes have entered the judgement window and can be drawn
	Activated EventKind = iota
	// HoldStarted is a hold note that was pressed in time and is now being held
	HoldStarted
	// Judged is terminal, the note has been resolved with a tier
	Judged
	// Skipped notes were malformed and never activated
	Skipped
)

func (k EventKind) String() string {
	switch k {
	case Activated:
		return "activated"
	case HoldStarted:
		return "held"
	case Judged:
		return "judged"
	case Skipped:
		return "skipped"
	}
	return fmt.Sprintf("event(%d)", uint8(k))
}

// Cause explains how a judged note was resolved.
type Cause uint8

const (
	Hit Cause = iota
	Completed
	EarlyRelease
	Expired
)

func (c Cause) String() string {
	switch c {
	case Hit:
		return "hit"
	case Completed:
		return "completed"
	case EarlyRelease:
		return "early release"
	case Expired:
		return "expired"
	}
	return fmt.Sprintf("cause(%d)", uint8(c))
}

type Event struct {
	Kind     EventKind
	Note     NoteID
	Lane     int
	NoteKind game.Kind
	Tier     game.Tier
	Cause    Cause
	Time     time.Duration // When it happened, in song time
	Offset   time.Duration // Input time minus target time, positive is late
	Combo    Combo
	Err      error
}

type Sink interface {
	Emit(Event)
}

type SinkFunc func(Event)

func (f SinkFunc) Emit(ev Event) { f(ev) }

type discard struct{}

func (discard) Emit(Event) {}

// Recorder keeps every event it is given.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Emit(ev Event) {
	r.Events = append(r.Events, ev)
}

// Judgements returns only the terminal events.
func (r *Recorder) Judgements() []Event {
	judged := []Event{}
	for _, ev := range r.Events {
		if ev.Kind == Judged {
			judged = append(judged, ev)
		}
	}
	return judged
}

func (r *Recorder) Reset() {
	r.Events = nil
}

// Tee fans events out to several sinks in order.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(ev Event) {
		for _, s := range sinks {
			if nil != s {
				s.Emit(ev)
			}
		}
	})
}

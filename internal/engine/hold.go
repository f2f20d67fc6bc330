package engine

import (
	"cmp"
	"slices"
	"time"

	"git.lost.host/meutraa/lanes/internal/game"
	"go.uber.org/zap"
)

// press judges the earliest pending note of the lane. Only that note is
// considered, so a note close to the input can never be judged ahead of an
// earlier one.
func (e *Engine) press(l *lane, in game.Input) {
	if l.pressed {
		return
	}
	l.pressed = true
	if l.held != none || len(l.pending) == 0 {
		return
	}

	id := l.pending[0]
	an := &e.notes[id]
	offset := in.Time - an.Note.Time
	tier, ok := e.cfg.Judgements.Classify(offset)
	if !ok {
		e.logger.Debug("press outside every window",
			zap.Int("note", int(id)),
			zap.Int("lane", in.Lane),
			zap.Duration("offset", offset),
		)
		return
	}
	l.pending = l.pending[1:]

	switch an.Note.Kind {
	case game.Tap:
		e.resolve(id, tier, Hit, in.Time, offset)
	case game.Hold:
		an.State = Held
		an.TapTier = tier
		an.PressTime = in.Time
		l.held = id
		e.emit(Event{
			Kind:     HoldStarted,
			Note:     id,
			Lane:     an.Note.Lane,
			NoteKind: game.Hold,
			Tier:     tier,
			Time:     in.Time,
			Offset:   offset,
			Combo:    e.combo,
		})
	}
}

// release ends the hold of the lane, if any. Letting go before the end of
// the hold blends the tap tier with the failure component.
func (e *Engine) release(l *lane, in game.Input) {
	l.pressed = false
	if l.held == none {
		return
	}
	id := l.held
	l.held = none

	an := &e.notes[id]
	offset := an.PressTime - an.Note.Time
	j := e.cfg.Judgements
	if in.Time < an.Note.End() {
		e.resolve(id, j.Blend(an.TapTier, j.HoldFailure), EarlyRelease, in.Time, offset)
		return
	}
	e.resolve(id, j.Blend(an.TapTier, j.HoldSuccess), Completed, an.Note.End(), offset)
}

// completeHolds resolves every hold that is still down at its end time.
func (e *Engine) completeHolds(now time.Duration) {
	var done []NoteID
	for i := range e.lanes {
		l := &e.lanes[i]
		if l.held == none || !l.pressed {
			continue
		}
		if now >= e.notes[l.held].Note.End() {
			done = append(done, l.held)
		}
	}
	if len(done) == 0 {
		return
	}
	slices.SortFunc(done, func(a, b NoteID) int {
		if c := cmp.Compare(e.notes[a].Note.End(), e.notes[b].Note.End()); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	j := e.cfg.Judgements
	for _, id := range done {
		an := &e.notes[id]
		e.lane(an.Note.Lane).held = none
		e.resolve(id, j.Blend(an.TapTier, j.HoldSuccess), Completed, an.Note.End(), an.PressTime-an.Note.Time)
	}
}

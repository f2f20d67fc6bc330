package engine

import (
	"time"

	"git.lost.host/meutraa/lanes/internal/game"
)

// sweep misses every pending note that can no longer be judged under any
// tier. Held notes are left alone, they resolve through release or
// completion.
func (e *Engine) sweep(now time.Duration) {
	widest := e.cfg.Judgements.Widest()
	var expired []NoteID
	for _, id := range e.active {
		an := &e.notes[id]
		if an.State == Pending && now > an.Note.Time+widest {
			expired = append(expired, id)
		}
	}

	for _, id := range expired {
		an := &e.notes[id]
		l := e.lane(an.Note.Lane)
		l.pending = without(l.pending, id)
		e.resolve(id, game.Miss, Expired, now, now-an.Note.Time)
	}
}

func without(ids []NoteID, id NoteID) []NoteID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}

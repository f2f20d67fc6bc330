// Package engine schedules chart notes against a song clock and judges
// lane input. It is single threaded: callers drive it from one loop, either
// submitting inputs directly or queueing them for the next Tick.
package engine

import (
	"errors"
	"fmt"
	"time"

	"git.lost.host/meutraa/lanes/internal/game"
	"go.uber.org/zap"
)

var ErrInvalidConfig = errors.New("invalid engine config")

// NoteID is the index of the note in the chart.
type NoteID int

const none NoteID = -1

type State uint8

const (
	inactive State = iota
	Pending
	Held
	Resolved
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Held:
		return "held"
	case Resolved:
		return "resolved"
	}
	return "inactive"
}

type ActiveNote struct {
	ID    NoteID
	Note  *game.Note // Shared with the chart, never modified
	State State

	// Set when a hold note is pressed
	TapTier   game.Tier
	PressTime time.Duration
}

type Config struct {
	Lanes      int           // 0 takes the lane count of the chart
	Lead       time.Duration // How long before its target time a note activates
	Judgements game.Judgements
}

func DefaultConfig() Config {
	return Config{
		Lanes:      4,
		Lead:       2 * time.Second,
		Judgements: game.DefaultJudgements(),
	}
}

type lane struct {
	pressed bool
	held    NoteID
	pending []NoteID // In chart order
}

type Engine struct {
	chart  *game.Chart
	cfg    Config
	sink   Sink
	logger *zap.Logger

	activator *Activator
	notes     []ActiveNote // Arena indexed by NoteID
	active    []NoteID     // In activation order
	lanes     []lane
	queue     []game.Input
	combo     Combo
	now       time.Duration
	dirty     bool
}

// New creates an engine for a validated chart. The chart must not be
// modified while the engine uses it.
func New(chart *game.Chart, cfg Config, sink Sink, logger *zap.Logger) (*Engine, error) {
	if nil == chart {
		return nil, fmt.Errorf("%w: no chart", game.ErrInvalidChart)
	}
	if !chart.Sorted() {
		return nil, fmt.Errorf("%w: notes are not in time order", game.ErrInvalidChart)
	}
	if cfg.Lanes == 0 {
		cfg.Lanes = chart.Lanes
	}
	if cfg.Lanes <= 0 {
		return nil, fmt.Errorf("%w: lane count %d", ErrInvalidConfig, cfg.Lanes)
	}
	if err := cfg.Judgements.Validate(); nil != err {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if cfg.Lead < cfg.Judgements.Widest() {
		return nil, fmt.Errorf("%w: lead %v is shorter than the miss window %v", ErrInvalidConfig, cfg.Lead, cfg.Judgements.Widest())
	}
	if nil == sink {
		sink = discard{}
	}
	if nil == logger {
		logger = zap.NewNop()
	}

	e := &Engine{
		chart:     chart,
		cfg:       cfg,
		sink:      sink,
		logger:    logger,
		activator: NewActivator(chart.Notes, cfg.Lead),
		notes:     make([]ActiveNote, len(chart.Notes)),
		lanes:     make([]lane, cfg.Lanes),
	}
	for i := range e.notes {
		e.notes[i].ID = NoteID(i)
		e.notes[i].Note = &chart.Notes[i]
	}
	for i := range e.lanes {
		e.lanes[i].held = none
	}
	return e, nil
}

// Enqueue stores an input to be applied at the start of the next Tick.
func (e *Engine) Enqueue(in game.Input) {
	e.queue = append(e.queue, in)
}

// Tick applies queued input in arrival order, then activates, completes
// holds and expires missed notes as of now. Each queued input first brings
// the engine up to its own time, as if a tick had run just before it.
func (e *Engine) Tick(now time.Duration) {
	queue := e.queue
	e.queue = nil
	for _, in := range queue {
		e.step(in.Time)
		e.Submit(in)
	}
	e.step(now)
}

func (e *Engine) step(now time.Duration) {
	e.advance(now)
	e.completeHolds(e.now)
	e.sweep(e.now)
	e.compact()
}

// Submit applies one input immediately, activating any notes due by its
// time first. Input that matches nothing is ignored.
func (e *Engine) Submit(in game.Input) {
	e.advance(in.Time)
	l := e.lane(in.Lane)
	if nil == l {
		e.logger.Debug("input outside lanes", zap.Int("lane", in.Lane), zap.Int("lanes", e.cfg.Lanes))
		return
	}
	switch in.Action {
	case game.Press:
		e.press(l, in)
	case game.Release:
		e.release(l, in)
	}
	e.compact()
}

func (e *Engine) Combo() Combo {
	return e.combo
}

func (e *Engine) Now() time.Duration {
	return e.now
}

func (e *Engine) Config() Config {
	return e.cfg
}

// Pressed reports whether the lane is currently down.
func (e *Engine) Pressed(lane int) bool {
	l := e.lane(lane)
	return nil != l && l.pressed
}

// Active returns a copy of the active notes in activation order.
func (e *Engine) Active() []ActiveNote {
	active := make([]ActiveNote, 0, len(e.active))
	for _, id := range e.active {
		if e.notes[id].State != Resolved {
			active = append(active, e.notes[id])
		}
	}
	return active
}

// Done reports whether every note in the chart has been activated and
// resolved.
func (e *Engine) Done() bool {
	return e.activator.Exhausted() && len(e.active) == 0 && len(e.queue) == 0
}

func (e *Engine) lane(n int) *lane {
	if n < 1 || n > len(e.lanes) {
		return nil
	}
	return &e.lanes[n-1]
}

func (e *Engine) advance(t time.Duration) {
	if t > e.now {
		e.now = t
	}
	start, end := e.activator.Tick(e.now)
	for i := start; i < end; i++ {
		e.activate(NoteID(i))
	}
}

func (e *Engine) activate(id NoteID) {
	an := &e.notes[id]
	if err := e.check(an.Note); nil != err {
		e.logger.Warn("skipping malformed note", zap.Int("note", int(id)), zap.Error(err))
		e.emit(Event{
			Kind:     Skipped,
			Note:     id,
			Lane:     an.Note.Lane,
			NoteKind: an.Note.Kind,
			Time:     e.now,
			Err:      err,
		})
		return
	}
	an.State = Pending
	e.active = append(e.active, id)
	l := e.lane(an.Note.Lane)
	l.pending = append(l.pending, id)
	e.emit(Event{
		Kind:     Activated,
		Note:     id,
		Lane:     an.Note.Lane,
		NoteKind: an.Note.Kind,
		Time:     e.now,
	})
}

func (e *Engine) check(n *game.Note) error {
	if nil == e.lane(n.Lane) {
		return fmt.Errorf("lane %d outside 1..%d", n.Lane, len(e.lanes))
	}
	switch n.Kind {
	case game.Tap:
	case game.Hold:
		if n.Duration <= 0 {
			return fmt.Errorf("hold with duration %v", n.Duration)
		}
	default:
		return fmt.Errorf("unknown kind %v", n.Kind)
	}
	return nil
}

// resolve is the only way a note leaves the active set.
func (e *Engine) resolve(id NoteID, tier game.Tier, cause Cause, at, offset time.Duration) {
	an := &e.notes[id]
	if an.State == Resolved {
		panic(fmt.Sprintf("engine: note %d resolved twice", id))
	}
	if an.State != Pending && an.State != Held {
		panic(fmt.Sprintf("engine: resolving note %d in state %v", id, an.State))
	}
	an.State = Resolved
	e.dirty = true
	e.combo = e.combo.Apply(e.cfg.Judgements.Passes(tier))

	e.logger.Debug("judged",
		zap.Int("note", int(id)),
		zap.Int("lane", an.Note.Lane),
		zap.Stringer("tier", tier),
		zap.Stringer("cause", cause),
		zap.Duration("offset", offset),
		zap.Uint32("combo", e.combo.Current),
	)
	e.emit(Event{
		Kind:     Judged,
		Note:     id,
		Lane:     an.Note.Lane,
		NoteKind: an.Note.Kind,
		Tier:     tier,
		Cause:    cause,
		Time:     at,
		Offset:   offset,
		Combo:    e.combo,
	})
}

// compact drops resolved notes from the active set.
func (e *Engine) compact() {
	if !e.dirty {
		return
	}
	kept := e.active[:0]
	for _, id := range e.active {
		if e.notes[id].State != Resolved {
			kept = append(kept, id)
		}
	}
	e.active = kept
	e.dirty = false
}

func (e *Engine) emit(ev Event) {
	e.sink.Emit(ev)
}

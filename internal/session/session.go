// Package session runs an engine live against a clock.
package session

import (
	"context"
	"errors"
	"time"

	"git.lost.host/meutraa/lanes/internal/clock"
	"git.lost.host/meutraa/lanes/internal/engine"
	"git.lost.host/meutraa/lanes/internal/game"
	"go.uber.org/zap"
)

// Loop feeds input to an engine and ticks it once per frame. Input is
// queued as it arrives and applied at the start of the next frame.
type Loop struct {
	Engine *engine.Engine
	Clock  clock.Clock
	Inputs <-chan game.Input

	Period time.Duration // Time between frames
	Grace  time.Duration // How long to keep going once every note is judged

	// Input is called with every input as it is queued
	Input func(in game.Input)
	// Frame is called after every tick with the song time of the tick
	Frame  func(now time.Duration)
	Logger *zap.Logger
}

// Run blocks until the chart is over and the grace period has passed, the
// input channel is closed, or ctx is done. Input still queued when the
// channel closes is applied before returning.
func (l *Loop) Run(ctx context.Context) error {
	if l.Period <= 0 {
		return errors.New("frame period must be positive")
	}
	logger := l.Logger
	if nil == logger {
		logger = zap.NewNop()
	}

	ticker := time.NewTicker(l.Period)
	defer ticker.Stop()

	inputs := l.Inputs
	finished := false
	var finishedAt time.Duration
	for {
		select {
		case <-ctx.Done():
			logger.Debug("session cancelled", zap.Duration("now", l.Engine.Now()))
			return ctx.Err()
		case in, ok := <-inputs:
			if !ok {
				l.frame()
				logger.Debug("input closed", zap.Duration("now", l.Engine.Now()))
				return nil
			}
			if nil != l.Input {
				l.Input(in)
			}
			l.Engine.Enqueue(in)
		case <-ticker.C:
			now := l.frame()
			if !l.Engine.Done() {
				continue
			}
			if !finished {
				finished, finishedAt = true, now
				logger.Debug("chart finished", zap.Duration("now", now), zap.Duration("grace", l.Grace))
			}
			if now-finishedAt >= l.Grace {
				return nil
			}
		}
	}
}

func (l *Loop) frame() time.Duration {
	now := l.Clock.Now()
	l.Engine.Tick(now)
	if nil != l.Frame {
		l.Frame(now)
	}
	return now
}

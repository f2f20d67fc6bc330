package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"git.lost.host/meutraa/lanes/internal/clock"
	"git.lost.host/meutraa/lanes/internal/engine"
	"git.lost.host/meutraa/lanes/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

type fixture struct {
	loop     *Loop
	clock    *clock.Manual
	inputs   chan game.Input
	recorder *engine.Recorder
	frames   atomic.Int64
}

func newFixture(t *testing.T, notes []game.Note, grace time.Duration) *fixture {
	t.Helper()
	f := &fixture{
		clock:    clock.NewManual(0),
		inputs:   make(chan game.Input),
		recorder: &engine.Recorder{},
	}
	eng, err := engine.New(&game.Chart{Lanes: 4, Notes: notes}, engine.DefaultConfig(), f.recorder, nil)
	require.NoError(t, err)
	f.loop = &Loop{
		Engine: eng,
		Clock:  f.clock,
		Inputs: f.inputs,
		Period: time.Millisecond,
		Grace:  grace,
		Frame:  func(time.Duration) { f.frames.Add(1) },
		Logger: zaptest.NewLogger(t),
	}
	return f
}

func (f *fixture) start(ctx context.Context) <-chan error {
	errc := make(chan error, 1)
	go func() { errc <- f.loop.Run(ctx) }()
	return errc
}

func wait(t *testing.T, errc <-chan error) error {
	t.Helper()
	select {
	case err := <-errc:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("session never finished")
	}
	return nil
}

func TestRunJudgesAndFinishes(t *testing.T) {
	f := newFixture(t, []game.Note{
		{Time: ms(100), Lane: 1, Kind: game.Tap},
		{Time: ms(200), Lane: 2, Kind: game.Tap},
	}, 0)
	errc := f.start(context.Background())

	f.clock.Set(ms(100))
	f.inputs <- game.Input{Lane: 1, Action: game.Press, Time: ms(100)}
	f.clock.Set(time.Second)
	require.NoError(t, wait(t, errc))

	judged := f.recorder.Judgements()
	require.Len(t, judged, 2)
	assert.Equal(t, game.Perfect, judged[0].Tier)
	assert.Equal(t, engine.Hit, judged[0].Cause)
	assert.Equal(t, game.Miss, judged[1].Tier)
	assert.Equal(t, engine.Expired, judged[1].Cause)
	assert.True(t, f.loop.Engine.Done())
	assert.Positive(t, f.frames.Load())
}

func TestRunWaitsForGrace(t *testing.T) {
	f := newFixture(t, nil, ms(500))
	errc := f.start(context.Background())

	assert.Never(t, func() bool { return len(errc) > 0 }, 30*time.Millisecond, time.Millisecond)
	f.clock.Set(ms(500))
	require.NoError(t, wait(t, errc))
}

func TestRunStopsWhenInputCloses(t *testing.T) {
	f := newFixture(t, []game.Note{{Time: ms(100), Lane: 3, Kind: game.Tap}}, 0)
	var seen []game.Input
	f.loop.Input = func(in game.Input) { seen = append(seen, in) }
	errc := f.start(context.Background())

	f.clock.Set(ms(60))
	f.inputs <- game.Input{Lane: 3, Action: game.Press, Time: ms(60)}
	close(f.inputs)
	require.NoError(t, wait(t, errc))

	judged := f.recorder.Judgements()
	require.Len(t, judged, 1, "queued input is applied before stopping")
	assert.Equal(t, game.Great, judged[0].Tier)
	assert.Equal(t, []game.Input{{Lane: 3, Action: game.Press, Time: ms(60)}}, seen)
}

func TestRunStopsOnCancel(t *testing.T) {
	f := newFixture(t, []game.Note{{Time: time.Hour, Lane: 1, Kind: game.Tap}}, 0)
	ctx, cancel := context.WithCancel(context.Background())
	errc := f.start(ctx)

	cancel()
	assert.True(t, errors.Is(wait(t, errc), context.Canceled))
	assert.False(t, f.loop.Engine.Done())
}

func TestRunRejectsPeriod(t *testing.T) {
	f := newFixture(t, nil, 0)
	f.loop.Period = 0
	assert.Error(t, f.loop.Run(context.Background()))
}

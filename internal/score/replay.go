package score

import (
	"cmp"
	"fmt"
	"slices"

	"git.lost.host/meutraa/lanes/internal/clock"
	"git.lost.host/meutraa/lanes/internal/engine"
	"git.lost.host/meutraa/lanes/internal/game"
	"go.uber.org/zap"
)

type Result struct {
	Tally  *Tally
	Combo  engine.Combo
	Events []engine.Event
}

// Replay judges a recorded input log against a chart with a fresh engine.
// Each input is its own frame; after the last one the clock runs on until
// every note is resolved. The result only depends on the arguments.
func Replay(chart *game.Chart, inputs []game.Input, cfg engine.Config, logger *zap.Logger, sinks ...engine.Sink) (*Result, error) {
	tally := NewTally()
	recorder := &engine.Recorder{}
	eng, err := engine.New(chart, cfg, engine.Tee(append([]engine.Sink{tally, recorder}, sinks...)...), logger)
	if nil != err {
		return nil, fmt.Errorf("unable to start replay: %w", err)
	}

	ordered := slices.Clone(inputs)
	slices.SortStableFunc(ordered, func(a, b game.Input) int {
		return cmp.Compare(a.Time, b.Time)
	})

	clk := clock.NewManual(0)
	for _, in := range ordered {
		clk.Set(in.Time)
		eng.Enqueue(in)
		eng.Tick(clk.Now())
	}
	// Past this every pending note has expired and every hold has ended
	clk.Set(chart.Length() + eng.Config().Judgements.Widest() + 1)
	eng.Tick(clk.Now())
	if !eng.Done() {
		return nil, fmt.Errorf("replay finished with %d unresolved notes", len(eng.Active()))
	}

	return &Result{
		Tally:  tally,
		Combo:  eng.Combo(),
		Events: recorder.Events,
	}, nil
}

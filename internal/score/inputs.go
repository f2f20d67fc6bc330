package score

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"git.lost.host/meutraa/lanes/internal/game"
)

// InputsCompact is the input log of one lane.
type InputsCompact struct {
	Lane     int             `json:"lane"`
	Presses  []time.Duration `json:"presses"`
	Releases []time.Duration `json:"releases"`
}

// CompactInputs groups inputs by lane, keeping their order within a lane.
// Every lane up to the highest one used gets an entry. Inputs without a
// valid lane are dropped.
func CompactInputs(inputs []game.Input) []InputsCompact {
	laneCount := 0
	for _, i := range inputs {
		if i.Lane > laneCount {
			laneCount = i.Lane
		}
	}
	ins := make([]InputsCompact, laneCount)
	for i := range ins {
		ins[i] = InputsCompact{Lane: i + 1, Presses: []time.Duration{}, Releases: []time.Duration{}}
	}
	for _, i := range inputs {
		if i.Lane < 1 {
			continue
		}
		c := &ins[i.Lane-1]
		switch i.Action {
		case game.Press:
			c.Presses = append(c.Presses, i.Time)
		case game.Release:
			c.Releases = append(c.Releases, i.Time)
		}
	}
	return ins
}

// UncompactInputs merges lane logs back into one stream ordered by time.
// Inputs at the same time keep lane order, presses before releases.
func UncompactInputs(inputs []InputsCompact) []game.Input {
	ins := []game.Input{}
	for _, c := range inputs {
		for _, t := range c.Presses {
			ins = append(ins, game.Input{Lane: c.Lane, Action: game.Press, Time: t})
		}
		for _, t := range c.Releases {
			ins = append(ins, game.Input{Lane: c.Lane, Action: game.Release, Time: t})
		}
	}
	slices.SortStableFunc(ins, func(a, b game.Input) int {
		if c := cmp.Compare(a.Time, b.Time); c != 0 {
			return c
		}
		return cmp.Compare(a.Action, b.Action)
	})
	return ins
}

func WriteInputs(w io.Writer, inputs []game.Input) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(CompactInputs(inputs)); nil != err {
		return fmt.Errorf("unable to marshal inputs: %w", err)
	}
	return nil
}

func ReadInputs(r io.Reader) ([]game.Input, error) {
	var ins []InputsCompact
	if err := json.NewDecoder(r).Decode(&ins); nil != err {
		return nil, fmt.Errorf("unable to unmarshal inputs: %w", err)
	}
	return UncompactInputs(ins), nil
}

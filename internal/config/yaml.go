package config

import (
	"fmt"
	"io"
	"time"

	"git.lost.host/meutraa/lanes/internal/game"
	"gopkg.in/yaml.v3"
)

type windowFile struct {
	Tier   string        `yaml:"tier"`
	Window time.Duration `yaml:"window"`
}

type judgementFile struct {
	Lead        time.Duration  `yaml:"lead"`
	Windows     []windowFile   `yaml:"windows"`
	Weights     map[string]int `yaml:"weights"`
	HoldSuccess string         `yaml:"holdSuccess"`
	HoldFailure string         `yaml:"holdFailure"`
	Pass        string         `yaml:"pass"`
}

// LoadJudgements overlays a YAML judgement table on base. Fields left out
// of the file keep the value from base. A zero lead means the file did not
// set one.
//
//	lead: 1.5s
//	windows:
//	  - {tier: perfect, window: 20ms}
//	  - {tier: great, window: 50ms}
//	  - {tier: bad, window: 100ms}
//	weights: {perfect: 3, great: 2, bad: 1, miss: 0}
//	pass: great
func LoadJudgements(r io.Reader, base game.Judgements) (game.Judgements, time.Duration, error) {
	var file judgementFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); nil != err && err != io.EOF {
		return base, 0, err
	}

	j := base
	if len(file.Windows) > 0 {
		j.Windows = make([]game.Window, len(file.Windows))
		for i, w := range file.Windows {
			tier, err := game.ParseTier(w.Tier)
			if nil != err {
				return base, 0, fmt.Errorf("window %d: %w", i, err)
			}
			j.Windows[i] = game.Window{Tier: tier, Time: w.Window}
		}
		// Rank weights from base would not match the new table
		j.Weights = nil
	}
	if len(file.Weights) > 0 {
		j.Weights = make(map[game.Tier]int, len(file.Weights))
		for name, weight := range file.Weights {
			tier, err := game.ParseTier(name)
			if nil != err {
				return base, 0, fmt.Errorf("weights: %w", err)
			}
			j.Weights[tier] = weight
		}
	}
	for _, field := range []struct {
		value string
		dst   *game.Tier
	}{
		{file.HoldSuccess, &j.HoldSuccess},
		{file.HoldFailure, &j.HoldFailure},
		{file.Pass, &j.Pass},
	} {
		if field.value == "" {
			continue
		}
		tier, err := game.ParseTier(field.value)
		if nil != err {
			return base, 0, err
		}
		*field.dst = tier
	}

	if err := j.Validate(); nil != err {
		return base, 0, err
	}
	return j, file.Lead, nil
}

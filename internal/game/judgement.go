package game

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Tier is a judgement grade. Lower values are better.
type Tier uint8

const (
	Perfect Tier = iota
	Great
	Good
	Bad
	Miss
)

var tierNames = [...]string{"perfect", "great", "good", "bad", "miss"}

func (t Tier) String() string {
	if int(t) < len(tierNames) {
		return tierNames[t]
	}
	return fmt.Sprintf("tier(%d)", uint8(t))
}

func ParseTier(s string) (Tier, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range tierNames {
		if name == s {
			return Tier(i), nil
		}
	}
	return Miss, fmt.Errorf("unknown judgement tier %q", s)
}

func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tier) UnmarshalText(b []byte) error {
	parsed, err := ParseTier(string(b))
	if nil != err {
		return err
	}
	*t = parsed
	return nil
}

// Window is the largest absolute offset still judged as Tier.
type Window struct {
	Tier Tier          `yaml:"tier"`
	Time time.Duration `yaml:"window"`
}

// Judgements is the tier table. Windows are ordered tightest first and Miss
// never has a window of its own: anything outside the widest window misses.
type Judgements struct {
	Windows []Window     `yaml:"windows"`
	Weights map[Tier]int `yaml:"weights"`

	// Hold components blended with the tap tier of a hold note
	HoldSuccess Tier `yaml:"holdSuccess"`
	HoldFailure Tier `yaml:"holdFailure"`

	// Tiers at or better than Pass keep the combo going
	Pass Tier `yaml:"pass"`
}

func DefaultJudgements() Judgements {
	return Judgements{
		Windows: []Window{
			{Tier: Perfect, Time: 15 * time.Millisecond},
			{Tier: Great, Time: 60 * time.Millisecond},
			{Tier: Bad, Time: 120 * time.Millisecond},
		},
		Weights: map[Tier]int{
			Perfect: 3,
			Great:   2,
			Bad:     1,
			Miss:    0,
		},
		HoldSuccess: Perfect,
		HoldFailure: Miss,
		Pass:        Great,
	}
}

func (j Judgements) Validate() error {
	if len(j.Windows) == 0 {
		return errors.New("no judgement windows")
	}
	for i, w := range j.Windows {
		if w.Tier >= Miss {
			return fmt.Errorf("window %d: %v cannot have a window", i, w.Tier)
		}
		if w.Time <= 0 {
			return fmt.Errorf("window %d: non-positive window %v", i, w.Time)
		}
		if i == 0 {
			continue
		}
		prev := j.Windows[i-1]
		if w.Time <= prev.Time {
			return fmt.Errorf("window %d: %v is not wider than %v", i, w.Time, prev.Time)
		}
		if w.Tier <= prev.Tier {
			return fmt.Errorf("window %d: %v is not worse than %v", i, w.Tier, prev.Tier)
		}
	}
	tiers := j.Tiers()
	for i := 1; i < len(tiers); i++ {
		if j.Weight(tiers[i]) > j.Weight(tiers[i-1]) {
			return fmt.Errorf("weight of %v is above %v", tiers[i], tiers[i-1])
		}
	}
	if !j.has(j.HoldSuccess) || !j.has(j.HoldFailure) {
		return fmt.Errorf("hold components %v/%v are not in the table", j.HoldSuccess, j.HoldFailure)
	}
	if j.Weight(j.HoldFailure) > j.Weight(j.HoldSuccess) {
		return errors.New("hold failure weighs more than hold success")
	}
	return nil
}

func (j Judgements) has(t Tier) bool {
	for _, u := range j.Tiers() {
		if u == t {
			return true
		}
	}
	return false
}

// Tiers lists the tiers in use, best first, always ending with Miss.
func (j Judgements) Tiers() []Tier {
	tiers := make([]Tier, 0, len(j.Windows)+1)
	for _, w := range j.Windows {
		tiers = append(tiers, w.Tier)
	}
	return append(tiers, Miss)
}

// Widest is the miss window: past it nothing can be judged.
func (j Judgements) Widest() time.Duration {
	if len(j.Windows) == 0 {
		return 0
	}
	return j.Windows[len(j.Windows)-1].Time
}

// Classify returns the tightest tier whose window contains delta.
// Offsets outside every window do not match.
func (j Judgements) Classify(delta time.Duration) (Tier, bool) {
	if delta < 0 {
		delta = -delta
	}
	for _, w := range j.Windows {
		if delta <= w.Time {
			return w.Tier, true
		}
	}
	return Miss, false
}

// Weight is the blending score of a tier. Tiers missing from Weights score
// by rank, so the worst (Miss) is 0.
func (j Judgements) Weight(t Tier) int {
	if w, ok := j.Weights[t]; ok {
		return w
	}
	tiers := j.Tiers()
	for i, u := range tiers {
		if u == t {
			return len(tiers) - 1 - i
		}
	}
	return 0
}

// Blend averages the tap and hold components of a hold note and maps the
// rounded score back to the nearest tier, preferring the worse tier on ties.
func (j Judgements) Blend(tap, hold Tier) Tier {
	score := math.Round(float64(j.Weight(tap)+j.Weight(hold)) / 2)
	best := Miss
	distance := math.Inf(1)
	for _, t := range j.Tiers() {
		d := math.Abs(float64(j.Weight(t)) - score)
		if d <= distance {
			best, distance = t, d
		}
	}
	return best
}

func (j Judgements) Passes(t Tier) bool {
	return t != Miss && t <= j.Pass
}

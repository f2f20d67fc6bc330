package parser

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"git.lost.host/meutraa/lanes/internal/game"
)

// DefaultParser reads StepMania .sm files, one chart per supported
// difficulty.
type DefaultParser struct{}

type bpm struct {
	StartingBeat float64
	Value        float64
}

var laneCounts = map[string]int{
	"dance-single": 4,
	"dance-solo":   6,
	"dance-double": 8,
}

// 0 – No note
// 1 – Normal note
// 2 – Hold head
// 3 – Hold/Roll tail
// 4 – Roll head
// M – Mine (or other negative note)
// K – Automatic keysound
// L – Lift note
// F – Fake note

func (p *DefaultParser) secondsPerRow(rates []bpm, currentBeat float64, beatsPerRow float64) float64 {
	sel := rates[0].Value
	for _, r := range rates {
		if currentBeat >= r.StartingBeat {
			sel = r.Value
		} else {
			break
		}
	}
	return beatsPerRow * 60.0 / sel
}

func (p *DefaultParser) Parse(file string) ([]*game.Chart, error) {
	data, err := os.ReadFile(file)
	if nil != err {
		return nil, err
	}
	charts, err := p.Decode(string(data))
	if nil != err {
		return nil, fmt.Errorf("unable to parse %v: %w", file, err)
	}
	return charts, nil
}

type difficulty struct {
	name    string
	lanes   int
	section string
}

func (p *DefaultParser) Decode(data string) ([]*game.Chart, error) {
	str := strings.ReplaceAll(data, "\r", "")
	sections := strings.Split(str, "#NOTES:")
	meta := sections[0]

	difficulties := []difficulty{}
	for _, section := range sections[1:] {
		lines := strings.SplitN(section, "\n", 7)
		if len(lines) < 7 {
			continue
		}
		chartType := strings.TrimSuffix(strings.TrimSpace(lines[1]), ":")
		lanes, ok := laneCounts[chartType]
		if !ok {
			continue
		}
		difficulties = append(difficulties, difficulty{
			name:    strings.TrimSuffix(strings.TrimSpace(lines[3]), ":"),
			lanes:   lanes,
			section: lines[6],
		})
	}

	title := ""
	offset := 0.0
	rates := []bpm{}
	for _, mdl := range strings.Split(meta, "#") {
		mdl = strings.TrimSuffix(strings.TrimSpace(mdl), ";")
		key, value, found := strings.Cut(mdl, ":")
		if !found {
			continue
		}
		switch key {
		case "TITLE":
			title = strings.TrimSpace(value)
		case "OFFSET":
			offs, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if nil != err {
				return nil, fmt.Errorf("bad offset: %w", err)
			}
			offset = -offs
		case "BPMS":
			for _, pair := range strings.Split(strings.ReplaceAll(value, "\n", ""), ",") {
				beat, value, found := strings.Cut(pair, "=")
				if !found {
					continue
				}
				sb, err := strconv.ParseFloat(strings.TrimSpace(beat), 64)
				if nil != err {
					return nil, fmt.Errorf("bad bpm beat: %w", err)
				}
				v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
				if nil != err {
					return nil, fmt.Errorf("bad bpm: %w", err)
				}
				if v <= 0 {
					return nil, fmt.Errorf("bpm %v at beat %v", v, sb)
				}
				rates = append(rates, bpm{StartingBeat: sb, Value: v})
			}
		}
	}
	if len(rates) == 0 {
		return nil, errors.New("no bpms")
	}
	slices.SortStableFunc(rates, func(a, b bpm) int { return cmp.Compare(a.StartingBeat, b.StartingBeat) })

	charts := []*game.Chart{}
	for _, d := range difficulties {
		chart := &game.Chart{
			Title: strings.TrimSpace(title + " " + d.name),
			BPM:   rates[0].Value,
			Lanes: d.lanes,
			Notes: p.notes(d, rates, offset),
		}
		if err := chart.Validate(); nil != err {
			return nil, fmt.Errorf("%v: %w", d.name, err)
		}
		charts = append(charts, chart)
	}
	return charts, nil
}

func (p *DefaultParser) notes(d difficulty, rates []bpm, offset float64) []game.Note {
	seconds := offset
	currentBeat := 0.0
	notes := []game.Note{}
	heads := make([]int, d.lanes) // index of the open hold head per lane
	for i := range heads {
		heads[i] = -1
	}

	for _, block := range strings.Split(d.section, ",") {
		rows := []string{}
		for _, l := range strings.Split(block, "\n") {
			if i := strings.Index(l, "//"); i >= 0 {
				l = l[:i]
			}
			l = strings.TrimSuffix(strings.TrimSpace(l), ";")
			if len(l) == d.lanes {
				rows = append(rows, l)
			}
		}
		if len(rows) == 0 {
			continue
		}

		// Beat count is 4 per measure
		beatsPerRow := 4.0 / float64(len(rows))
		for _, row := range rows {
			at := game.Seconds(seconds)
			for i, c := range []byte(row) {
				switch c {
				case '1':
					notes = append(notes, game.Note{Time: at, Lane: i + 1, Kind: game.Tap})
				case '2', '4':
					heads[i] = len(notes)
					notes = append(notes, game.Note{Time: at, Lane: i + 1, Kind: game.Hold})
				case '3':
					if h := heads[i]; h >= 0 {
						notes[h].Duration = at - notes[h].Time
						heads[i] = -1
					}
				}
			}
			seconds += p.secondsPerRow(rates, currentBeat, beatsPerRow)
			currentBeat += beatsPerRow
		}
	}

	// A head without a tail is only a tap
	for i := range notes {
		if notes[i].Kind == game.Hold && notes[i].Duration <= 0 {
			notes[i].Kind = game.Tap
			notes[i].Duration = 0
		}
	}
	slices.SortStableFunc(notes, func(a, b game.Note) int {
		return cmp.Compare(a.Time, b.Time)
	})
	return notes
}

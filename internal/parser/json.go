package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"git.lost.host/meutraa/lanes/internal/game"
)

const defaultLanes = 4

type scoreFile struct {
	SongTitle string        `json:"song_title"`
	BPM       float64       `json:"bpm"`
	Lanes     int           `json:"lanes,omitempty"`
	Notes     []game.Record `json:"notes"`
}

// JSONParser reads score.json charts. Lanes is used when the file does
// not say how many lanes it has.
type JSONParser struct {
	Lanes int
}

func (p *JSONParser) Parse(file string) ([]*game.Chart, error) {
	f, err := os.Open(file)
	if nil != err {
		return nil, err
	}
	defer f.Close()
	chart, err := p.Decode(f)
	if nil != err {
		return nil, fmt.Errorf("unable to parse %v: %w", file, err)
	}
	return []*game.Chart{chart}, nil
}

func (p *JSONParser) Decode(r io.Reader) (*game.Chart, error) {
	var score scoreFile
	if err := json.NewDecoder(r).Decode(&score); nil != err {
		return nil, err
	}
	lanes := score.Lanes
	if lanes == 0 {
		lanes = p.Lanes
	}
	if lanes == 0 {
		lanes = defaultLanes
	}
	return game.ChartFromRecords(score.SongTitle, score.BPM, lanes, score.Notes)
}

package testdata

import (
	"encoding/json"
	"time"

	"git.lost.host/meutraa/lanes/internal/game"
)

// Score is a four lane chart mixing taps and holds.
const Score = `{
  "song_title": "Fixture",
  "bpm": 120,
  "notes": [
    {"targetTime": 1.0, "lane": 1, "type": 0},
    {"targetTime": 1.5, "lane": 2, "type": 0},
    {"targetTime": 2.0, "lane": 3, "type": 1, "duration": 1.0},
    {"targetTime": 2.5, "lane": 4, "type": 0},
    {"targetTime": 3.5, "lane": 1, "type": 1, "duration": 0.5},
    {"targetTime": 4.5, "lane": 2, "type": 0}
  ]
}`

type score struct {
	Title string        `json:"song_title"`
	BPM   float64       `json:"bpm"`
	Notes []game.Record `json:"notes"`
}

func GetChart() (*game.Chart, error) {
	var s score
	if err := json.Unmarshal([]byte(Score), &s); nil != err {
		return nil, err
	}
	return game.ChartFromRecords(s.Title, s.BPM, 4, s.Notes)
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// Inputs is a performance of Score: a perfect, a great, a completed hold,
// a missed tap, a hold let go early after a bad press and a final perfect.
func Inputs() []game.Input {
	return []game.Input{
		{Lane: 1, Action: game.Press, Time: ms(1010)},
		{Lane: 1, Action: game.Release, Time: ms(1050)},
		{Lane: 2, Action: game.Press, Time: ms(1460)},
		{Lane: 2, Action: game.Release, Time: ms(1500)},
		{Lane: 3, Action: game.Press, Time: ms(2000)},
		{Lane: 3, Action: game.Release, Time: ms(3100)},
		{Lane: 1, Action: game.Press, Time: ms(3600)},
		{Lane: 1, Action: game.Release, Time: ms(3700)},
		{Lane: 2, Action: game.Press, Time: ms(4500)},
		{Lane: 2, Action: game.Release, Time: ms(4550)},
	}
}

package parser

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"git.lost.host/meutraa/lanes/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func TestForFile(t *testing.T) {
	cases := map[string]Parser{
		"a.json": &JSONParser{Lanes: 4},
		"a.SM":   &DefaultParser{},
		"a.mid":  &MidiParser{Lanes: 4, HoldThreshold: 300 * time.Millisecond},
		"a.midi": &MidiParser{Lanes: 4, HoldThreshold: 300 * time.Millisecond},
	}
	for file, expected := range cases {
		p, err := ForFile(file, 4)
		require.NoError(t, err, file)
		assert.Equal(t, expected, p, file)
	}
	_, err := ForFile("a.ogg", 4)
	assert.Error(t, err)
}

const score = `{
  "song_title": "Test",
  "bpm": 128,
  "notes": [
    {"targetTime": 1.0, "lane": 1, "type": 0},
    {"targetTime": 1.5, "lane": 4, "type": 0},
    {"targetTime": 2.0, "lane": 3, "type": 1, "duration": 1.0}
  ]
}`

func TestJSONDecode(t *testing.T) {
	chart, err := (&JSONParser{}).Decode(strings.NewReader(score))
	require.NoError(t, err)
	assert.Equal(t, "Test", chart.Title)
	assert.Equal(t, 128.0, chart.BPM)
	assert.Equal(t, 4, chart.Lanes)
	assert.Equal(t, []game.Note{
		{Time: ms(1000), Lane: 1, Kind: game.Tap},
		{Time: ms(1500), Lane: 4, Kind: game.Tap},
		{Time: ms(2000), Lane: 3, Kind: game.Hold, Duration: ms(1000)},
	}, chart.Notes)
}

func TestJSONDecodeInvalid(t *testing.T) {
	_, err := (&JSONParser{}).Decode(strings.NewReader(`{"notes": [
		{"targetTime": 2.0, "lane": 1, "type": 0},
		{"targetTime": 1.0, "lane": 1, "type": 0}
	]}`))
	assert.True(t, errors.Is(err, game.ErrInvalidChart))

	_, err = (&JSONParser{Lanes: 2}).Decode(strings.NewReader(`{"notes": [{"targetTime": 1.0, "lane": 3, "type": 0}]}`))
	assert.True(t, errors.Is(err, game.ErrInvalidChart))

	_, err = (&JSONParser{}).Decode(strings.NewReader(`{"notes": `))
	assert.Error(t, err)
}

func TestJSONParse(t *testing.T) {
	file := filepath.Join(t.TempDir(), "score.json")
	require.NoError(t, os.WriteFile(file, []byte(score), 0o644))
	charts, err := (&JSONParser{}).Parse(file)
	require.NoError(t, err)
	require.Len(t, charts, 1)
	assert.Equal(t, 3, charts[0].NoteCount())

	_, err = (&JSONParser{}).Parse(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

const sm = `#TITLE:Test Song;
#OFFSET:0.000;
#BPMS:0.000=120.000;
#NOTES:
     dance-single:
     :
     Beginner:
     1:
     0,0,0,0,0:
1000
0100
0010
0001
,  // measure 2
2000
0000
3000
M000
;
#NOTES:
     pump-single:
     :
     Hard:
     8:
     0,0,0,0,0:
10000
;
`

func TestSMDecode(t *testing.T) {
	charts, err := (&DefaultParser{}).Decode(sm)
	require.NoError(t, err)
	require.Len(t, charts, 1)

	chart := charts[0]
	assert.Equal(t, "Test Song Beginner", chart.Title)
	assert.Equal(t, 120.0, chart.BPM)
	assert.Equal(t, 4, chart.Lanes)
	assert.Equal(t, []game.Note{
		{Time: 0, Lane: 1, Kind: game.Tap},
		{Time: ms(500), Lane: 2, Kind: game.Tap},
		{Time: ms(1000), Lane: 3, Kind: game.Tap},
		{Time: ms(1500), Lane: 4, Kind: game.Tap},
		{Time: ms(2000), Lane: 1, Kind: game.Hold, Duration: ms(1000)},
	}, chart.Notes)
}

func TestSMDecodeBPMChangeAndOffset(t *testing.T) {
	data := strings.Replace(sm, "#BPMS:0.000=120.000;", "#BPMS:0.000=120.000,\n4.000=240.000;", 1)
	data = strings.Replace(data, "#OFFSET:0.000;", "#OFFSET:-0.100;", 1)
	charts, err := (&DefaultParser{}).Decode(data)
	require.NoError(t, err)

	notes := charts[0].Notes
	require.Len(t, notes, 5)
	assert.Equal(t, ms(100), notes[0].Time)
	assert.Equal(t, ms(2100), notes[4].Time)
	assert.Equal(t, ms(500), notes[4].Duration, "second measure runs at 240 bpm")
}

func TestSMDecodeHeadWithoutTail(t *testing.T) {
	data := strings.Replace(sm, "3000\n", "0000\n", 1)
	charts, err := (&DefaultParser{}).Decode(data)
	require.NoError(t, err)
	assert.Equal(t, game.Note{Time: ms(2000), Lane: 1, Kind: game.Tap}, charts[0].Notes[4])
}

func TestSMDecodeErrors(t *testing.T) {
	_, err := (&DefaultParser{}).Decode(strings.Replace(sm, "#BPMS:0.000=120.000;", "", 1))
	assert.Error(t, err)
	_, err = (&DefaultParser{}).Decode(strings.Replace(sm, "0.000;", "zero;", 1))
	assert.Error(t, err)
}

func midiFile(t *testing.T) []byte {
	t.Helper()
	var (
		clock = smf.MetricTicks(96)
		tr    smf.Track
	)
	tr.Add(0, smf.MetaTempo(120))
	tr.Add(0, midi.NoteOn(0, 60, 100))
	tr.Add(0, midi.NoteOn(0, 64, 100)) // folds onto lane 1 as well
	tr.Add(clock.Ticks8th(), midi.NoteOff(0, 60))
	tr.Add(0, midi.NoteOff(0, 64))
	tr.Add(clock.Ticks8th(), midi.NoteOn(0, 62, 100))
	tr.Add(clock.Ticks4th()*2, midi.NoteOff(0, 62))
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = clock
	require.NoError(t, s.Add(tr))
	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestMidiDecode(t *testing.T) {
	p := &MidiParser{Lanes: 4, HoldThreshold: 300 * time.Millisecond}
	chart, err := p.Decode(bytes.NewReader(midiFile(t)), "song")
	require.NoError(t, err)

	assert.Equal(t, "song", chart.Title)
	assert.Equal(t, 120.0, chart.BPM)
	assert.Equal(t, []game.Note{
		{Time: 0, Lane: 1, Kind: game.Tap},
		{Time: ms(500), Lane: 3, Kind: game.Hold, Duration: ms(1000)},
	}, chart.Notes)
}

func TestMidiParse(t *testing.T) {
	file := filepath.Join(t.TempDir(), "song.mid")
	require.NoError(t, os.WriteFile(file, midiFile(t), 0o644))
	charts, err := (&MidiParser{Lanes: 2}).Parse(file)
	require.NoError(t, err)
	require.Len(t, charts, 1)
	assert.Equal(t, "song", charts[0].Title)
	assert.Equal(t, 0, charts[0].HoldCount(), "no threshold means taps only")
}

func TestMidiDecodeGarbage(t *testing.T) {
	_, err := (&MidiParser{}).Decode(bytes.NewReader([]byte("definitely not a midi file")), "x")
	assert.Error(t, err)
}

package parser

import (
	"bytes"
	"cmp"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"git.lost.host/meutraa/lanes/internal/game"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// MidiParser turns every note of a standard MIDI file into a chart note.
// The lane is the key modulo the lane count and notes sounding at least
// HoldThreshold become holds.
type MidiParser struct {
	Lanes         int
	HoldThreshold time.Duration
}

func (p *MidiParser) Parse(file string) ([]*game.Chart, error) {
	data, err := os.ReadFile(file)
	if nil != err {
		return nil, fmt.Errorf("unable to read midi file: %w", err)
	}
	title := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	chart, err := p.Decode(bytes.NewReader(data), title)
	if nil != err {
		return nil, fmt.Errorf("unable to parse %v: %w", file, err)
	}
	return []*game.Chart{chart}, nil
}

type sounding struct {
	track   int
	channel uint8
	key     uint8
}

func (p *MidiParser) Decode(r io.Reader, title string) (chart *game.Chart, err error) {
	// smf can panic on malformed input
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); nil != r {
			chart, err = nil, fmt.Errorf("malformed midi: %v", r)
		}
	}()

	lanes := p.Lanes
	if lanes <= 0 {
		lanes = defaultLanes
	}

	tempo := 0.0
	open := map[sounding]int64{}
	notes := []game.Note{}
	reader := smf.ReadTracksFrom(r).Do(func(ev smf.TrackEvent) {
		var channel, key, velocity uint8
		var bpm float64
		msg := midi.Message(ev.Message)
		switch {
		case ev.Message.GetMetaTempo(&bpm):
			if tempo == 0 {
				tempo = bpm
			}
		case msg.GetNoteStart(&channel, &key, &velocity):
			s := sounding{ev.TrackNo, channel, key}
			if _, ok := open[s]; !ok {
				open[s] = ev.AbsMicroSeconds
			}
		case msg.GetNoteEnd(&channel, &key):
			s := sounding{ev.TrackNo, channel, key}
			start, ok := open[s]
			if !ok {
				return
			}
			delete(open, s)
			notes = append(notes, p.note(start, ev.AbsMicroSeconds, key, lanes))
		}
	})
	if err := reader.Error(); nil != err {
		return nil, err
	}

	// Notes are collected by end time, across tracks
	slices.SortStableFunc(notes, func(a, b game.Note) int {
		if c := cmp.Compare(a.Time, b.Time); c != 0 {
			return c
		}
		return cmp.Compare(a.Lane, b.Lane)
	})
	// Keys folded onto the same lane at the same time are one note
	notes = slices.CompactFunc(notes, func(a, b game.Note) bool {
		return a.Time == b.Time && a.Lane == b.Lane
	})

	chart = &game.Chart{
		Title: title,
		BPM:   tempo,
		Lanes: lanes,
		Notes: notes,
	}
	if err := chart.Validate(); nil != err {
		return nil, err
	}
	return chart, nil
}

func (p *MidiParser) note(start, end int64, key uint8, lanes int) game.Note {
	n := game.Note{
		Time: time.Duration(start) * time.Microsecond,
		Lane: int(key)%lanes + 1,
		Kind: game.Tap,
	}
	length := time.Duration(end-start) * time.Microsecond
	if p.HoldThreshold > 0 && length >= p.HoldThreshold {
		n.Kind = game.Hold
		n.Duration = length
	}
	return n
}

package game

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/multierr"
)

var ErrInvalidChart = errors.New("invalid chart")

type Chart struct {
	Title string
	BPM   float64
	Lanes int
	Notes []Note
}

// Record is a chart note as it crosses the loader boundary.
// Type 0 is a tap and 1 is a hold; times are in seconds.
type Record struct {
	TargetTime float64  `json:"targetTime"`
	Lane       int      `json:"lane"`
	Type       int      `json:"type"`
	Duration   *float64 `json:"duration,omitempty"`
}

// Seconds converts a floating point second count to a duration,
// rounding to the nearest nanosecond.
func Seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

func (r Record) Note() (Note, error) {
	if math.IsNaN(r.TargetTime) || math.IsInf(r.TargetTime, 0) {
		return Note{}, fmt.Errorf("target time %v is not a number", r.TargetTime)
	}
	n := Note{
		Time: Seconds(r.TargetTime),
		Lane: r.Lane,
	}
	switch r.Type {
	case 0:
		n.Kind = Tap
	case 1:
		n.Kind = Hold
		if nil == r.Duration {
			return Note{}, errors.New("hold note is missing a duration")
		}
		if math.IsNaN(*r.Duration) || math.IsInf(*r.Duration, 0) {
			return Note{}, fmt.Errorf("hold duration %v is not a number", *r.Duration)
		}
		n.Duration = Seconds(*r.Duration)
	default:
		return Note{}, fmt.Errorf("unknown note type %d", r.Type)
	}
	return n, nil
}

// ChartFromRecords builds a validated chart from boundary records.
// Every malformed record is reported, not only the first.
func ChartFromRecords(title string, bpm float64, lanes int, records []Record) (*Chart, error) {
	c := &Chart{
		Title: title,
		BPM:   bpm,
		Lanes: lanes,
		Notes: make([]Note, 0, len(records)),
	}
	var err error
	for i, r := range records {
		n, nerr := r.Note()
		if nil != nerr {
			err = multierr.Append(err, fmt.Errorf("note %d: %w", i, nerr))
			continue
		}
		c.Notes = append(c.Notes, n)
	}
	if nil != err {
		return nil, fmt.Errorf("%w: %v", ErrInvalidChart, err)
	}
	if err := c.Validate(); nil != err {
		return nil, err
	}
	return c, nil
}

// Validate checks the invariants the engine relies on: notes are sorted by
// time, lanes are in range and only holds carry a duration.
func (c *Chart) Validate() error {
	if c.Lanes <= 0 {
		return fmt.Errorf("%w: lane count %d", ErrInvalidChart, c.Lanes)
	}
	var err error
	for i, n := range c.Notes {
		if n.Time < 0 {
			err = multierr.Append(err, fmt.Errorf("note %d: negative time %v", i, n.Time))
		}
		if n.Lane < 1 || n.Lane > c.Lanes {
			err = multierr.Append(err, fmt.Errorf("note %d: lane %d outside 1..%d", i, n.Lane, c.Lanes))
		}
		switch n.Kind {
		case Tap:
			if n.Duration != 0 {
				err = multierr.Append(err, fmt.Errorf("note %d: tap with duration %v", i, n.Duration))
			}
		case Hold:
			if n.Duration <= 0 {
				err = multierr.Append(err, fmt.Errorf("note %d: hold with duration %v", i, n.Duration))
			}
		default:
			err = multierr.Append(err, fmt.Errorf("note %d: unknown kind %v", i, n.Kind))
		}
		if i > 0 && n.Time < c.Notes[i-1].Time {
			err = multierr.Append(err, fmt.Errorf("note %d: time %v before previous note at %v", i, n.Time, c.Notes[i-1].Time))
		}
	}
	if nil != err {
		return fmt.Errorf("%w: %v", ErrInvalidChart, err)
	}
	return nil
}

// Sorted reports whether the notes are in ascending time order.
func (c *Chart) Sorted() bool {
	for i := 1; i < len(c.Notes); i++ {
		if c.Notes[i].Time < c.Notes[i-1].Time {
			return false
		}
	}
	return true
}

func (c *Chart) NoteCount() int {
	return len(c.Notes)
}

func (c *Chart) HoldCount() int {
	count := 0
	for _, n := range c.Notes {
		if n.Kind == Hold {
			count++
		}
	}
	return count
}

// Length is the time the last note finishes.
func (c *Chart) Length() time.Duration {
	var end time.Duration
	for _, n := range c.Notes {
		if n.End() > end {
			end = n.End()
		}
	}
	return end
}

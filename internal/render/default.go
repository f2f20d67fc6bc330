// Package render prints the judgement stream of a session as text.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"git.lost.host/meutraa/lanes/internal/engine"
	"git.lost.host/meutraa/lanes/internal/game"
	"git.lost.host/meutraa/lanes/internal/score"
	"git.lost.host/meutraa/lanes/internal/theme"
)

// Printer is an event sink writing one line per judgement. Lines are
// buffered until Flush, so it can be fed from the engine and written once a
// frame.
type Printer struct {
	// Also print activations and hold starts
	Verbose bool
	// Replaces "\n" when set, raw terminals need "\r\n"
	LineEnding string

	w      io.Writer
	theme  theme.Theme
	buffer strings.Builder
}

func NewPrinter(w io.Writer, th theme.Theme) *Printer {
	return &Printer{w: w, theme: th}
}

func (p *Printer) Emit(ev engine.Event) {
	switch ev.Kind {
	case engine.Judged:
		fmt.Fprintf(&p.buffer, "%9v  %v %v  %v  %8v  %-13v x%v\n",
			seconds(ev.Time),
			p.theme.RenderNote(ev.Lane, ev.NoteKind),
			p.theme.RenderLane(ev.Lane),
			p.theme.RenderTier(ev.Tier),
			signed(ev.Offset),
			ev.Cause,
			ev.Combo.Current,
		)
	case engine.Skipped:
		fmt.Fprintf(&p.buffer, "%9v  skipped note %v: %v\n", seconds(ev.Time), ev.Note, ev.Err)
	case engine.Activated, engine.HoldStarted:
		if !p.Verbose {
			return
		}
		fmt.Fprintf(&p.buffer, "%9v  %v %v  %v\n",
			seconds(ev.Time),
			p.theme.RenderNote(ev.Lane, ev.NoteKind),
			p.theme.RenderLane(ev.Lane),
			ev.Kind,
		)
	}
}

// Summary queues the totals of a session, every tier of the table included.
func (p *Printer) Summary(tally *score.Tally, combo engine.Combo, tiers []game.Tier) {
	p.buffer.WriteString("\n")
	fmt.Fprintf(&p.buffer, "   Error dt:  %8v\n", tally.TotalError.Round(time.Microsecond))
	fmt.Fprintf(&p.buffer, "      Stdev:  %8v\n", tally.Stdev().Round(time.Microsecond))
	fmt.Fprintf(&p.buffer, "       Mean:  %8v\n", signed(tally.Mean().Round(time.Microsecond)))
	fmt.Fprintf(&p.buffer, "      Total:  %8v\n", tally.Judged)
	if tally.Skipped > 0 {
		fmt.Fprintf(&p.buffer, "    Skipped:  %8v\n", tally.Skipped)
	}
	for _, tier := range tiers {
		fmt.Fprintf(&p.buffer, "    %v:  %6v\n", p.theme.RenderTier(tier), tally.Count(tier))
	}
	fmt.Fprintf(&p.buffer, "  Max combo:  %8v\n", combo.Max)
}

func (p *Printer) Flush() error {
	if p.buffer.Len() == 0 {
		return nil
	}
	out := p.buffer.String()
	if p.LineEnding != "" {
		out = strings.ReplaceAll(out, "\n", p.LineEnding)
	}
	_, err := io.WriteString(p.w, out)
	p.buffer.Reset()
	return err
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.3fs", d.Seconds())
}

func signed(d time.Duration) string {
	if d > 0 {
		return "+" + d.String()
	}
	return d.String()
}

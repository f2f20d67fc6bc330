package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"git.lost.host/meutraa/lanes/internal/engine"
	"git.lost.host/meutraa/lanes/internal/game"
	"git.lost.host/meutraa/lanes/internal/score"
	"git.lost.host/meutraa/lanes/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinter(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, theme.NewDefaultTheme(&out))

	p.Emit(engine.Event{Kind: engine.Activated, Lane: 1, Time: time.Second})
	p.Emit(engine.Event{
		Kind:   engine.Judged,
		Lane:   2,
		Tier:   game.Great,
		Cause:  engine.Hit,
		Time:   1460 * time.Millisecond,
		Offset: -40 * time.Millisecond,
		Combo:  engine.Combo{Current: 2, Max: 2},
	})
	p.Emit(engine.Event{Kind: engine.Skipped, Note: 7, Time: 2 * time.Second, Err: errors.New("lane 9 outside 1..4")})
	assert.Zero(t, out.Len(), "nothing is written before a flush")

	require.NoError(t, p.Flush())
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "1.460s")
	assert.Contains(t, lines[0], "GREAT")
	assert.Contains(t, lines[0], "-40ms")
	assert.Contains(t, lines[0], "x2")
	assert.Contains(t, lines[1], "skipped note 7: lane 9 outside 1..4")

	out.Reset()
	require.NoError(t, p.Flush())
	assert.Zero(t, out.Len())
}

func TestPrinterVerbose(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, theme.NewDefaultTheme(&out))
	p.Verbose = true

	p.Emit(engine.Event{Kind: engine.Activated, Lane: 1, Time: time.Second})
	p.Emit(engine.Event{Kind: engine.HoldStarted, Lane: 3, NoteKind: game.Hold, Time: 2 * time.Second})
	require.NoError(t, p.Flush())
	assert.Contains(t, out.String(), "activated")
	assert.Contains(t, out.String(), "held")
}

func TestSummary(t *testing.T) {
	tally := score.NewTally()
	tally.Emit(engine.Event{Kind: engine.Judged, Tier: game.Perfect, Offset: 5 * time.Millisecond})
	tally.Emit(engine.Event{Kind: engine.Judged, Tier: game.Miss, Cause: engine.Expired})

	var out bytes.Buffer
	p := NewPrinter(&out, theme.NewDefaultTheme(&out))
	p.Summary(tally, engine.Combo{Current: 0, Max: 1}, game.DefaultJudgements().Tiers())
	require.NoError(t, p.Flush())

	s := out.String()
	assert.Contains(t, s, "Error dt:       5ms")
	assert.Contains(t, s, "Total:         2")
	assert.Contains(t, s, "PERFECT:       1")
	assert.Contains(t, s, "MISS   :       1")
	assert.Contains(t, s, "Max combo:         1")
	assert.NotContains(t, s, "GOOD", "tiers outside the table are left out")
}

func TestPrinterLineEnding(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, theme.NewDefaultTheme(&out))
	p.LineEnding = "\r\n"
	p.Emit(engine.Event{Kind: engine.Judged, Lane: 1, Tier: game.Perfect})
	p.Emit(engine.Event{Kind: engine.Judged, Lane: 2, Tier: game.Perfect})
	require.NoError(t, p.Flush())
	assert.Equal(t, 2, strings.Count(out.String(), "\r\n"))
}

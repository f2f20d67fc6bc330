package theme

import (
	"io"
	"strconv"
	"strings"

	"git.lost.host/meutraa/lanes/internal/game"
	"github.com/charmbracelet/lipgloss"
)

// DefaultTheme colours output for the terminal behind w. Writers that are
// not terminals get plain text.
type DefaultTheme struct {
	tiers map[game.Tier]lipgloss.Style
	lanes []lipgloss.Style
	width int
}

const (
	tapSym  = "⬤"
	holdSym = "▮"
)

var (
	tierColors = map[game.Tier]lipgloss.Color{
		game.Perfect: "#00EC80", // green
		game.Great:   "#0076EC", // blue
		game.Good:    "#ECC300", // yellow
		game.Bad:     "#EC8000", // orange
		game.Miss:    "#EC1E00", // red
	}
	laneColors = [...]lipgloss.Color{
		"#EC1E00", // red
		"#0076EC", // blue
		"#6A00EC", // purple
		"#ECC300", // yellow
		"#EC006A", // pink
		"#EC8000", // orange
		"#ADECEC", // light blue
		"#6E9359", // olive
	}
)

func NewDefaultTheme(w io.Writer) *DefaultTheme {
	r := lipgloss.NewRenderer(w)
	t := &DefaultTheme{tiers: map[game.Tier]lipgloss.Style{}}
	for tier, color := range tierColors {
		t.tiers[tier] = r.NewStyle().Bold(true).Foreground(color)
		if len(tier.String()) > t.width {
			t.width = len(tier.String())
		}
	}
	for _, color := range laneColors {
		t.lanes = append(t.lanes, r.NewStyle().Foreground(color))
	}
	return t
}

func (t *DefaultTheme) RenderTier(tier game.Tier) string {
	name := strings.ToUpper(tier.String())
	name += strings.Repeat(" ", max(0, t.width-len(name)))
	style, ok := t.tiers[tier]
	if !ok {
		return name
	}
	return style.Render(name)
}

func (t *DefaultTheme) RenderLane(lane int) string {
	return t.lane(lane).Render(strconv.Itoa(lane))
}

func (t *DefaultTheme) RenderNote(lane int, kind game.Kind) string {
	sym := tapSym
	if kind == game.Hold {
		sym = holdSym
	}
	return t.lane(lane).Render(sym)
}

func (t *DefaultTheme) lane(lane int) lipgloss.Style {
	if lane < 1 {
		return lipgloss.NewStyle()
	}
	return t.lanes[(lane-1)%len(t.lanes)]
}

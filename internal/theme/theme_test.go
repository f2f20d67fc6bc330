package theme

import (
	"bytes"
	"testing"

	"git.lost.host/meutraa/lanes/internal/game"
	"github.com/stretchr/testify/assert"
)

func TestDefaultThemePlain(t *testing.T) {
	var th Theme = NewDefaultTheme(&bytes.Buffer{})

	assert.Equal(t, "PERFECT", th.RenderTier(game.Perfect))
	assert.Equal(t, "MISS   ", th.RenderTier(game.Miss))
	assert.Equal(t, "3", th.RenderLane(3))
	assert.Equal(t, tapSym, th.RenderNote(12, game.Tap))
	assert.Equal(t, holdSym, th.RenderNote(0, game.Hold))
}

package theme

import "git.lost.host/meutraa/lanes/internal/game"

type Theme interface {
	RenderTier(tier game.Tier) string
	RenderLane(lane int) string
	RenderNote(lane int, kind game.Kind) string
}

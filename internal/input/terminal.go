package input

import (
	"context"
	"time"

	"git.lost.host/meutraa/lanes/internal/clock"
	"git.lost.host/meutraa/lanes/internal/game"
	"github.com/bep/debounce"
	"github.com/eiannone/keyboard"
	"go.uber.org/zap"
)

// ReadTerminal turns raw terminal key events into lane input. Terminals only
// report key downs and auto-repeat, so the first key down presses the lane,
// repeats keep it down and a release is sent once no repeat arrived for gap.
// Escape and ctrl-c close the channel.
func ReadTerminal(ctx context.Context, keys <-chan keyboard.KeyEvent, keymap map[rune]int, clk clock.Clock, gap time.Duration, logger *zap.Logger) <-chan game.Input {
	if nil == logger {
		logger = zap.NewNop()
	}
	inputs := make(chan game.Input, 128)
	released := make(chan int)
	done := make(chan struct{})

	down := map[int]bool{}
	releasers := map[int]func(func()){}
	releaser := func(lane int) func(func()) {
		d, ok := releasers[lane]
		if !ok {
			d = debounce.New(gap)
			releasers[lane] = d
		}
		return d
	}

	send := func(in game.Input) bool {
		select {
		case inputs <- in:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(inputs)
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case lane := <-released:
				if !down[lane] {
					continue
				}
				down[lane] = false
				if !send(game.Input{Lane: lane, Action: game.Release, Time: clk.Now()}) {
					return
				}
			case key, ok := <-keys:
				if !ok {
					return
				}
				if nil != key.Err {
					logger.Error("unable to read terminal key", zap.Error(key.Err))
					return
				}
				if key.Key == keyboard.KeyEsc || key.Key == keyboard.KeyCtrlC {
					return
				}
				r := key.Rune
				if key.Key == keyboard.KeySpace {
					r = ' '
				}
				lane, ok := keymap[r]
				if !ok {
					continue
				}
				releaser(lane)(func() {
					select {
					case released <- lane:
					case <-done:
					}
				})
				if down[lane] {
					continue
				}
				down[lane] = true
				if !send(game.Input{Lane: lane, Action: game.Press, Time: clk.Now()}) {
					return
				}
			}
		}
	}()
	return inputs
}

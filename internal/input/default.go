// Package input turns key devices into lane input stamped with song time.
package input

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"syscall"

	"git.lost.host/meutraa/lanes/internal/clock"
	"git.lost.host/meutraa/lanes/internal/game"
	"go.uber.org/zap"
)

// https://github.com/torvalds/linux/blob/master/include/uapi/linux/input-event-codes.h
const (
	evKey = 0x01

	keyReleased = 0
	keyPressed  = 1
	keyRepeated = 2
)

// keyEvent is struct input_event
type keyEvent struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// ReadDevice decodes linux input events from r and sends the keys found in
// codes as lane input. Key repeats are dropped. The channel is closed when
// r ends or ctx is done; r is closed on cancel when it is an io.Closer.
func ReadDevice(ctx context.Context, r io.Reader, codes map[uint16]int, clk clock.Clock, logger *zap.Logger) <-chan game.Input {
	if nil == logger {
		logger = zap.NewNop()
	}
	inputs := make(chan game.Input, 128)
	go func() {
		defer close(inputs)
		if c, ok := r.(io.Closer); ok {
			stop := context.AfterFunc(ctx, func() { c.Close() })
			defer stop()
		}

		var ev keyEvent
		for {
			if err := binary.Read(r, binary.LittleEndian, &ev); nil != err {
				if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) && nil == ctx.Err() {
					logger.Error("unable to read keyboard input", zap.Error(err))
				}
				return
			}
			if ev.Type != evKey {
				continue
			}
			lane, ok := codes[ev.Code]
			if !ok {
				continue
			}
			in := game.Input{Lane: lane, Time: clk.Now()}
			switch ev.Value {
			case keyPressed:
				in.Action = game.Press
			case keyReleased:
				in.Action = game.Release
			default:
				continue
			}
			select {
			case inputs <- in:
			case <-ctx.Done():
				return
			}
		}
	}()
	return inputs
}

package game

import (
	"fmt"
	"time"
)

type Kind uint8

const (
	Tap Kind = iota
	Hold
)

func (k Kind) String() string {
	switch k {
	case Tap:
		return "tap"
	case Hold:
		return "hold"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

type Note struct {
	Time     time.Duration // The time the note should be hit
	Lane     int           // The lane, counting from 1
	Kind     Kind
	Duration time.Duration // How long a hold must be kept down, 0 for taps
}

// End is the time a hold note completes. For taps it is the target time.
func (n Note) End() time.Duration {
	return n.Time + n.Duration
}

func (n Note) String() string {
	if n.Kind == Hold {
		return fmt.Sprintf("%v@%v+%v/%d", n.Kind, n.Time, n.Duration, n.Lane)
	}
	return fmt.Sprintf("%v@%v/%d", n.Kind, n.Time, n.Lane)
}

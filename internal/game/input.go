package game

import "time"

type Action uint8

const (
	Press Action = iota
	Release
)

func (a Action) String() string {
	if a == Release {
		return "release"
	}
	return "press"
}

// Input is a single press or release on a lane, stamped with song time.
type Input struct {
	Lane   int
	Action Action
	Time   time.Duration
}

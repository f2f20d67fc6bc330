package parser

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"git.lost.host/meutraa/lanes/internal/game"
)

type Parser interface {
	Parse(file string) ([]*game.Chart, error)
}

// ForFile picks a parser from the file extension.
func ForFile(file string, lanes int) (Parser, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".json":
		return &JSONParser{Lanes: lanes}, nil
	case ".sm":
		return &DefaultParser{}, nil
	case ".mid", ".midi":
		return &MidiParser{Lanes: lanes, HoldThreshold: 300 * time.Millisecond}, nil
	}
	return nil, fmt.Errorf("no parser for %v", file)
}

package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies an interactive command.
type Kind int

const (
	KindQuery Kind = iota
	KindHelp
	KindCache
	KindVolume
	KindPause
	KindStop
	KindFast
	KindExit
)

// Command is one parsed line of interactive input.
type Command struct {
	Kind   Kind
	Query  string // for KindQuery
	Volume int    // for KindVolume
}

// ErrInvalidCommand marks input the loop reports and skips, keeping the
// session alive.
var ErrInvalidCommand = errors.New("invalid command")

// Parse interprets one input line. Lines starting with "/" are commands;
// anything else is a search query. Surrounding whitespace is ignored.
func Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)

	if !strings.HasPrefix(line, "/") {
		return Command{Kind: KindQuery, Query: line}, nil
	}

	fields := strings.Fields(strings.ToLower(line))
	switch fields[0] {
	case "/help":
		return Command{Kind: KindHelp}, nil
	case "/cache":
		return Command{Kind: KindCache}, nil
	case "/pause":
		return Command{Kind: KindPause}, nil
	case "/stop":
		return Command{Kind: KindStop}, nil
	case "/fast":
		return Command{Kind: KindFast}, nil
	case "/exit", "/quit":
		return Command{Kind: KindExit}, nil
	case "/volume":
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("%w: use /volume 0-100", ErrInvalidCommand)
		}
		vol, err := strconv.Atoi(fields[1])
		if err != nil || vol < 0 || vol > 100 {
			return Command{}, fmt.Errorf("%w: use /volume 0-100", ErrInvalidCommand)
		}
		return Command{Kind: KindVolume, Volume: vol}, nil
	default:
		return Command{}, fmt.Errorf("%w: unknown command %q", ErrInvalidCommand, fields[0])
	}
}

package session

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

const helpText = `
==================================================
Commands:
  /cache     - Clear cache
  /help      - Show this help
  /volume N  - Set volume (0-100)
  /pause     - Pause/Resume
  /stop      - Stop playback
  /fast      - Toggle fast mode
  /exit      - Exit program
==================================================`

// Run executes the interactive loop until /exit, EOF, or ctx cancellation.
// No command or query error terminates the loop; each is reported and the
// prompt returns.
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "YouTube Audio Player")
	fmt.Fprintln(s.out, "Type '/help' for commands")

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Fprint(s.out, "\nSearch: ")

		var line string
		var open bool
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out, "\nExiting...")
			return nil
		case line, open = <-lines:
			if !open {
				fmt.Fprintln(s.out, "\nExiting...")
				return nil
			}
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		cmd, err := Parse(line)
		if err != nil {
			fmt.Fprintf(s.out, "%v\n", err)
			continue
		}

		if done := s.dispatch(ctx, cmd); done {
			return nil
		}
	}
}

// dispatch runs one command. It returns true when the session should end.
func (s *Session) dispatch(ctx context.Context, cmd Command) bool {
	switch cmd.Kind {
	case KindExit:
		fmt.Fprintln(s.out, "Exiting...")
		return true

	case KindHelp:
		fmt.Fprintln(s.out, helpText)

	case KindCache:
		n, err := s.resolver.ClearCache(ctx)
		if err != nil {
			fmt.Fprintf(s.out, "Failed to clear cache: %v\n", err)
			break
		}
		fmt.Fprintf(s.out, "Cache cleared (%d entries)\n", n)

	case KindVolume:
		if err := s.player.SetVolume(ctx, cmd.Volume); err != nil {
			fmt.Fprintf(s.out, "Failed to set volume: %v\n", err)
			break
		}
		fmt.Fprintf(s.out, "Volume set to %d%%\n", cmd.Volume)

	case KindPause:
		paused, err := s.player.TogglePause(ctx)
		if err != nil {
			fmt.Fprintf(s.out, "Failed to toggle pause: %v\n", err)
			break
		}
		if paused {
			fmt.Fprintln(s.out, "Paused")
		} else {
			fmt.Fprintln(s.out, "Resumed")
		}

	case KindStop:
		if err := s.player.Stop(ctx); err != nil {
			fmt.Fprintf(s.out, "Failed to stop: %v\n", err)
			break
		}
		fmt.Fprintln(s.out, "Stopped")

	case KindFast:
		s.fastMode = !s.fastMode
		if s.fastMode {
			fmt.Fprintln(s.out, "Fast mode: ON")
		} else {
			fmt.Fprintln(s.out, "Fast mode: OFF")
		}

	case KindQuery:
		s.handleQuery(ctx, cmd.Query)
	}

	return false
}

// FastMode reports the current resolution mode. Exposed for tests.
func (s *Session) FastMode() bool {
	return s.fastMode
}

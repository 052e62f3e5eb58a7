package player

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/hszk-dev/tunestream/internal/config"
)

// ipcTimeout bounds a single IPC round trip. mpv answers property reads
// and command acks immediately; only a wedged process exceeds this.
const ipcTimeout = 5 * time.Second

// MPV drives an mpv subprocess over its JSON IPC socket.
type MPV struct {
	cmd    *exec.Cmd
	socket string

	mu        sync.Mutex // serializes IPC round trips
	conn      net.Conn
	reader    *bufio.Reader
	requestID int
}

// Compile-time verification that MPV implements Player.
var _ Player = (*MPV)(nil)

// Start launches mpv in idle audio-only mode and connects to its IPC
// socket. The returned player must be released with Terminate.
func Start(ctx context.Context, cfg config.PlayerConfig) (*MPV, error) {
	socket := cfg.SocketPath
	if socket == "" {
		socket = filepath.Join(os.TempDir(), fmt.Sprintf("tunestream-mpv-%d.sock", os.Getpid()))
	}

	cmd := exec.Command(cfg.MpvPath, buildArgs(cfg, socket)...)
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start mpv: %w", err)
	}

	conn, err := dialSocket(ctx, socket, cfg.StartupTimeout)
	if err != nil {
		cmd.Process.Kill()
		cmd.Wait()
		return nil, fmt.Errorf("connect to mpv ipc: %w", err)
	}

	return &MPV{
		cmd:    cmd,
		socket: socket,
		conn:   conn,
		reader: bufio.NewReader(conn),
	}, nil
}

// buildArgs assembles the mpv command line: idle audio-only playback with
// stream readahead tuned for network audio, URL handling left to us.
func buildArgs(cfg config.PlayerConfig, socket string) []string {
	return []string{
		"--idle=yes",
		"--no-video",
		"--no-terminal",
		"--ytdl=no", // we resolve stream URLs ourselves
		"--input-ipc-server=" + socket,
		fmt.Sprintf("--volume=%d", cfg.Volume),
		"--cache=yes",
		fmt.Sprintf("--cache-secs=%d", cfg.CacheSecs),
		"--demuxer-max-bytes=" + cfg.DemuxerMaxBytes,
		fmt.Sprintf("--demuxer-readahead-secs=%d", cfg.DemuxerReadaheadSecs),
		"--hwdec=no",
	}
}

// dialSocket polls the IPC socket until mpv creates it or the timeout
// elapses.
func dialSocket(ctx context.Context, socket string, timeout time.Duration) (net.Conn, error) {
	deadline := time.Now().Add(timeout)
	for {
		conn, err := net.Dial("unix", socket)
		if err == nil {
			return conn, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("mpv ipc socket %q not ready: %w", socket, err)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}

type ipcRequest struct {
	Command   []any `json:"command"`
	RequestID int   `json:"request_id"`
}

type ipcResponse struct {
	Error     string          `json:"error"`
	Data      json.RawMessage `json:"data"`
	RequestID int             `json:"request_id"`
	Event     string          `json:"event"`
}

// command performs one IPC round trip. Unsolicited event lines are skipped
// until the response matching our request id arrives.
func (p *MPV) command(ctx context.Context, args ...any) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return nil, fmt.Errorf("mpv ipc connection closed")
	}

	p.requestID++
	id := p.requestID

	payload, err := json.Marshal(ipcRequest{Command: args, RequestID: id})
	if err != nil {
		return nil, fmt.Errorf("encode ipc request: %w", err)
	}
	payload = append(payload, '\n')

	p.conn.SetDeadline(time.Now().Add(ipcTimeout))
	if _, err := p.conn.Write(payload); err != nil {
		return nil, fmt.Errorf("write ipc request: %w", err)
	}

	for {
		line, err := p.reader.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("read ipc response: %w", err)
		}

		var resp ipcResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			continue // unparseable event line
		}
		if resp.Event != "" || resp.RequestID != id {
			continue
		}
		if resp.Error != "success" {
			return nil, fmt.Errorf("mpv command failed: %s", resp.Error)
		}
		return resp.Data, nil
	}
}

func (p *MPV) getProperty(ctx context.Context, name string, out any) error {
	data, err := p.command(ctx, "get_property", name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode property %q: %w", name, err)
	}
	return nil
}

func (p *MPV) setProperty(ctx context.Context, name string, value any) error {
	_, err := p.command(ctx, "set_property", name, value)
	return err
}

// Load replaces the current stream. The newest load wins; mpv drops
// whatever was playing before.
func (p *MPV) Load(ctx context.Context, url string) error {
	_, err := p.command(ctx, "loadfile", url, "replace")
	return err
}

func (p *MPV) SetVolume(ctx context.Context, volume int) error {
	if volume < 0 || volume > 100 {
		return fmt.Errorf("volume %d out of range 0-100", volume)
	}
	return p.setProperty(ctx, "volume", volume)
}

func (p *MPV) TogglePause(ctx context.Context) (bool, error) {
	var paused bool
	if err := p.getProperty(ctx, "pause", &paused); err != nil {
		return false, err
	}
	if err := p.setProperty(ctx, "pause", !paused); err != nil {
		return false, err
	}
	return !paused, nil
}

func (p *MPV) Stop(ctx context.Context) error {
	_, err := p.command(ctx, "stop")
	return err
}

// Duration returns 0 when mpv has nothing loaded yet: the property read
// fails with "property unavailable", which is not an error for callers.
func (p *MPV) Duration(ctx context.Context) (float64, error) {
	var duration float64
	if err := p.getProperty(ctx, "duration", &duration); err != nil {
		return 0, nil
	}
	return duration, nil
}

func (p *MPV) Volume(ctx context.Context) (float64, error) {
	var volume float64
	if err := p.getProperty(ctx, "volume", &volume); err != nil {
		return 0, err
	}
	return volume, nil
}

func (p *MPV) Paused(ctx context.Context) (bool, error) {
	var paused bool
	if err := p.getProperty(ctx, "pause", &paused); err != nil {
		return false, err
	}
	return paused, nil
}

// Terminate asks mpv to quit, then reaps the process. The socket file is
// removed best-effort.
func (p *MPV) Terminate() error {
	ctx, cancel := context.WithTimeout(context.Background(), ipcTimeout)
	defer cancel()

	p.command(ctx, "quit") // best-effort; the kill below covers a wedged mpv

	p.mu.Lock()
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}
	p.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- p.cmd.Wait() }()

	var waitErr error
	select {
	case waitErr = <-done:
	case <-time.After(ipcTimeout):
		p.cmd.Process.Kill()
		waitErr = <-done
	}

	os.Remove(p.socket)

	// A non-zero exit after quit is expected noise, not a failure.
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return fmt.Errorf("wait for mpv: %w", waitErr)
		}
	}
	return nil
}

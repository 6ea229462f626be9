// Package tmux wraps the tmux CLI. Every operation shells out to the tmux
// binary rather than speaking the control-mode protocol, which keeps the
// surface small and works with any tmux the user already runs.
package tmux

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/zjrosen/lookout/internal/log"
)

// discoverFormat is the list-panes format used by Discover. Fields are
// tab-separated because pane titles may contain spaces.
const discoverFormat = "#{pane_id}\t#{pane_pid}\t#{pane_title}\t#{session_name}:#{window_index}.#{pane_index}"

// createFormat is the new-window format used by CreateWindow.
const createFormat = "#{pane_id}\t#{pane_title}\t#{session_name}:#{window_index}.#{pane_index}"

// Runner executes an external command and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return string(out), nil
}

// Pane is one row of tmux list-panes output.
type Pane struct {
	ID          string // unique pane id, e.g. "%42"
	PID         string // pane shell pid
	Title       string // pane title as set by the running program
	Target      string // session:window.pane addressing string
	SessionName string
}

// CreatedPane describes a pane spawned by CreateWindow.
type CreatedPane struct {
	ID          string
	Title       string
	Target      string
	SessionName string
}

// Client issues tmux commands. Methods are safe for concurrent use as long
// as the Runner is.
type Client struct {
	runner Runner
}

// NewClient returns a Client backed by the real tmux binary.
func NewClient() *Client {
	return &Client{runner: ExecRunner{}}
}

// NewClientWithRunner returns a Client using a custom Runner. Used in tests.
func NewClientWithRunner(r Runner) *Client {
	return &Client{runner: r}
}

// ListPanes returns every pane across every session on the server. A missing
// or empty tmux server yields an empty slice, not an error.
func (c *Client) ListPanes(ctx context.Context) ([]Pane, error) {
	out, err := c.runner.Run(ctx, "tmux", "list-panes", "-a", "-F", discoverFormat)
	if err != nil {
		// No server running looks the same as zero panes to callers.
		log.Debug(log.CatTmux, "list-panes failed, treating as empty", "error", err)
		return nil, nil
	}
	return parsePanes(out), nil
}

func parsePanes(out string) []Pane {
	var panes []Pane
	for _, line := range strings.Split(out, "\n") {
		parts := strings.Split(line, "\t")
		if len(parts) < 4 {
			continue
		}
		target := parts[3]
		sessionName, _, found := strings.Cut(target, ":")
		if !found || sessionName == "" {
			continue
		}
		panes = append(panes, Pane{
			ID:          parts[0],
			PID:         parts[1],
			Title:       parts[2],
			Target:      target,
			SessionName: sessionName,
		})
	}
	return panes
}

// Capture returns the full scrollback plus visible content of a pane with
// ANSI escape sequences preserved.
func (c *Client) Capture(ctx context.Context, target string) (string, error) {
	return c.runner.Run(ctx, "tmux", "capture-pane", "-e", "-t", target, "-p", "-S", "-")
}

// CaptureVisible returns only the visible portion of a pane as plain text.
// Used for prompt detection, where escape sequences just get in the way.
func (c *Client) CaptureVisible(ctx context.Context, target string) (string, error) {
	return c.runner.Run(ctx, "tmux", "capture-pane", "-p", "-t", target)
}

// SwitchTo makes the attached tmux client jump to the given pane.
func (c *Client) SwitchTo(ctx context.Context, target string) error {
	_, err := c.runner.Run(ctx, "tmux", "switch-client", "-t", target)
	return err
}

// OpenScrollback opens the pane's full history in a tmux popup pager. The
// popup blocks until the user quits less, so callers should run this from a
// command, not the update loop.
func (c *Client) OpenScrollback(ctx context.Context, target string) error {
	pager := fmt.Sprintf("tmux capture-pane -S - -e -p -t %s | less -R", target)
	_, err := c.runner.Run(ctx, "tmux", "display-popup", "-E", "-w", "80%", "-h", "80%", pager)
	return err
}

// CreateWindow spawns a detached window in the given session running command,
// optionally in cwd. Returns nil when tmux prints something unparseable.
func (c *Client) CreateWindow(ctx context.Context, sessionName, cwd, command string) (*CreatedPane, error) {
	args := []string{"new-window", "-d", "-P", "-F", createFormat, "-t", sessionName}
	if cwd != "" {
		args = append(args, "-c", cwd)
	}
	args = append(args, command)

	out, err := c.runner.Run(ctx, "tmux", args...)
	if err != nil {
		return nil, err
	}

	parts := strings.Split(strings.TrimSpace(out), "\t")
	if len(parts) < 3 {
		return nil, nil
	}
	target := parts[2]
	name, _, found := strings.Cut(target, ":")
	if !found || name == "" {
		return nil, nil
	}
	return &CreatedPane{
		ID:          parts[0],
		Title:       parts[1],
		Target:      target,
		SessionName: name,
	}, nil
}

// PaneCwd returns the live working directory of a pane.
func (c *Client) PaneCwd(ctx context.Context, target string) (string, error) {
	out, err := c.runner.Run(ctx, "tmux", "display-message", "-p", "-t", target, "#{pane_current_path}")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// KillPane terminates the pane and the process running inside it.
func (c *Client) KillPane(ctx context.Context, target string) error {
	_, err := c.runner.Run(ctx, "tmux", "kill-pane", "-t", target)
	return err
}

// StartPipe streams all future output of the pane into the file at path.
// The -o flag makes the call a no-op when a pipe is already open, so
// repeated starts are safe.
func (c *Client) StartPipe(ctx context.Context, target, path string) error {
	_, err := c.runner.Run(ctx, "tmux", "pipe-pane", "-t", target, "-o", fmt.Sprintf("cat > %s", path))
	return err
}

// StopPipe closes any open pipe on the pane.
func (c *Client) StopPipe(ctx context.Context, target string) error {
	_, err := c.runner.Run(ctx, "tmux", "pipe-pane", "-t", target)
	return err
}

// FocusedPane returns the pane id and session name of the pane the attached
// client is currently looking at.
func (c *Client) FocusedPane(ctx context.Context) (paneID, sessionName string, err error) {
	out, err := c.runner.Run(ctx, "tmux", "display-message", "-p", "#{pane_id}\t#{session_name}")
	if err != nil {
		return "", "", err
	}
	parts := strings.Split(strings.TrimSpace(out), "\t")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("unexpected display-message output: %q", out)
	}
	return parts[0], parts[1], nil
}

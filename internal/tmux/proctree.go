package tmux

import (
	"context"
	"strings"
	"sync"
)

// ProcessLister answers questions about the local process table. Split out
// from Client so classification can be tested without a real /proc.
type ProcessLister interface {
	// Comm returns the command name of a pid, or an error if it is gone.
	Comm(ctx context.Context, pid string) (string, error)
	// Children returns the direct child pids of a pid.
	Children(ctx context.Context, pid string) ([]string, error)
}

// ExecProcessLister shells out to ps and pgrep.
type ExecProcessLister struct {
	Runner Runner
}

func (l ExecProcessLister) Comm(ctx context.Context, pid string) (string, error) {
	out, err := l.Runner.Run(ctx, "ps", "-o", "comm=", "-p", pid)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (l ExecProcessLister) Children(ctx context.Context, pid string) ([]string, error) {
	out, err := l.Runner.Run(ctx, "pgrep", "-P", pid)
	if err != nil {
		// pgrep exits 1 when there are no children.
		return nil, nil
	}
	var pids []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			pids = append(pids, line)
		}
	}
	return pids, nil
}

// maxTreeDepth bounds the walk so a pathological process table cannot stall
// a poll cycle.
const maxTreeDepth = 10

// Classifier decides whether a pane is running the agent command by walking
// the pane's process tree.
type Classifier struct {
	lister  ProcessLister
	command string
}

// NewClassifier returns a Classifier matching processes whose command name
// ends with command, e.g. "claude" matches "/usr/local/bin/claude".
func NewClassifier(lister ProcessLister, command string) *Classifier {
	return &Classifier{lister: lister, command: command}
}

// IsAgent reports whether the process tree rooted at pid contains the agent
// command. The walk is breadth first and iterative, visiting each pid once.
func (c *Classifier) IsAgent(ctx context.Context, pid string) bool {
	visited := map[string]struct{}{}
	queue := []string{pid}

	for depth := 0; depth <= maxTreeDepth && len(queue) > 0; depth++ {
		var next []string
		for _, p := range queue {
			if _, seen := visited[p]; seen {
				continue
			}
			visited[p] = struct{}{}

			if comm, err := c.lister.Comm(ctx, p); err == nil {
				if strings.HasSuffix(strings.TrimSpace(comm), c.command) {
					return true
				}
			}

			children, err := c.lister.Children(ctx, p)
			if err != nil {
				continue
			}
			next = append(next, children...)
		}
		queue = next
	}
	return false
}

// FilterAgentPanes returns the subset of panes whose process tree contains
// the agent command. Each pane is classified concurrently since the checks
// are independent ps/pgrep invocations.
func (c *Classifier) FilterAgentPanes(ctx context.Context, panes []Pane) []Pane {
	if len(panes) == 0 {
		return nil
	}

	matched := make([]bool, len(panes))
	var wg sync.WaitGroup
	for i, p := range panes {
		wg.Add(1)
		go func(i int, pid string) {
			defer wg.Done()
			matched[i] = c.IsAgent(ctx, pid)
		}(i, p.PID)
	}
	wg.Wait()

	var out []Pane
	for i, p := range panes {
		if matched[i] {
			out = append(out, p)
		}
	}
	return out
}

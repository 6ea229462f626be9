// Package poller discovers agent panes on an interval and publishes
// snapshots for the UI to consume.
package poller

import (
	"context"
	"os/exec"
	"sort"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/lookout/internal/cache"
	"github.com/zjrosen/lookout/internal/log"
	"github.com/zjrosen/lookout/internal/pubsub"
	"github.com/zjrosen/lookout/internal/session"
	"github.com/zjrosen/lookout/internal/tmux"
)

// Snapshot is one poll result: every agent pane found, plus display names
// per tmux session and prompt states per idle pane.
type Snapshot struct {
	Agents       []session.Agent
	DisplayNames map[string]string
	PromptStates map[string]session.PromptState
}

// PaneSource lists panes and captures their visible content.
type PaneSource interface {
	ListPanes(ctx context.Context) ([]tmux.Pane, error)
	CaptureVisible(ctx context.Context, target string) (string, error)
}

// PaneFilter narrows panes down to the ones running the agent.
type PaneFilter interface {
	FilterAgentPanes(ctx context.Context, panes []tmux.Pane) []tmux.Pane
}

// Formatter turns a tmux session name into a display name.
type Formatter func(ctx context.Context, sessionName string) (string, error)

// ExecFormatter runs the configured formatter executable with the session
// name as its only argument and returns trimmed stdout.
func ExecFormatter(path string) Formatter {
	return func(ctx context.Context, sessionName string) (string, error) {
		out, err := exec.CommandContext(ctx, path, sessionName).Output()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(out)), nil
	}
}

// Poller runs the discovery loop.
type Poller struct {
	source    PaneSource
	filter    PaneFilter
	broker    *pubsub.Broker[Snapshot]
	diskCache *cache.Store
	interval  time.Duration

	mu        sync.Mutex
	formatter Formatter
	// Formatter results rarely change within a run, so memoize them.
	// Entries never expire; the cache is process lifetime only.
	formatterMemo *gocache.Cache
}

// Options configures a Poller.
type Options struct {
	Source    PaneSource
	Filter    PaneFilter
	Broker    *pubsub.Broker[Snapshot]
	DiskCache *cache.Store
	Interval  time.Duration
	Formatter Formatter // nil means display name equals session name
}

// New creates a Poller.
func New(opts Options) *Poller {
	interval := opts.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Poller{
		source:        opts.Source,
		filter:        opts.Filter,
		broker:        opts.Broker,
		diskCache:     opts.DiskCache,
		interval:      interval,
		formatter:     opts.Formatter,
		formatterMemo: gocache.New(gocache.NoExpiration, 0),
	}
}

// SetFormatter swaps the display-name formatter and flushes the memo, so
// a config reload takes effect on the next poll.
func (p *Poller) SetFormatter(f Formatter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.formatter = f
	p.formatterMemo.Flush()
}

// FlushNames drops all memoized formatter results.
func (p *Poller) FlushNames() {
	p.formatterMemo.Flush()
}

// Run polls until the context is cancelled. The first poll happens
// immediately so the UI is not stuck looking at cached data for a full
// interval.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.pollAndPublish(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.pollAndPublish(ctx)
		}
	}
}

func (p *Poller) pollAndPublish(ctx context.Context) {
	snap, err := p.Poll(ctx)
	if err != nil {
		log.ErrorErr(log.CatPoller, "poll failed", err)
		return
	}

	if p.diskCache != nil {
		p.diskCache.Save(cache.Snapshot{
			Sessions:     snap.Agents,
			DisplayNames: snap.DisplayNames,
		})
	}
	p.broker.Publish(pubsub.SnapshotEvent, snap)
}

// Poll performs a single discovery pass.
func (p *Poller) Poll(ctx context.Context) (Snapshot, error) {
	panes, err := p.source.ListPanes(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	agentPanes := p.filter.FilterAgentPanes(ctx, panes)

	agents := make([]session.Agent, 0, len(agentPanes))
	for _, pane := range agentPanes {
		agents = append(agents, session.Agent{
			PaneID:      pane.ID,
			PaneTarget:  pane.Target,
			Title:       pane.Title,
			SessionName: pane.SessionName,
			Status:      session.ParseStatus(pane.Title),
		})
	}

	return Snapshot{
		Agents:       agents,
		DisplayNames: p.displayNames(ctx, agents),
		PromptStates: p.promptStates(ctx, agents),
	}, nil
}

// displayNames maps each distinct session name through the formatter. A
// failing formatter falls back to the raw session name and is not retried
// until the next process start.
func (p *Poller) displayNames(ctx context.Context, agents []session.Agent) map[string]string {
	p.mu.Lock()
	formatter := p.formatter
	p.mu.Unlock()

	names := map[string]string{}
	for _, a := range agents {
		names[a.SessionName] = a.SessionName
	}
	if formatter == nil {
		return names
	}

	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	for _, name := range sorted {
		if cached, ok := p.formatterMemo.Get(name); ok {
			names[name] = cached.(string)
			continue
		}
		formatted, err := formatter(ctx, name)
		if err != nil || formatted == "" {
			// Not memoized: a transient failure gets retried next poll,
			// and the raw name stands in meanwhile.
			log.Debug(log.CatPoller, "formatter failed, using raw name", "session", name)
			continue
		}
		p.formatterMemo.Set(name, formatted, gocache.NoExpiration)
		names[name] = formatted
	}
	return names
}

// promptStates captures idle panes concurrently and classifies whether each
// is sitting at a plan-approval or tool-permission prompt.
func (p *Poller) promptStates(ctx context.Context, agents []session.Agent) map[string]session.PromptState {
	type result struct {
		paneID string
		state  session.PromptState
	}

	var wg sync.WaitGroup
	results := make(chan result, len(agents))
	for _, a := range agents {
		if a.Status != session.StatusIdle {
			continue
		}
		wg.Add(1)
		go func(a session.Agent) {
			defer wg.Done()
			state := session.PromptNone
			if text, err := p.source.CaptureVisible(ctx, a.PaneTarget); err == nil {
				state = session.DetectPromptState(text)
			}
			results <- result{paneID: a.PaneID, state: state}
		}(a)
	}
	wg.Wait()
	close(results)

	states := map[string]session.PromptState{}
	for r := range results {
		states[r.paneID] = r.state
	}
	return states
}

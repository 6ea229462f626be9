package preview

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/lookout/internal/log"
	"github.com/zjrosen/lookout/internal/pubsub"
)

// Pane captures pane content and manages pane output pipes.
type Pane interface {
	Capture(ctx context.Context, target string) (string, error)
	StartPipe(ctx context.Context, target, path string) error
	StopPipe(ctx context.Context, target string) error
}

// Watcher keeps the preview fresh for whichever pane is selected. tmux
// pipes the selected pane's output into a named pipe; any bytes arriving
// there mean the pane changed, which schedules a debounced capture. A slow
// fallback capture runs regardless, covering redraws that produce no new
// output, such as a full-screen program repainting in place.
type Watcher struct {
	pane     Pane
	broker   *pubsub.Broker[string]
	fifoPath string
	fifo     *os.File
	fifoConn syscall.RawConn

	// targets is capacity 1 with last-value-wins semantics: a rapid series
	// of selection changes only ever delivers the newest target.
	targets chan string

	debounce time.Duration
	fallback time.Duration

	// fallbackOnly is set when the fifo could not be created or opened.
	// The watcher still works, it just reacts at fallback speed.
	fallbackOnly bool

	previousContent string
	currentTarget   string

	// done is closed once Run has exited and released the pipe and fifo.
	done chan struct{}
}

// fifoPollInterval is how often the nonblocking fifo read is retried while
// waiting for pane output.
const fifoPollInterval = 100 * time.Millisecond

// NewWatcher creates a Watcher publishing preview content on broker.
func NewWatcher(pane Pane, broker *pubsub.Broker[string], debounce, fallback time.Duration) *Watcher {
	path := fmt.Sprintf("%s/lookout-%s-preview.fifo", os.TempDir(), uuid.NewString())
	return newWatcher(pane, broker, path, debounce, fallback)
}

func newWatcher(pane Pane, broker *pubsub.Broker[string], fifoPath string, debounce, fallback time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = 50 * time.Millisecond
	}
	if fallback <= 0 {
		fallback = 2 * time.Second
	}
	w := &Watcher{
		pane:     pane,
		broker:   broker,
		fifoPath: fifoPath,
		targets:  make(chan string, 1),
		debounce: debounce,
		fallback: fallback,
		done:     make(chan struct{}),
	}
	w.openFifo()
	return w
}

// openFifo creates and opens the named pipe. O_RDWR keeps a writer open on
// our own end so reads never see EOF while no pane is piping, and
// O_NONBLOCK keeps the open itself from blocking. Reads happen through the
// raw descriptor in drainFifo: os.File.Read on a pipe goes through the
// runtime poller, which parks the goroutine on an empty pipe rather than
// returning EAGAIN.
func (w *Watcher) openFifo() {
	_ = os.Remove(w.fifoPath) // stale pipe from a crashed run

	if err := syscall.Mkfifo(w.fifoPath, 0o600); err != nil {
		log.ErrorErr(log.CatPreview, "mkfifo failed, falling back to polling", err, "path", w.fifoPath)
		w.fallbackOnly = true
		return
	}
	f, err := os.OpenFile(w.fifoPath, os.O_RDWR|syscall.O_NONBLOCK, 0)
	if err != nil {
		log.ErrorErr(log.CatPreview, "fifo open failed, falling back to polling", err, "path", w.fifoPath)
		_ = os.Remove(w.fifoPath)
		w.fallbackOnly = true
		return
	}
	conn, err := f.SyscallConn()
	if err != nil {
		log.ErrorErr(log.CatPreview, "fifo raw conn failed, falling back to polling", err, "path", w.fifoPath)
		_ = f.Close()
		_ = os.Remove(w.fifoPath)
		w.fallbackOnly = true
		return
	}
	w.fifo = f
	w.fifoConn = conn
}

// FallbackOnly reports whether the watcher is running without pipe
// notifications.
func (w *Watcher) FallbackOnly() bool {
	return w.fallbackOnly
}

// Wait blocks until Run has returned and its teardown completed. Callers
// cancel Run's context, then Wait before exiting so the pane is not left
// piping into a removed fifo.
func (w *Watcher) Wait() {
	<-w.done
}

// SetTarget points the watcher at a new pane, or at nothing when target is
// empty. Safe to call from any goroutine; only the latest value is acted on.
func (w *Watcher) SetTarget(target string) {
	for {
		select {
		case w.targets <- target:
			return
		default:
			// Full: discard the stale pending target and retry.
			select {
			case <-w.targets:
			default:
			}
		}
	}
}

// Run watches until the context is cancelled. The pipe is always stopped
// and the fifo removed on the way out, whatever path exits the loop; Wait
// unblocks once that teardown has finished.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.done)
	defer w.cleanup()

	var (
		debounceTimer *time.Timer
		debounceC     <-chan time.Time
	)
	fallbackTimer := time.NewTimer(w.fallback)
	defer fallbackTimer.Stop()

	poll := time.NewTicker(fifoPollInterval)
	defer poll.Stop()

	buf := make([]byte, 4096)

	for {
		select {
		case <-ctx.Done():
			return

		case target := <-w.targets:
			w.switchTarget(ctx, target)
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceC = nil
			resetTimer(fallbackTimer, w.fallback)

		case <-poll.C:
			if w.fifo == nil {
				continue
			}
			if w.drainFifo(buf) {
				// Output arrived; start or extend the debounce window so a
				// burst of writes coalesces into one capture.
				if debounceTimer == nil {
					debounceTimer = time.NewTimer(w.debounce)
				} else {
					resetTimer(debounceTimer, w.debounce)
				}
				debounceC = debounceTimer.C
			}

		case <-debounceC:
			debounceC = nil
			w.captureAndPublish(ctx)
			resetTimer(fallbackTimer, w.fallback)

		case <-fallbackTimer.C:
			w.captureAndPublish(ctx)
			fallbackTimer.Reset(w.fallback)
		}
	}
}

// switchTarget moves the pipe from the old pane to the new one and pushes
// an immediate capture so the preview never shows the previous pane's
// content.
func (w *Watcher) switchTarget(ctx context.Context, target string) {
	if old := w.currentTarget; old != "" {
		if err := w.pane.StopPipe(ctx, old); err != nil {
			log.Debug(log.CatPreview, "stop pipe failed", "target", old, "error", err)
		}
	}
	if w.fifo != nil {
		// Discard whatever the old pane wrote after the last read.
		buf := make([]byte, 4096)
		for w.drainFifo(buf) {
		}
	}

	w.currentTarget = target
	w.previousContent = ""

	if target == "" {
		return
	}

	if content, err := w.pane.Capture(ctx, target); err == nil {
		w.previousContent = content
		w.broker.Publish(pubsub.PreviewEvent, content)
	}
	if !w.fallbackOnly {
		if err := w.pane.StartPipe(ctx, target, w.fifoPath); err != nil {
			log.ErrorErr(log.CatPreview, "start pipe failed", err, "target", target)
		}
	}
}

// captureAndPublish captures the current target and publishes only when the
// content actually changed.
func (w *Watcher) captureAndPublish(ctx context.Context) {
	if w.currentTarget == "" {
		return
	}
	content, err := w.pane.Capture(ctx, w.currentTarget)
	if err != nil {
		log.Debug(log.CatPreview, "capture failed", "target", w.currentTarget, "error", err)
		return
	}
	if content == w.previousContent {
		return
	}
	w.previousContent = content
	w.broker.Publish(pubsub.PreviewEvent, content)
}

// drainFifo reads until the pipe is empty, reporting whether any bytes were
// seen. The content itself is irrelevant; arrival is the signal. Reads are
// raw syscalls so an empty pipe surfaces as EAGAIN instead of parking the
// goroutine in the runtime poller.
func (w *Watcher) drainFifo(buf []byte) bool {
	if w.fifoConn == nil {
		return false
	}
	sawData := false
	for {
		n := 0
		var readErr error
		err := w.fifoConn.Read(func(fd uintptr) bool {
			n, readErr = syscall.Read(int(fd), buf)
			// Returning true always means the runtime never waits on the fd.
			return true
		})
		// EAGAIN means empty; any other error ends the drain too.
		if err != nil || readErr != nil || n <= 0 {
			return sawData
		}
		sawData = true
	}
}

func (w *Watcher) cleanup() {
	if w.currentTarget != "" {
		// The run context is already cancelled; give the stop its own brief
		// deadline so the pane is not left piping into a dead fifo.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = w.pane.StopPipe(ctx, w.currentTarget)
	}
	if w.fifo != nil {
		_ = w.fifo.Close()
	}
	_ = os.Remove(w.fifoPath)
}

// resetTimer stops, drains, and restarts a timer. Required dance before
// Reset on a timer whose channel may have fired.
func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

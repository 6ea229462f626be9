package tmux

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records invocations and returns scripted output keyed on the
// joined command line.
type fakeRunner struct {
	calls   []string
	outputs map[string]string
	errs    map[string]error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		outputs: map[string]string{},
		errs:    map[string]error{},
	}
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	key := name + " " + strings.Join(args, " ")
	f.calls = append(f.calls, key)
	if err, ok := f.errs[key]; ok {
		return "", err
	}
	return f.outputs[key], nil
}

func TestParsePanes(t *testing.T) {
	out := strings.Join([]string{
		"%1\t100\t⠋ Building the parser\twork:0.0",
		"%2\t200\tzsh\twork:0.1",
		"%3\t300\tIdle agent\tside:1.0",
		"malformed line without tabs",
		"%4\t400\ttitle\t:0.0", // empty session name
		"",
	}, "\n")

	panes := parsePanes(out)
	require.Len(t, panes, 3)

	assert.Equal(t, "%1", panes[0].ID)
	assert.Equal(t, "100", panes[0].PID)
	assert.Equal(t, "⠋ Building the parser", panes[0].Title)
	assert.Equal(t, "work:0.0", panes[0].Target)
	assert.Equal(t, "work", panes[0].SessionName)

	assert.Equal(t, "side", panes[2].SessionName)
}

func TestParsePanesTitleWithColon(t *testing.T) {
	panes := parsePanes("%9\t900\tfix: update deps\tmain:2.1\n")
	require.Len(t, panes, 1)
	assert.Equal(t, "fix: update deps", panes[0].Title)
	assert.Equal(t, "main", panes[0].SessionName)
}

func TestListPanesNoServer(t *testing.T) {
	runner := newFakeRunner()
	runner.errs["tmux list-panes -a -F "+discoverFormat] = errors.New("no server running")

	client := NewClientWithRunner(runner)
	panes, err := client.ListPanes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, panes)
}

func TestCapturePassesFlags(t *testing.T) {
	runner := newFakeRunner()
	runner.outputs["tmux capture-pane -e -t work:0.0 -p -S -"] = "pane content\n"

	client := NewClientWithRunner(runner)
	content, err := client.Capture(context.Background(), "work:0.0")
	require.NoError(t, err)
	assert.Equal(t, "pane content\n", content)
}

func TestCreateWindow(t *testing.T) {
	runner := newFakeRunner()
	runner.outputs["tmux new-window -d -P -F "+createFormat+" -t work -c /tmp/project claude"] =
		"%7\tclaude\twork:3.0\n"

	client := NewClientWithRunner(runner)
	created, err := client.CreateWindow(context.Background(), "work", "/tmp/project", "claude")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "%7", created.ID)
	assert.Equal(t, "work:3.0", created.Target)
	assert.Equal(t, "work", created.SessionName)
}

func TestCreateWindowWithoutCwd(t *testing.T) {
	runner := newFakeRunner()
	runner.outputs["tmux new-window -d -P -F "+createFormat+" -t work claude"] = "%8\tclaude\twork:4.0\n"

	client := NewClientWithRunner(runner)
	created, err := client.CreateWindow(context.Background(), "work", "", "claude")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "%8", created.ID)
}

func TestCreateWindowUnparseableOutput(t *testing.T) {
	runner := newFakeRunner()
	runner.outputs["tmux new-window -d -P -F "+createFormat+" -t work claude"] = "garbage"

	client := NewClientWithRunner(runner)
	created, err := client.CreateWindow(context.Background(), "work", "", "claude")
	require.NoError(t, err)
	assert.Nil(t, created)
}

func TestFocusedPane(t *testing.T) {
	runner := newFakeRunner()
	runner.outputs["tmux display-message -p #{pane_id}\t#{session_name}"] = "%3\twork\n"

	client := NewClientWithRunner(runner)
	paneID, sessionName, err := client.FocusedPane(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "%3", paneID)
	assert.Equal(t, "work", sessionName)
}

func TestPipeLifecycle(t *testing.T) {
	runner := newFakeRunner()
	client := NewClientWithRunner(runner)

	require.NoError(t, client.StartPipe(context.Background(), "work:0.0", "/tmp/x.fifo"))
	require.NoError(t, client.StopPipe(context.Background(), "work:0.0"))

	assert.Equal(t, []string{
		"tmux pipe-pane -t work:0.0 -o cat > /tmp/x.fifo",
		"tmux pipe-pane -t work:0.0",
	}, runner.calls)
}

func TestPaneCwdTrimsOutput(t *testing.T) {
	runner := newFakeRunner()
	runner.outputs["tmux display-message -p -t %3 #{pane_current_path}"] = "/home/dev/project\n"

	client := NewClientWithRunner(runner)
	cwd, err := client.PaneCwd(context.Background(), "%3")
	require.NoError(t, err)
	assert.Equal(t, "/home/dev/project", cwd)
}

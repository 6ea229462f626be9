package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/lookout/internal/watcher"
)

func TestWatcherDebounceMultipleWrites(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	err := os.WriteFile(cfgPath, []byte("command: claude\n"), 0o644)
	require.NoError(t, err)

	w, err := watcher.New(watcher.Config{
		Path:        cfgPath,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err)

	// Rapid writes should coalesce into a single notification.
	for i := 0; i < 10; i++ {
		err := os.WriteFile(cfgPath, []byte(fmt.Sprintf("command: claude%d\n", i)), 0o644)
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-onChange:
	case <-time.After(400 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}

	select {
	case <-onChange:
		t.Fatal("unexpected second notification")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("command: claude\n"), 0o644))

	w, err := watcher.New(watcher.Config{
		Path:        cfgPath,
		DebounceDur: 20 * time.Millisecond,
	})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))

	select {
	case <-onChange:
		t.Fatal("unexpected notification for unrelated file")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcherDetectsTempFileSwap(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("command: claude\n"), 0o644))

	w, err := watcher.New(watcher.Config{
		Path:        cfgPath,
		DebounceDur: 20 * time.Millisecond,
	})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err)

	// Editors often save by writing a temp file and renaming it over the
	// original.
	tmp := filepath.Join(dir, "config.yaml.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("command: codex\n"), 0o644))
	require.NoError(t, os.Rename(tmp, cfgPath))

	select {
	case <-onChange:
	case <-time.After(400 * time.Millisecond):
		t.Fatal("expected notification after rename")
	}
}

func TestWatcherStopTerminates(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("command: claude\n"), 0o644))

	w, err := watcher.New(watcher.DefaultConfig(cfgPath))
	require.NoError(t, err)

	_, err = w.Start()
	require.NoError(t, err)
	require.NoError(t, w.Stop())
}

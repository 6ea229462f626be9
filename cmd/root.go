// Package cmd wires the dashboard together and runs it.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/lookout/internal/cache"
	"github.com/zjrosen/lookout/internal/clipboard"
	"github.com/zjrosen/lookout/internal/config"
	"github.com/zjrosen/lookout/internal/log"
	"github.com/zjrosen/lookout/internal/poller"
	"github.com/zjrosen/lookout/internal/preview"
	"github.com/zjrosen/lookout/internal/pubsub"
	"github.com/zjrosen/lookout/internal/state"
	"github.com/zjrosen/lookout/internal/tmux"
	"github.com/zjrosen/lookout/internal/ui"
	"github.com/zjrosen/lookout/internal/ui/styles"
	"github.com/zjrosen/lookout/internal/watcher"
)

func init() {
	// Force lipgloss/termenv to query the terminal background BEFORE the
	// Bubble Tea program starts, otherwise the OSC 11 response races the
	// input loop and shows up as garbage input.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
	lipgloss.SetColorProfile(termenv.ColorProfile())
}

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "lookout",
	Short:   "A live tmux dashboard for AI coding-agent sessions",
	Long:    `Discovers coding-agent processes running in tmux panes, shows which are working and which are waiting, live-previews the selected pane, and switches, creates and kills sessions without leaving the dashboard.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/lookout/config.yaml)")
	rootCmd.Flags().Bool("debug", false,
		"write a debug log to ~/.config/lookout/debug.log")
	rootCmd.Flags().Bool("exit", false,
		"quit the dashboard after switching to a session")

	_ = viper.BindPFlag("exit_on_switch", rootCmd.Flags().Lookup("exit"))
}

func initConfig() {
	defaults := config.DefaultConfig()
	viper.SetDefault("command", defaults.Command)
	viper.SetDefault("session_name_formatter", defaults.SessionNameFormatter)
	viper.SetDefault("exit_on_switch", defaults.ExitOnSwitch)
	viper.SetDefault("poll.interval_ms", defaults.Poll.IntervalMS)
	viper.SetDefault("poll.debounce_ms", defaults.Poll.DebounceMS)
	viper.SetDefault("poll.fallback_ms", defaults.Poll.FallbackMS)
	viper.SetDefault("theme.mode", defaults.Theme.Mode)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(config.DefaultDir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// A missing config file just means defaults.
	_ = viper.ReadInConfig()
	_ = viper.Unmarshal(&cfg)
}

// reloadConfig re-reads the config file in place and swaps the poller's
// formatter so hot reload picks up a changed formatter path.
func reloadConfig(p *poller.Poller) func() (config.Config, error) {
	return func() (config.Config, error) {
		if err := viper.ReadInConfig(); err != nil {
			return config.Config{}, err
		}
		var next config.Config
		if err := viper.Unmarshal(&next); err != nil {
			return config.Config{}, err
		}
		if err := config.Validate(next); err != nil {
			return config.Config{}, err
		}
		p.SetFormatter(formatterFor(next))
		cfg = next
		return next, nil
	}
}

func formatterFor(c config.Config) poller.Formatter {
	if path := c.FormatterPath(); path != "" {
		return poller.ExecFormatter(path)
	}
	return nil
}

func runApp(cmd *cobra.Command, _ []string) error {
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	switch cfg.Theme.Mode {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	}
	styles.ApplyTheme(cfg.Theme.Highlight, cfg.Theme.Accent)

	if debug, _ := cmd.Flags().GetBool("debug"); debug || os.Getenv("LOOKOUT_DEBUG") != "" {
		logPath := filepath.Join(config.DefaultDir(), "debug.log")
		if closeLog, err := log.Init(logPath); err == nil {
			defer closeLog()
		}
	}

	zone.NewGlobal()
	defer zone.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tmuxClient := tmux.NewClient()
	classifier := tmux.NewClassifier(tmux.ExecProcessLister{}, cfg.Command)

	snapshotBroker := pubsub.NewBroker[poller.Snapshot]()
	previewBroker := pubsub.NewBroker[string]()
	defer snapshotBroker.Close()
	defer previewBroker.Close()

	diskCache := cache.NewStore(cache.DefaultPath())

	sessionPoller := poller.New(poller.Options{
		Source:    tmuxClient,
		Filter:    classifier,
		Broker:    snapshotBroker,
		DiskCache: diskCache,
		Interval:  cfg.PollInterval(),
		Formatter: formatterFor(cfg),
	})
	previewWatcher := preview.NewWatcher(
		tmuxClient, previewBroker, cfg.PreviewDebounce(), cfg.PreviewFallback())

	// Config hot reload is best effort; the dashboard runs fine without
	// the watcher when the config dir does not exist yet.
	var configChanges <-chan struct{}
	if path := viper.ConfigFileUsed(); path != "" {
		if w, err := watcher.New(watcher.DefaultConfig(path)); err == nil {
			if ch, err := w.Start(); err == nil {
				configChanges = ch
				defer func() { _ = w.Stop() }()
			}
		}
	}

	model := ui.New(ui.Options{
		Ctx:            ctx,
		Tmux:           tmuxClient,
		Preview:        previewWatcher,
		SnapshotBroker: snapshotBroker,
		PreviewBroker:  previewBroker,
		ConfigChanges:  configChanges,
		ReloadConfig:   reloadConfig(sessionPoller),
		Names:          sessionPoller,
		State:          state.NewStore(state.DefaultPath()),
		Clipboard:      clipboard.SystemClipboard{},
		Config:         cfg,
		Cached:         diskCache.Load(),
	})

	go sessionPoller.Run(ctx)
	go previewWatcher.Run(ctx)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, runErr := p.Run()

	// Stop the watcher and wait for its teardown so the selected pane is
	// not left piping into an orphaned fifo after we exit.
	cancel()
	previewWatcher.Wait()

	if runErr != nil {
		return fmt.Errorf("running program: %w", runErr)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

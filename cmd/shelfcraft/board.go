package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"shelfcraft/cmd/shelfcraft/board"
	"shelfcraft/internal/api"
	"shelfcraft/internal/config"
	"shelfcraft/internal/journal"
	"shelfcraft/internal/notify"
	"shelfcraft/internal/session"
)

// runSelfCheck exercises the client's own plumbing (filter encoding, drag
// payload round-trip, move validation) without touching the network.
func runSelfCheck() (string, bool) {
	return session.SelfCheck()
}

// runBoard wires the full interactive stack: transport client, notifier,
// journal, session, config hot-reload, then hands the terminal to bubbletea.
func runBoard() error {
	client := api.NewClient(api.NewAddress(cfg.Server.BaseURL), logger)
	client.SetTimeout(cfg.GetTimeout())

	notifier := notify.NewNotifier(cfg.GetToastTTL())

	var opts []session.Option
	if cfg.Journal.Enabled {
		if j, err := journal.Open(cfg.Journal.Path); err == nil {
			defer j.Close()
			opts = append(opts, session.WithJournal(j))
		}
	}

	sess := session.New(client, notifier, logger, cfg.GetSearchDebounce(), opts...)
	defer sess.Close()
	defer notifier.Close()

	// Startup self-test, mirroring the status surface: failures show as a
	// sticky toast, success stays quiet.
	if status, ok := runSelfCheck(); !ok {
		notifier.Error(status)
	}

	// Edits to the config file retarget the backend without a restart.
	// In-flight requests keep the address they started with.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if watcher, err := config.NewWatcher(configPath, func(next *config.Config) {
		sess.SetBaseURL(next.Server.BaseURL)
	}, logger); err == nil {
		if err := watcher.Start(ctx); err == nil {
			defer watcher.Stop()
		}
	}

	program := tea.NewProgram(board.New(sess, cfg.Board.Theme), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("board exited: %w", err)
	}
	return nil
}

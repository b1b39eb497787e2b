package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/warelog/scanpost/config"
	"github.com/warelog/scanpost/internal/integrations/tracker"
	"github.com/warelog/scanpost/internal/integrations/tracker/fake"
	"github.com/warelog/scanpost/internal/integrations/tracker/trackerhttp"
	"github.com/warelog/scanpost/internal/queue"
	"github.com/warelog/scanpost/internal/session"
)

func main() {
	cfg := config.Default()
	if path := os.Getenv("configPath"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "load config:", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// Терминал занят интерфейсом, логи уходят в файл.
	logPath := os.Getenv("SCANPOST_LOG")
	var logW io.Writer = io.Discard
	if logPath != "" {
		if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			defer f.Close()
			logW = f
		}
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logW, nil)))

	var client tracker.Client
	if cfg.ScanPost.UseFakeTracker {
		client = fake.New()
	} else {
		client = trackerhttp.New(
			cfg.Tracker.BaseURL,
			time.Duration(cfg.Tracker.PingTimeoutSeconds)*time.Second,
			time.Duration(cfg.Tracker.DataTimeoutSeconds)*time.Second,
		)
	}

	q := queue.New(cfg.Storage.QueuePath, client)
	sessions := session.NewStore(cfg.Storage.SessionPath)

	p := tea.NewProgram(initialModel(cfg, client, q, sessions), tea.WithAltScreen())

	// Drain completions happen on a background goroutine; Send
	// marshals them back onto the update loop.
	q.OnDrained = func(n int) {
		p.Send(drainedMsg{delivered: n})
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "scanpost:", err)
		os.Exit(1)
	}
}

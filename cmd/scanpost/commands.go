package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/warelog/scanpost/internal/integrations/tracker"
	"github.com/warelog/scanpost/internal/models"
	"github.com/warelog/scanpost/internal/queue"
	"github.com/warelog/scanpost/internal/services/reports"
)

const dataCallTimeout = 10 * time.Second

func loginCmd(client tracker.Client, username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), dataCallTimeout)
		defer cancel()

		res, err := client.Login(ctx, username, password)
		return loginDoneMsg{res: res, err: err}
	}
}

// submitScanCmd attempts immediate delivery of one fresh scan. The
// caller decides what a failure means (queueing); this command only
// reports the outcome.
func submitScanCmd(client tracker.Client, token string, rec models.Record) tea.Cmd {
	return func() tea.Msg {
		if token == "" {
			return scanDoneMsg{rec: rec, err: tracker.ErrUnauthorized}
		}
		ctx, cancel := context.WithTimeout(context.Background(), dataCallTimeout)
		defer cancel()

		res, err := client.SubmitRecord(ctx, token, rec)
		return scanDoneMsg{rec: rec, note: res.Note, err: err}
	}
}

// drainCmd kicks the offline queue and returns immediately. The
// delivered count comes back later as a drainedMsg through the
// queue's completion callback, which main wires to Program.Send.
func drainCmd(q *queue.Queue, token string) tea.Cmd {
	return func() tea.Msg {
		q.Drain(context.Background(), token)
		return nil
	}
}

func drainTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return drainTickMsg(t)
	})
}

// fetchReportCmd pulls both record lists and aggregates them for the
// given window. gen is echoed back so a superseded fetch can be
// ignored instead of clobbering a newer summary.
func fetchReportCmd(client tracker.Client, token string, w models.TimeWindow, gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), dataCallTimeout)
		defer cancel()

		scans, err := client.ListRecords(ctx, token)
		if err != nil {
			return reportMsg{gen: gen, err: err}
		}
		errs, err := client.ListErrors(ctx, token)
		if err != nil {
			return reportMsg{gen: gen, err: err}
		}
		return reportMsg{gen: gen, summary: reports.Summarize(scans, errs, w)}
	}
}

func exportCmd(s reports.Summary, dir string, xlsx bool) tea.Cmd {
	return func() tea.Msg {
		stamp := time.Now().Format("20060102-150405")
		var path string
		var err error
		if xlsx {
			path = filepath.Join(dir, fmt.Sprintf("scan-report-%s.xlsx", stamp))
			err = reports.ExportXLSX(s, path)
		} else {
			path = filepath.Join(dir, fmt.Sprintf("scan-report-%s.csv", stamp))
			err = reports.Export(s, path)
		}
		return exportDoneMsg{path: path, err: err}
	}
}

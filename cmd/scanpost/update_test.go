package main

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/warelog/scanpost/config"
	"github.com/warelog/scanpost/internal/integrations/tracker/fake"
	"github.com/warelog/scanpost/internal/models"
	"github.com/warelog/scanpost/internal/queue"
	"github.com/warelog/scanpost/internal/session"
)

func testModel(t *testing.T) model {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Storage.QueuePath = filepath.Join(dir, "queue.json")
	cfg.Storage.SessionPath = filepath.Join(dir, "session.json")

	client := fake.New()
	q := queue.New(cfg.Storage.QueuePath, client)
	return initialModel(cfg, client, q, session.NewStore(cfg.Storage.SessionPath))
}

func TestParseWindow(t *testing.T) {
	w, err := parseWindow("2024-03-01", "2024-03-10 18:30")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *w.From)
	require.Equal(t, time.Date(2024, 3, 10, 18, 30, 0, 0, time.UTC), *w.To)

	w, err = parseWindow("", "")
	require.NoError(t, err)
	require.Nil(t, w.From)
	require.Nil(t, w.To)

	_, err = parseWindow("next tuesday", "")
	require.Error(t, err)
}

func TestOnScanDone_failureQueues(t *testing.T) {
	m := testModel(t)

	rec := models.Record{OperatorName: "Ivan", BoxID: "B1", ShipmentID: "T1"}
	next, _ := m.onScanDone(scanDoneMsg{rec: rec, err: errors.New("connection refused")})

	nm := next.(model)
	require.Equal(t, 1, nm.q.Len())
	require.Contains(t, nm.status, "saved offline")
}

func TestOnScanDone_successDoesNotQueue(t *testing.T) {
	m := testModel(t)

	rec := models.Record{OperatorName: "Ivan", BoxID: "B1", ShipmentID: "T1"}
	next, _ := m.onScanDone(scanDoneMsg{rec: rec, note: ""})

	nm := next.(model)
	require.Equal(t, 0, nm.q.Len())
	require.Equal(t, "scan recorded", nm.status)
}

func TestOnReport_staleGenerationIgnored(t *testing.T) {
	m := testModel(t)
	m.reportGen = 5

	next, _ := m.onReport(reportMsg{gen: 3})
	nm := next.(model)
	require.Nil(t, nm.summary)
}

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/warelog/scanpost/internal/integrations/tracker"
	"github.com/warelog/scanpost/internal/models"
	"github.com/warelog/scanpost/internal/session"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case drainTickMsg:
		// Opportunistic periodic drain; harmless when nothing queued.
		return m, tea.Batch(drainCmd(m.q, m.sess.Token), drainTick(m.drainInterval()))

	case drainedMsg:
		if msg.delivered > 0 {
			m.status = fmt.Sprintf("delivered %d queued scan(s)", msg.delivered)
		}
		return m, nil

	case loginDoneMsg:
		return m.onLoginDone(msg)

	case scanDoneMsg:
		return m.onScanDone(msg)

	case reportMsg:
		return m.onReport(msg)

	case exportDoneMsg:
		if msg.err != nil {
			m.errText = "export failed: " + msg.err.Error()
		} else {
			m.status = "report written to " + msg.path
			m.errText = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.onKey(msg)
	}

	return m, nil
}

func (m model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	switch m.screen {
	case screenLogin:
		return m.updateLogin(msg)
	case screenScan:
		return m.updateScan(msg)
	case screenReport:
		return m.updateReport(msg)
	}
	return m, nil
}

func (m model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextField):
		if m.userInput.Focused() {
			m.userInput.Blur()
			m.passInput.Focus()
		} else {
			m.passInput.Blur()
			m.userInput.Focus()
		}
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		user := strings.TrimSpace(m.userInput.Value())
		if user == "" {
			m.errText = "username is required"
			return m, nil
		}
		m.loading = true
		m.errText = ""
		return m, loginCmd(m.client, user, m.passInput.Value())
	}

	var cmd tea.Cmd
	if m.userInput.Focused() {
		m.userInput, cmd = m.userInput.Update(msg)
	} else {
		m.passInput, cmd = m.passInput.Update(msg)
	}
	return m, cmd
}

func (m model) onLoginDone(msg loginDoneMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		if errors.Is(msg.err, tracker.ErrUnauthorized) {
			m.errText = "authorization failed, check credentials"
		} else {
			m.errText = "service unreachable, try again"
		}
		return m, nil
	}

	sess := session.Session{
		Token:        msg.res.Token,
		OperatorName: msg.res.OperatorName,
		RoleName:     msg.res.RoleName,
		RoleLevel:    msg.res.RoleLevel,
	}
	if err := m.sessions.Save(sess); err != nil {
		// Потеря "запомненного входа" не критична, работаем дальше.
		m.status = "login ok (session not remembered)"
	} else {
		m.status = "logged in as " + msg.res.OperatorName
	}
	m.sess = sess.Context()
	m.errText = ""
	m.screen = screenScan
	m.boxInput.Focus()

	// Login is a drain trigger: whatever piled up offline goes now.
	return m, drainCmd(m.q, m.sess.Token)
}

func (m model) updateScan(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Report):
		m.screen = screenReport
		m.fromInput.Focus()
		return m.refreshReport()

	case key.Matches(msg, m.keys.Logout):
		m.sessions.Clear()
		m.sess = session.Context{}
		m.screen = screenLogin
		m.userInput.Reset()
		m.passInput.Reset()
		m.userInput.Focus()
		m.status = ""
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		if m.boxInput.Focused() {
			m.boxInput.Blur()
			m.ttnInput.Focus()
		} else {
			m.ttnInput.Blur()
			m.boxInput.Focus()
		}
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		box := strings.TrimSpace(m.boxInput.Value())
		ttn := strings.TrimSpace(m.ttnInput.Value())
		if box == "" || ttn == "" {
			m.errText = "both box id and shipment id are required"
			return m, nil
		}
		rec := models.Record{
			OperatorName: m.sess.OperatorName,
			BoxID:        box,
			ShipmentID:   ttn,
		}
		m.boxInput.Reset()
		m.ttnInput.Reset()
		m.boxInput.Focus()
		m.ttnInput.Blur()
		m.errText = ""
		m.status = "submitting " + box + " / " + ttn
		return m, submitScanCmd(m.client, m.sess.Token, rec)
	}

	var cmd tea.Cmd
	if m.boxInput.Focused() {
		m.boxInput, cmd = m.boxInput.Update(msg)
	} else {
		m.ttnInput, cmd = m.ttnInput.Update(msg)
	}
	return m, cmd
}

func (m model) onScanDone(msg scanDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// Delivery failed (offline, or no token): the scan is not
		// lost, it goes to the durable queue for a later drain.
		m.q.Enqueue(msg.rec)
		m.status = fmt.Sprintf("saved offline (%d queued)", m.q.Len())
		return m, nil
	}
	if msg.note != "" {
		m.status = "accepted with note: " + msg.note
	} else {
		m.status = "scan recorded"
	}
	// A completed scan is a drain trigger too.
	return m, drainCmd(m.q, m.sess.Token)
}

func (m model) updateReport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Scan):
		m.screen = screenScan
		m.boxInput.Focus()
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		if m.fromInput.Focused() {
			m.fromInput.Blur()
			m.toInput.Focus()
		} else {
			m.toInput.Blur()
			m.fromInput.Focus()
		}
		return m, nil

	case key.Matches(msg, m.keys.Submit), key.Matches(msg, m.keys.Refresh):
		return m.refreshReport()

	case key.Matches(msg, m.keys.ExportCSV):
		if m.summary == nil {
			m.errText = "nothing to export yet"
			return m, nil
		}
		return m, exportCmd(*m.summary, m.cfg.ScanPost.ExportDir, false)

	case key.Matches(msg, m.keys.ExportXLS):
		if m.summary == nil {
			m.errText = "nothing to export yet"
			return m, nil
		}
		return m, exportCmd(*m.summary, m.cfg.ScanPost.ExportDir, true)
	}

	var cmd tea.Cmd
	if m.fromInput.Focused() {
		m.fromInput, cmd = m.fromInput.Update(msg)
	} else {
		m.toInput, cmd = m.toInput.Update(msg)
	}
	return m, cmd
}

func (m model) refreshReport() (tea.Model, tea.Cmd) {
	w, err := parseWindow(m.fromInput.Value(), m.toInput.Value())
	if err != nil {
		m.errText = err.Error()
		return m, nil
	}
	m.reportGen++
	m.loading = true
	m.errText = ""
	return m, fetchReportCmd(m.client, m.sess.Token, w, m.reportGen)
}

func (m model) onReport(msg reportMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.reportGen {
		// Окно успели поменять, этот результат устарел.
		return m, nil
	}
	m.loading = false
	if msg.err != nil {
		if errors.Is(msg.err, tracker.ErrUnauthorized) {
			m.errText = "authorization required, log in again"
		} else {
			m.errText = "fetch failed: " + msg.err.Error()
		}
		return m, nil
	}
	s := msg.summary
	m.summary = &s
	return m, nil
}

// parseWindow reads the optional window bounds. Accepted layouts:
// date with time, or bare date.
func parseWindow(from, to string) (models.TimeWindow, error) {
	parse := func(s string) (*time.Time, error) {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		for _, layout := range []string{"2006-01-02 15:04", "2006-01-02"} {
			if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return &t, nil
			}
		}
		return nil, fmt.Errorf("bad date %q, expected 2006-01-02 or 2006-01-02 15:04", s)
	}

	f, err := parse(from)
	if err != nil {
		return models.TimeWindow{}, err
	}
	t, err := parse(to)
	if err != nil {
		return models.TimeWindow{}, err
	}
	return models.TimeWindow{From: f, To: t}, nil
}

package main

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/warelog/scanpost/config"
	"github.com/warelog/scanpost/internal/integrations/tracker"
	"github.com/warelog/scanpost/internal/queue"
	"github.com/warelog/scanpost/internal/services/reports"
	"github.com/warelog/scanpost/internal/session"
)

type screen int

const (
	screenLogin screen = iota
	screenScan
	screenReport
)

type model struct {
	cfg      *config.Config
	client   tracker.Client
	q        *queue.Queue
	sessions *session.Store
	sess     session.Context

	screen screen
	keys   keyMap

	// login
	userInput textinput.Model
	passInput textinput.Model

	// scan
	boxInput textinput.Model
	ttnInput textinput.Model

	// report
	fromInput textinput.Model
	toInput   textinput.Model
	summary   *reports.Summary
	// reportGen guards against a stale fetch replacing a newer one:
	// only the result carrying the current generation is applied.
	reportGen int
	loading   bool

	spinner spinner.Model
	status  string
	errText string
	width   int
	height  int
}

func initialModel(cfg *config.Config, client tracker.Client, q *queue.Queue, sessions *session.Store) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(highlight)

	m := model{
		cfg:      cfg,
		client:   client,
		q:        q,
		sessions: sessions,
		keys:     defaultKeys(),
		spinner:  sp,
	}

	m.userInput = newInput("username", 32)
	m.passInput = newInput("password", 32)
	m.passInput.EchoMode = textinput.EchoPassword
	m.boxInput = newInput("box id", 64)
	m.ttnInput = newInput("shipment id (ttn)", 64)
	m.fromInput = newInput("from (2006-01-02 15:04, empty = open)", 24)
	m.toInput = newInput("to (2006-01-02 15:04, empty = open)", 24)

	// Remembered login skips the login screen; the queue drains on the
	// way in.
	m.sess = sessions.Load().Context()
	if m.sess.LoggedIn() {
		m.screen = screenScan
		m.boxInput.Focus()
	} else {
		m.screen = screenLogin
		m.userInput.Focus()
	}
	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = 40
	return in
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, drainTick(m.drainInterval())}
	if m.sess.LoggedIn() {
		cmds = append(cmds, drainCmd(m.q, m.sess.Token))
	}
	return tea.Batch(cmds...)
}

func (m model) drainInterval() time.Duration {
	return time.Duration(m.cfg.ScanPost.DrainIntervalSeconds) * time.Second
}

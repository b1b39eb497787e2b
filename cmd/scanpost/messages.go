package main

import (
	"time"

	"github.com/warelog/scanpost/internal/integrations/tracker"
	"github.com/warelog/scanpost/internal/models"
	"github.com/warelog/scanpost/internal/services/reports"
)

// Every network operation finishes as exactly one of these messages,
// delivered back onto the update loop. Nothing below mutates model
// state from a background goroutine.

type loginDoneMsg struct {
	res tracker.LoginResult
	err error
}

type scanDoneMsg struct {
	rec  models.Record
	note string
	err  error
}

type drainTickMsg time.Time

type drainedMsg struct {
	delivered int
}

type reportMsg struct {
	gen     int
	summary reports.Summary
	err     error
}

type exportDoneMsg struct {
	path string
	err  error
}

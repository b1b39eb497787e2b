package main

import (
	"fmt"
	"strings"
)

func (m model) View() string {
	var b strings.Builder

	switch m.screen {
	case screenLogin:
		b.WriteString(headerStyle.Render("ScanPost — sign in"))
		b.WriteString("\n\n")
		b.WriteString(labelStyle.Render("Username") + "\n" + m.userInput.View() + "\n\n")
		b.WriteString(labelStyle.Render("Password") + "\n" + m.passInput.View() + "\n\n")
		b.WriteString(queueStyle.Render("enter: sign in · tab: next field · ctrl+c: quit"))

	case screenScan:
		b.WriteString(headerStyle.Render("ScanPost — scanning as " + m.sess.OperatorName))
		b.WriteString("\n\n")
		b.WriteString(labelStyle.Render("Box ID") + "\n" + m.boxInput.View() + "\n\n")
		b.WriteString(labelStyle.Render("Shipment ID (TTN)") + "\n" + m.ttnInput.View() + "\n\n")
		b.WriteString(queueStyle.Render(fmt.Sprintf("offline queue: %d", m.q.Len())))
		b.WriteString("\n")
		b.WriteString(queueStyle.Render("enter: submit · tab: next field · f2: report · ctrl+l: logout"))

	case screenReport:
		b.WriteString(headerStyle.Render("ScanPost — report"))
		b.WriteString("\n\n")
		b.WriteString(labelStyle.Render("From") + " " + m.fromInput.View() + "\n")
		b.WriteString(labelStyle.Render("To  ") + " " + m.toInput.View() + "\n\n")
		if m.loading {
			b.WriteString(m.spinner.View() + " fetching…\n")
		} else if m.summary != nil {
			b.WriteString(m.renderSummary())
		} else {
			b.WriteString(queueStyle.Render("no data yet, press f5 to fetch") + "\n")
		}
		b.WriteString("\n")
		b.WriteString(queueStyle.Render("enter/f5: refresh · ctrl+e: csv · ctrl+x: xlsx · f1: back to scan"))
	}

	b.WriteString("\n")
	if m.errText != "" {
		b.WriteString(errorStyle.Render(m.errText) + "\n")
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status) + "\n")
	}

	return boxStyle.Render(b.String())
}

func (m model) renderSummary() string {
	s := m.summary
	var b strings.Builder

	b.WriteString(fmt.Sprintf("period: %s\n", s.Period))
	b.WriteString(fmt.Sprintf("scans: %d (operators: %d)   errors: %d (operators: %d)\n",
		s.TotalScans, s.UniqueScanOperators, s.TotalErrors, s.UniqueErrorOperators))
	b.WriteString(fmt.Sprintf("top scanner: %s (%d)   top error producer: %s (%d)\n\n",
		s.TopScanner.Operator, s.TopScanner.Count,
		s.TopErrorProducer.Operator, s.TopErrorProducer.Count))

	b.WriteString(tableHeaderStyle.Render(fmt.Sprintf("%-12s %6s %6s  %-18s %-18s", "date", "scans", "errors", "top scanner", "top errors")))
	b.WriteString("\n")

	rows := s.Daily
	if len(rows) > 14 {
		rows = rows[:14] // свежие даты сверху, остальное в экспорт
	}
	for _, d := range rows {
		b.WriteString(fmt.Sprintf("%-12s %6d %6d  %-18s %-18s\n",
			d.Date, d.Scans, d.Errors,
			fmt.Sprintf("%s (%d)", d.TopScanner.Operator, d.TopScanner.Count),
			fmt.Sprintf("%s (%d)", d.TopErrorProducer.Operator, d.TopErrorProducer.Count)))
	}
	if len(s.Daily) > len(rows) {
		b.WriteString(queueStyle.Render(fmt.Sprintf("… %d more day(s) in the export", len(s.Daily)-len(rows))))
		b.WriteString("\n")
	}

	return b.String()
}

// Package reports turns the raw record lists fetched from the
// tracking service into per-operator and per-day statistics. Every
// operation here is a pure function over its inputs; the only side
// effect in the package is the explicit export write.
package reports

import (
	"sort"

	"github.com/warelog/scanpost/internal/models"
)

// NoOperator is the placeholder returned by Top for an empty counts
// mapping.
const NoOperator = "-"

type TopEntry struct {
	Operator string
	Count    int
}

type DailyRow struct {
	Date             string // 2006-01-02
	Scans            int
	Errors           int
	TopScanner       TopEntry
	TopErrorProducer TopEntry
}

type Summary struct {
	Period               string
	TotalScans           int
	TotalErrors          int
	UniqueScanOperators  int
	UniqueErrorOperators int
	TopScanner           TopEntry
	TopErrorProducer     TopEntry
	ScanCounts           map[string]int
	ErrorCounts          map[string]int
	Daily                []DailyRow
}

// FilterRecords returns the records whose timestamp falls inside the
// window. A fully open window means no timestamp comparison at all, so
// records without a usable timestamp pass through; a bounded window
// excludes them, since they cannot be placed against a bound.
func FilterRecords(recs []models.Record, w models.TimeWindow) []models.Record {
	w = w.Normalize()
	open := w.From == nil && w.To == nil
	out := make([]models.Record, 0, len(recs))
	for _, r := range recs {
		if open {
			out = append(out, r)
			continue
		}
		if r.RecordedAt != nil && w.Contains(*r.RecordedAt) {
			out = append(out, r)
		}
	}
	return out
}

func FilterErrors(errs []models.ErrorRecord, w models.TimeWindow) []models.ErrorRecord {
	w = w.Normalize()
	open := w.From == nil && w.To == nil
	out := make([]models.ErrorRecord, 0, len(errs))
	for _, e := range errs {
		if open {
			out = append(out, e)
			continue
		}
		if e.RecordedAt != nil && w.Contains(*e.RecordedAt) {
			out = append(out, e)
		}
	}
	return out
}

// CountByOperator maps operator display name to record count. Blank
// operator names are attributed to the fixed placeholder, never
// dropped.
func CountByOperator(recs []models.Record) map[string]int {
	counts := make(map[string]int, len(recs))
	for _, r := range recs {
		counts[r.Operator()]++
	}
	return counts
}

// Top returns the operator with the highest count. Ties break
// alphabetically so the result is stable regardless of map iteration
// order.
func Top(counts map[string]int) TopEntry {
	top := TopEntry{Operator: NoOperator}
	for op, n := range counts {
		if n > top.Count || (n == top.Count && top.Operator != NoOperator && op < top.Operator) {
			top = TopEntry{Operator: op, Count: n}
		}
	}
	return top
}

// DailyBreakdown groups both lists by calendar date (UTC) and rolls up
// per-day counts and leaders. A date present in only one list still
// appears, zero-filled on the other side. Records without a usable
// timestamp have no date to land on and are left out. Rows come back
// date-descending.
func DailyBreakdown(scans []models.Record, errs []models.ErrorRecord) []DailyRow {
	type bucket struct {
		scans []models.Record
		errs  []models.Record
	}
	days := make(map[string]*bucket)
	day := func(r models.Record) (string, bool) {
		if r.RecordedAt == nil {
			return "", false
		}
		return r.RecordedAt.UTC().Format("2006-01-02"), true
	}

	for _, r := range scans {
		if d, ok := day(r); ok {
			b := days[d]
			if b == nil {
				b = &bucket{}
				days[d] = b
			}
			b.scans = append(b.scans, r)
		}
	}
	for _, e := range errs {
		if d, ok := day(e.Record); ok {
			b := days[d]
			if b == nil {
				b = &bucket{}
				days[d] = b
			}
			b.errs = append(b.errs, e.Record)
		}
	}

	dates := make([]string, 0, len(days))
	for d := range days {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	rows := make([]DailyRow, 0, len(dates))
	for _, d := range dates {
		b := days[d]
		rows = append(rows, DailyRow{
			Date:             d,
			Scans:            len(b.scans),
			Errors:           len(b.errs),
			TopScanner:       Top(CountByOperator(b.scans)),
			TopErrorProducer: Top(CountByOperator(b.errs)),
		})
	}
	return rows
}

// Summarize computes the full report for one window. The inputs are
// whatever the retrieval calls returned; no network or disk involved.
func Summarize(scans []models.Record, errs []models.ErrorRecord, w models.TimeWindow) Summary {
	w = w.Normalize()
	scans = FilterRecords(scans, w)
	errs = FilterErrors(errs, w)

	errRecs := make([]models.Record, 0, len(errs))
	for _, e := range errs {
		errRecs = append(errRecs, e.Record)
	}

	scanCounts := CountByOperator(scans)
	errCounts := CountByOperator(errRecs)

	return Summary{
		Period:               w.Describe(),
		TotalScans:           len(scans),
		TotalErrors:          len(errRecs),
		UniqueScanOperators:  len(scanCounts),
		UniqueErrorOperators: len(errCounts),
		TopScanner:           Top(scanCounts),
		TopErrorProducer:     Top(errCounts),
		ScanCounts:           scanCounts,
		ErrorCounts:          errCounts,
		Daily:                DailyBreakdown(scans, errs),
	}
}

// sortedCounts renders a counts map as (operator, count) pairs ordered
// by count descending, then name, so exports are reproducible.
func sortedCounts(counts map[string]int) []TopEntry {
	out := make([]TopEntry, 0, len(counts))
	for op, n := range counts {
		out = append(out, TopEntry{Operator: op, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Operator < out[j].Operator
	})
	return out
}

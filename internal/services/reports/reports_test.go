package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/warelog/scanpost/internal/models"
)

func at(s string) *time.Time {
	t, ok := models.ParseRemoteTime(s)
	if !ok {
		panic("bad test timestamp: " + s)
	}
	return &t
}

func scan(op, when string) models.Record {
	r := models.Record{OperatorName: op, BoxID: "B", ShipmentID: "T"}
	if when != "" {
		r.RecordedAt = at(when)
	}
	return r
}

func errRec(op, when, reason string) models.ErrorRecord {
	return models.ErrorRecord{Record: scan(op, when), Reason: reason}
}

func TestCountByOperator_andTop(t *testing.T) {
	scans := []models.Record{
		scan("Ivan", "2024-05-01 10:00:00"),
		scan("Ivan", "2024-05-01 11:00:00"),
		scan("Olga", "2024-05-02 09:00:00"),
	}

	counts := CountByOperator(scans)
	require.Equal(t, map[string]int{"Ivan": 2, "Olga": 1}, counts)
	require.Equal(t, TopEntry{Operator: "Ivan", Count: 2}, Top(counts))

	rows := DailyBreakdown(scans, nil)
	require.Len(t, rows, 2)
	require.Equal(t, "2024-05-02", rows[0].Date)
	require.Equal(t, "2024-05-01", rows[1].Date)
}

func TestTop_emptyAndTies(t *testing.T) {
	require.Equal(t, TopEntry{Operator: NoOperator, Count: 0}, Top(nil))
	require.Equal(t, TopEntry{Operator: NoOperator, Count: 0}, Top(map[string]int{}))

	// Tie resolves alphabetically, independent of map iteration order.
	for range 50 {
		top := Top(map[string]int{"Zina": 3, "Anna": 3, "Boris": 1})
		require.Equal(t, TopEntry{Operator: "Anna", Count: 3}, top)
	}
}

func TestCountByOperator_unknownOperator(t *testing.T) {
	counts := CountByOperator([]models.Record{
		scan("", "2024-05-01 10:00:00"),
		scan("Ivan", "2024-05-01 11:00:00"),
	})
	require.Equal(t, 1, counts[models.UnknownOperator])
	require.Equal(t, 1, counts["Ivan"])

	s := Summarize([]models.Record{scan("", "")}, nil, models.TimeWindow{})
	require.Equal(t, 1, s.TotalScans)
	require.Equal(t, 1, s.ScanCounts[models.UnknownOperator])
}

func TestFilter_invertedWindowNormalizes(t *testing.T) {
	from := time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	recs := []models.Record{
		scan("Ivan", "2024-03-05 12:00:00"),
		scan("Olga", "2024-03-20 12:00:00"),
	}

	inverted := FilterRecords(recs, models.TimeWindow{From: &from, To: &to})
	straight := FilterRecords(recs, models.TimeWindow{From: &to, To: &from})
	require.Equal(t, straight, inverted)
	require.Len(t, inverted, 1)
	require.Equal(t, "Ivan", inverted[0].OperatorName)
}

func TestFilter_missingTimestamp(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	recs := []models.Record{
		scan("Ivan", ""),
		scan("Olga", "2024-03-05 12:00:00"),
	}

	// Bounded window: the timestampless record cannot be compared, out it goes.
	got := FilterRecords(recs, models.TimeWindow{From: &from})
	require.Len(t, got, 1)
	require.Equal(t, "Olga", got[0].OperatorName)

	// Open window: no comparison needed, everything passes.
	got = FilterRecords(recs, models.TimeWindow{})
	require.Len(t, got, 2)
}

func TestDailyBreakdown_zeroFillsMissingSide(t *testing.T) {
	scans := []models.Record{scan("Ivan", "2024-05-01 10:00:00")}
	errs := []models.ErrorRecord{errRec("Olga", "2024-05-02 10:00:00", "duplicate")}

	rows := DailyBreakdown(scans, errs)
	require.Len(t, rows, 2)

	require.Equal(t, "2024-05-02", rows[0].Date)
	require.Equal(t, 0, rows[0].Scans)
	require.Equal(t, 1, rows[0].Errors)
	require.Equal(t, NoOperator, rows[0].TopScanner.Operator)
	require.Equal(t, "Olga", rows[0].TopErrorProducer.Operator)

	require.Equal(t, "2024-05-01", rows[1].Date)
	require.Equal(t, 1, rows[1].Scans)
	require.Equal(t, 0, rows[1].Errors)
}

func TestSummarize_deterministic(t *testing.T) {
	scans := []models.Record{
		scan("Ivan", "2024-05-01 10:00:00"),
		scan("Ivan", "2024-05-01 11:00:00"),
		scan("Olga", "2024-05-02 09:00:00"),
	}
	errs := []models.ErrorRecord{errRec("Ivan", "2024-05-01 10:30:00", "duplicate")}

	first := Summarize(scans, errs, models.TimeWindow{})
	for range 20 {
		require.Equal(t, first, Summarize(scans, errs, models.TimeWindow{}))
	}

	require.Equal(t, 3, first.TotalScans)
	require.Equal(t, 1, first.TotalErrors)
	require.Equal(t, 2, first.UniqueScanOperators)
	require.Equal(t, TopEntry{Operator: "Ivan", Count: 2}, first.TopScanner)
	require.Equal(t, "all time", first.Period)
}

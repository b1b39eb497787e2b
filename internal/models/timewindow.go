package models

import "time"

// TimeWindow bounds aggregation. Either side may be nil, meaning
// unbounded. An inverted window (From after To) is normalized by
// swapping the bounds, never rejected.
type TimeWindow struct {
	From *time.Time
	To   *time.Time
}

func (w TimeWindow) Normalize() TimeWindow {
	if w.From != nil && w.To != nil && w.From.After(*w.To) {
		return TimeWindow{From: w.To, To: w.From}
	}
	return w
}

// Contains reports whether t falls inside the normalized window.
// Bounds are inclusive.
func (w TimeWindow) Contains(t time.Time) bool {
	n := w.Normalize()
	t = t.UTC()
	if n.From != nil && t.Before(n.From.UTC()) {
		return false
	}
	if n.To != nil && t.After(n.To.UTC()) {
		return false
	}
	return true
}

// Describe renders the window for report headers.
func (w TimeWindow) Describe() string {
	n := w.Normalize()
	const layout = "2006-01-02 15:04"
	switch {
	case n.From == nil && n.To == nil:
		return "all time"
	case n.From == nil:
		return "until " + n.To.UTC().Format(layout)
	case n.To == nil:
		return "since " + n.From.UTC().Format(layout)
	default:
		return n.From.UTC().Format(layout) + " — " + n.To.UTC().Format(layout)
	}
}

package models

import (
	"strings"
	"time"
)

// UnknownOperator — метка для записей без имени оператора.
const UnknownOperator = "unknown operator"

// UnspecifiedReason is attached to error records the server reported
// without any recognizable reason field.
const UnspecifiedReason = "unspecified"

// Record is one box/shipment scan attributed to an operator.
// RecordedAt is assigned by the tracking service on acceptance and is
// nil while the record only exists in the local offline queue.
type Record struct {
	ID           uint64     `json:"id,omitempty"`
	OperatorName string     `json:"user_name"`
	BoxID        string     `json:"boxid"`
	ShipmentID   string     `json:"ttn"`
	RecordedAt   *time.Time `json:"recorded_at,omitempty"`
	Note         string     `json:"note,omitempty"`
}

// Operator returns the display name used for aggregation, substituting
// the fixed placeholder for blank names.
func (r Record) Operator() string {
	name := strings.TrimSpace(r.OperatorName)
	if name == "" {
		return UnknownOperator
	}
	return name
}

// ErrorRecord is a server-reported anomaly (typically a duplicate
// submission). Reason is passed through as the server supplied it.
type ErrorRecord struct {
	Record
	Reason string `json:"reason"`
}

// QueueEntry pairs a queued Record with its stable local identity.
// Seq is assigned once at enqueue time and is what delivered entries
// are removed by; structurally identical records stay distinguishable.
type QueueEntry struct {
	Seq    uint64 `json:"seq"`
	Record Record `json:"record"`
}

const (
	isoOffsetLayout = "2006-01-02T15:04:05Z07:00"
	isoNaiveLayout  = "2006-01-02T15:04:05"
	spaceLayout     = "2006-01-02 15:04:05"
)

// ParseRemoteTime parses the tracking service's datetime field. The
// service emits ISO-8601 with an explicit offset, ISO-8601 without one,
// or a space-separated fallback; offsetless values are taken as UTC so
// that every parsed instant compares on the same footing.
func ParseRemoteTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(isoOffsetLayout, s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.ParseInLocation(isoNaiveLayout, s, time.UTC); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation(spaceLayout, s, time.UTC); err == nil {
		return t, true
	}
	return time.Time{}, false
}

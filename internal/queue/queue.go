// Package queue is the durable offline buffer for scan records that
// could not be delivered to the tracking service. Entries are appended
// in scan order and drained FIFO; a record delivered twice across a
// crash is absorbed by the service's duplicate-note mechanism, so the
// queue aims for at-least-once delivery, never exactly-once.
package queue

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/warelog/scanpost/internal/integrations/tracker"
	"github.com/warelog/scanpost/internal/models"
)

// Submitter is the single collaborator the queue needs from the
// tracker client.
type Submitter interface {
	SubmitRecord(ctx context.Context, token string, rec models.Record) (tracker.SubmitResult, error)
}

type Queue struct {
	sub Submitter

	// mu serializes every read and rewrite of the durable store so an
	// Enqueue and the remove-delivered pass of a drain can never
	// interleave into a lost update.
	mu     sync.Mutex
	st     store
	seq    uint64
	queued int64

	draining atomic.Bool

	// OnDrained, when set, is invoked after each drain pass with the
	// number of entries delivered in that pass.
	OnDrained func(delivered int)

	totalEnqueued     atomic.Int64
	totalDelivered    atomic.Int64
	lastDrainUnixNano atomic.Int64

	lastErrorMu sync.Mutex
	lastError   string
}

func New(path string, sub Submitter) *Queue {
	q := &Queue{sub: sub, st: store{path: path}}
	entries := q.st.load()
	for _, e := range entries {
		if e.Seq > q.seq {
			q.seq = e.Seq
		}
	}
	q.queued = int64(len(entries))
	return q
}

// Enqueue appends rec to the durable store. It never reports failure
// to the scanning workflow: losing one entry to a dying disk must not
// block the operator, so storage errors are logged and swallowed.
func (q *Queue) Enqueue(rec models.Record) {
	q.mu.Lock()
	defer q.mu.Unlock()

	entries := q.st.load()
	q.seq++
	entries = append(entries, models.QueueEntry{Seq: q.seq, Record: rec})
	if err := q.st.save(entries); err != nil {
		slog.Error("enqueue: persist failed, entry lost", "seq", q.seq, "error", err.Error())
		return
	}
	q.queued = int64(len(entries))
	q.totalEnqueued.Add(1)
}

// Len reports how many entries are currently awaiting delivery.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int(q.queued)
}

// Drain kicks off one background delivery pass. It returns
// immediately; with an empty token, an empty queue, or a pass already
// in flight it is a no-op. Safe to trigger from every login and every
// completed scan.
func (q *Queue) Drain(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if !q.draining.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer q.draining.Store(false)
		q.drainOnce(ctx, token)
	}()
}

// drainOnce delivers queued entries in FIFO order, stopping at the
// first failed submission so later entries keep their order for the
// next pass. Removal afterwards is by entry Seq, never by position:
// entries enqueued while the pass ran must survive.
func (q *Queue) drainOnce(ctx context.Context, token string) {
	q.lastDrainUnixNano.Store(time.Now().UTC().UnixNano())

	q.mu.Lock()
	snapshot := q.st.load()
	q.mu.Unlock()

	if len(snapshot) == 0 {
		return
	}

	delivered := make(map[uint64]struct{}, len(snapshot))
	for _, e := range snapshot {
		res, err := q.sub.SubmitRecord(ctx, token, e.Record)
		if err != nil {
			q.lastErrorMu.Lock()
			q.lastError = err.Error()
			q.lastErrorMu.Unlock()
			slog.Info("drain stopped, will retry from here",
				"seq", e.Seq, "remaining", len(snapshot)-len(delivered), "error", err.Error())
			break
		}
		if res.Duplicate() {
			slog.Info("queued record was a duplicate", "seq", e.Seq, "note", res.Note)
		}
		delivered[e.Seq] = struct{}{}
	}

	if len(delivered) > 0 {
		q.mu.Lock()
		current := q.st.load()
		kept := current[:0]
		for _, e := range current {
			if _, ok := delivered[e.Seq]; !ok {
				kept = append(kept, e)
			}
		}
		if err := q.st.save(kept); err != nil {
			slog.Error("drain: persist after delivery failed", "error", err.Error())
		} else {
			q.queued = int64(len(kept))
		}
		q.mu.Unlock()
		q.totalDelivered.Add(int64(len(delivered)))
	}

	if q.OnDrained != nil {
		q.OnDrained(len(delivered))
	}
}

type Stats struct {
	Queued         int        `json:"queued"`
	TotalEnqueued  int64      `json:"totalEnqueued"`
	TotalDelivered int64      `json:"totalDelivered"`
	LastDrainAt    *time.Time `json:"lastDrainAt,omitempty"`
	LastError      string     `json:"lastError,omitempty"`
}

func (q *Queue) Stats() Stats {
	st := Stats{
		Queued:         q.Len(),
		TotalEnqueued:  q.totalEnqueued.Load(),
		TotalDelivered: q.totalDelivered.Load(),
	}
	if n := q.lastDrainUnixNano.Load(); n > 0 {
		t := time.Unix(0, n).UTC()
		st.LastDrainAt = &t
	}
	q.lastErrorMu.Lock()
	st.LastError = q.lastError
	q.lastErrorMu.Unlock()
	return st
}

package fake

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/warelog/scanpost/internal/integrations/tracker"
	"github.com/warelog/scanpost/internal/models"
)

// Client — локальная заглушка трекинг-сервиса для офлайн-демо и тестов.
// Accepts any login, stores records in memory, flags duplicates by
// (boxid, ttn) the way the real service does.
type Client struct {
	mu      sync.Mutex
	nextID  uint64
	records []models.Record
	errs    []models.ErrorRecord

	// FailSubmits makes every SubmitRecord return a transport-style
	// error while set; used to exercise offline queueing.
	FailSubmits bool
}

func New() *Client { return &Client{nextID: 1} }

func (c *Client) Login(ctx context.Context, username, password string) (tracker.LoginResult, error) {
	return tracker.LoginResult{
		Token:        "fake-token",
		OperatorName: username,
		RoleName:     "operator",
	}, nil
}

func (c *Client) SubmitRecord(ctx context.Context, token string, rec models.Record) (tracker.SubmitResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.FailSubmits {
		return tracker.SubmitResult{}, fmt.Errorf("fake tracker: submit refused")
	}
	if token == "" {
		return tracker.SubmitResult{}, tracker.ErrUnauthorized
	}

	var note string
	for _, existing := range c.records {
		if existing.BoxID == rec.BoxID && existing.ShipmentID == rec.ShipmentID {
			note = fmt.Sprintf("duplicate of record #%d", existing.ID)
			break
		}
	}

	now := time.Now().UTC()
	stored := rec
	stored.ID = c.nextID
	stored.RecordedAt = &now
	stored.Note = note
	c.nextID++
	c.records = append(c.records, stored)

	if note != "" {
		c.errs = append(c.errs, models.ErrorRecord{Record: stored, Reason: note})
	}
	return tracker.SubmitResult{Note: note}, nil
}

func (c *Client) ListRecords(ctx context.Context, token string) ([]models.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token == "" {
		return nil, tracker.ErrUnauthorized
	}
	out := make([]models.Record, len(c.records))
	copy(out, c.records)
	return out, nil
}

func (c *Client) ListErrors(ctx context.Context, token string) ([]models.ErrorRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token == "" {
		return nil, tracker.ErrUnauthorized
	}
	out := make([]models.ErrorRecord, len(c.errs))
	copy(out, c.errs)
	return out, nil
}

func (c *Client) DeleteRecord(ctx context.Context, token string, id uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, r := range c.records {
		if r.ID == id {
			c.records = append(c.records[:i], c.records[i+1:]...)
			return nil
		}
	}
	return nil
}

func (c *Client) DeleteError(ctx context.Context, token string, id uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, e := range c.errs {
		if e.ID == id {
			c.errs = append(c.errs[:i], c.errs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (c *Client) ClearRecords(ctx context.Context, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = nil
	return nil
}

func (c *Client) ClearErrors(ctx context.Context, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = nil
	return nil
}

func (c *Client) Ping(ctx context.Context) error { return nil }

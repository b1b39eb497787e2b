package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/warelog/scanpost/internal/models"
)

// memStore holds the emulator's records in memory. Good enough for
// demos; the real service owns the durable copy.
type memStore struct {
	mu      sync.Mutex
	nextID  uint64
	records []models.Record
	errs    []models.ErrorRecord
}

func newMemStore() *memStore { return &memStore{nextID: 1} }

// add stores a record, stamping id and time. When an identical
// (boxid, ttn) pair already exists the record is still stored, but
// with a duplicate note attached, and the anomaly lands on the error
// list the way the production service reports it.
func (s *memStore) add(operator, boxID, shipmentID string) models.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	var note string
	for _, existing := range s.records {
		if existing.BoxID == boxID && existing.ShipmentID == shipmentID {
			note = fmt.Sprintf("duplicate of record #%d", existing.ID)
			break
		}
	}

	now := time.Now().UTC()
	rec := models.Record{
		ID:           s.nextID,
		OperatorName: operator,
		BoxID:        boxID,
		ShipmentID:   shipmentID,
		RecordedAt:   &now,
		Note:         note,
	}
	s.nextID++
	s.records = append(s.records, rec)

	if note != "" {
		s.errs = append(s.errs, models.ErrorRecord{Record: rec, Reason: note})
	}
	return rec
}

func (s *memStore) listRecords() []models.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *memStore) listErrors() []models.ErrorRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ErrorRecord, len(s.errs))
	copy(out, s.errs)
	return out
}

func (s *memStore) deleteRecord(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return true
		}
	}
	return false
}

func (s *memStore) deleteError(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.errs {
		if e.ID == id {
			s.errs = append(s.errs[:i], s.errs[i+1:]...)
			return true
		}
	}
	return false
}

func (s *memStore) clearRecords() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
}

func (s *memStore) clearErrors() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = nil
}

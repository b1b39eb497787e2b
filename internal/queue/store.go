package queue

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/warelog/scanpost/internal/models"
)

// store keeps the queued entries as a JSON array on disk. All calls
// happen under the queue's lock.
type store struct {
	path string
}

// load returns the persisted entries. A missing store is an empty
// queue. A corrupt store is also an empty queue: the file is discarded
// so the next save starts clean, and no error ever reaches a caller.
func (s *store) load() []models.QueueEntry {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("queue store unreadable, treating as empty", "path", s.path, "error", err.Error())
		}
		return nil
	}

	var entries []models.QueueEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		slog.Warn("queue store corrupt, discarding", "path", s.path, "error", err.Error())
		_ = os.Remove(s.path)
		return nil
	}
	return entries
}

// save rewrites the whole store atomically: temp file in the same
// directory, then rename. A crash mid-write leaves the previous store
// intact.
func (s *store) save(entries []models.QueueEntry) error {
	if entries == nil {
		entries = []models.QueueEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return errors.Wrap(err, "marshal queue")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "mkdir queue dir")
	}
	tmp, err := os.CreateTemp(dir, ".queue-*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp store")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "write temp store")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "close temp store")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "rename temp store")
	}
	return nil
}

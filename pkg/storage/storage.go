// Package storage wraps an embedded bbolt database used as the capture
// worker's diagnostic session ledger (SPEC_FULL section 3). It is
// deliberately not the neighbor store: that table's on-disk contract is a
// plain JSON file readable as a complete snapshot at any instant, which a
// bbolt database does not expose.
package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const sessionBucket = "capture_sessions"

// Storage wraps a BoltDB instance for persisting capture session history.
type Storage struct {
	db *bbolt.DB
}

// SessionRecord captures a single capture worker run summary.
type SessionRecord struct {
	ID             uint64    `json:"id"`
	StartedAt      time.Time `json:"started_at"`
	EndedAt        time.Time `json:"ended_at"`
	Interfaces     []string  `json:"interfaces"`
	FramesDecoded  uint64    `json:"frames_decoded"`
	FramesDropped  uint64    `json:"frames_dropped"`
	MalformedCount uint64    `json:"malformed_count"`
	ExitReason     string    `json:"exit_reason"`
}

// Open opens (or creates) the session ledger database at path.
func Open(path string) (*Storage, error) {
	if path == "" {
		return nil, errors.New("storage: empty path")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(sessionBucket))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Storage{db: db}, nil
}

// Close closes the underlying database.
func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// AddSession appends a capture session record.
func (s *Storage) AddSession(record SessionRecord) error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(sessionBucket))
		id, _ := b.NextSequence()
		record.ID = id

		data, err := json.Marshal(record)
		if err != nil {
			return err
		}
		return b.Put(itob(id), data)
	})
}

// ListSessions returns the most recent session records, most recent
// first, up to limit.
func (s *Storage) ListSessions(limit int) ([]SessionRecord, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("storage not initialised")
	}
	if limit <= 0 {
		limit = 20
	}

	records := make([]SessionRecord, 0, limit)
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(sessionBucket)).Cursor()
		for k, v := c.Last(); k != nil && len(records) < limit; k, v = c.Prev() {
			var rec SessionRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	return records, err
}

func itob(v uint64) []byte {
	var b [8]byte
	for i := uint(0); i < 8; i++ {
		b[7-i] = byte(v >> (i * 8))
	}
	return b[:]
}

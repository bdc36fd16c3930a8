// Package history persists past analysis runs in a bbolt database so the
// CLI can list and revisit them.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	bolt "go.etcd.io/bbolt"

	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/dynamicanalysis"
	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/explain"
	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/staticanalysis"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("not found")

var bucketReports = []byte("reports")

// Record is one stored analysis run.
type Record struct {
	ID          string                           `json:"id"`
	CreatedAt   time.Time                        `json:"created_at"`
	Source      string                           `json:"source"`
	Static      *staticanalysis.StaticReport     `json:"static,omitempty"`
	Dynamic     *dynamicanalysis.ExecutionResult `json:"dynamic,omitempty"`
	Explanation *explain.Explanation             `json:"explanation,omitempty"`
}

// Store is a bbolt-backed history of analysis records. ULID keys keep the
// bucket in chronological order.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) the history database at path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketReports)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores a record, assigning an ID and timestamp when unset, and
// returns the record's ID.
func (s *Store) Put(rec *Record) (string, error) {
	if rec.ID == "" {
		rec.ID = ulid.Make().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshaling record: %w", err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketReports).Put([]byte(rec.ID), data)
	})
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

// Get retrieves one record by ID.
func (s *Store) Get(id string) (*Record, error) {
	var rec Record
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketReports).Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns all records in chronological order.
func (s *Store) List() ([]*Record, error) {
	var out []*Record
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketReports).ForEach(func(_, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			out = append(out, &rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Clear removes all stored records.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketReports); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketReports)
		return err
	})
}

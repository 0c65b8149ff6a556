// Package cache holds the incremental-compile state: content hashes,
// the per-object sidecar files that gate recompilation, and a BoltDB
// ledger of compile outcomes behind `yaje cache stats`.
//
// The sidecars are the source of truth; the ledger is bookkeeping and
// can be deleted at any time without affecting correctness.
package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const bucketName = "builds"

// Entry records one compile outcome in the ledger.
type Entry struct {
	// Hash is the incremental key the object was built under
	Hash string `json:"hash"`

	// Module is the owning package name
	Module string `json:"module"`

	// Source is the absolute path of the translation unit
	Source string `json:"source"`

	// Object is the produced object file
	Object string `json:"object"`

	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
}

// Ledger stores compile records in BoltDB.
type Ledger struct {
	db *bbolt.DB
}

// OpenLedger opens (or creates) the ledger database.
func OpenLedger(path string) (*Ledger, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache ledger: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create ledger bucket: %w", err)
	}

	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error {
	if l.db != nil {
		return l.db.Close()
	}

	return nil
}

func key(module, source string) []byte {
	return []byte(module + "\x00" + source)
}

// Record upserts the entry for its (module, source) pair.
func (l *Ledger) Record(e Entry) error {
	return l.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}

		return tx.Bucket([]byte(bucketName)).Put(key(e.Module, e.Source), data)
	})
}

// Get returns the recorded entry, or nil on a miss.
func (l *Ledger) Get(module, source string) (*Entry, error) {
	var entry *Entry
	err := l.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get(key(module, source))
		if data == nil {
			return nil
		}

		entry = &Entry{}
		return json.Unmarshal(data, entry)
	})

	return entry, err
}

// Count returns the number of recorded compiles.
func (l *Ledger) Count() (int, error) {
	var count int
	err := l.db.View(func(tx *bbolt.Tx) error {
		count = tx.Bucket([]byte(bucketName)).Stats().KeyN
		return nil
	})

	return count, err
}

// Clear drops every record.
func (l *Ledger) Clear() error {
	return l.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketName)); err != nil {
			return err
		}

		_, err := tx.CreateBucket([]byte(bucketName))
		return err
	})
}

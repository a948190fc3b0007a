package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketLocalStorage = []byte("localStorage")

// BoltSlot stores slot values in a single bbolt bucket. Every Update is one
// bbolt read-write transaction, so appends are serialized by the file lock.
type BoltSlot struct {
	db *bolt.DB
}

// OpenBoltSlot opens (or creates) a bbolt database at path
func OpenBoltSlot(path string) (*BoltSlot, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, &StorageError{Backend: BackendBolt, Key: path, Op: "open", Err: err}
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, &StorageError{Backend: BackendBolt, Key: path, Op: "open", Err: fmt.Errorf("bbolt open: %w", err)}
	}
	return &BoltSlot{db: db}, nil
}

// Get copies the value out of the read transaction
func (s *BoltSlot) Get(key string) ([]byte, bool, error) {
	var value []byte
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLocalStorage)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			value = make([]byte, len(v))
			copy(value, v)
			found = true
		}
		return nil
	})
	if err != nil {
		return nil, false, &StorageError{Backend: BackendBolt, Key: key, Op: "read", Err: err}
	}
	return value, found, nil
}

// Update applies fn inside a single read-write transaction
func (s *BoltSlot) Update(key string, fn func([]byte, bool) ([]byte, error)) error {
	var fnErr error
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketLocalStorage)
		if err != nil {
			return err
		}
		var current []byte
		found := false
		if v := b.Get([]byte(key)); v != nil {
			current = make([]byte, len(v))
			copy(current, v)
			found = true
		}
		next, err := fn(current, found)
		if err != nil {
			fnErr = err
			return err
		}
		return b.Put([]byte(key), next)
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return &StorageError{Backend: BackendBolt, Key: key, Op: "write", Err: err}
	}
	return nil
}

// Delete removes key; a missing bucket or key is not an error
func (s *BoltSlot) Delete(key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLocalStorage)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
	if err != nil {
		return &StorageError{Backend: BackendBolt, Key: key, Op: "delete", Err: err}
	}
	return nil
}

// Close closes the underlying bbolt database
func (s *BoltSlot) Close() error {
	return s.db.Close()
}

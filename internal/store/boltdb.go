package store

import (
	"fmt"
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"
)

var bucketBlobs = []byte("blobs")

// BoltStore keeps blobs as values in a single bbolt bucket.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) unicabot.db under dataDir.
func NewBoltStore(dataDir string) (*BoltStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}
	dbPath := filepath.Join(dataDir, "unicabot.db")

	db, err := bolt.Open(dbPath, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketBlobs); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketBlobs, err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Read(key string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketBlobs).Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		// v is only valid inside the transaction.
		data = append([]byte(nil), v...)
		return nil
	})
	return data, err
}

func (s *BoltStore) Write(key string, data []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBlobs).Put([]byte(key), data)
	})
}

// Close closes the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Package countlog keeps the last cash count of each kind in a BoltDB file
// so the count screens can be prefilled after a restart.
package countlog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	bolt "github.com/boltdb/bolt"

	"github.com/ganot/fete-till/internal/domain/session"
)

const bucketName = "counts"

var _ session.CountArchive = (*Archive)(nil)

// Archive is a BoltDB-backed session.CountArchive.
type Archive struct {
	db *bolt.DB
}

// Open opens (or creates) the archive file at path.
func Open(path string) (*Archive, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open count archive: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create count bucket: %w", err)
	}

	return &Archive{db: db}, nil
}

// Close releases the file lock.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Save stores count under key. Rewriting an identical count is skipped.
func (a *Archive) Save(key string, count session.CashCount) error {
	data, err := json.Marshal(count)
	if err != nil {
		return fmt.Errorf("encode count: %w", err)
	}

	return a.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if bytes.Equal(b.Get([]byte(key)), data) {
			return nil
		}
		return b.Put([]byte(key), data)
	})
}

// Load returns the count stored under key, or nil when there is none.
func (a *Archive) Load(key string) (*session.CashCount, error) {
	var count *session.CashCount

	err := a.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketName)).Get([]byte(key))
		if v == nil {
			return nil
		}
		count = &session.CashCount{}
		return json.Unmarshal(v, count)
	})
	if err != nil {
		return nil, fmt.Errorf("load count %s: %w", key, err)
	}

	return count, nil
}

// Keys lists the keys that hold a count.
func (a *Archive) Keys() ([]string, error) {
	keys := []string{}
	err := a.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

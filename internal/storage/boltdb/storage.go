// Package boltdb implements profile-keyed config storage over a local
// BoltDB file. It backs the same ConfigStorage interface as the sqlite
// store for deployments that want the map profiles in a standalone
// key-value file instead of the relational database.
package boltdb

import (
	"context"
	"fmt"
	"sort"

	"go.etcd.io/bbolt"

	"github.com/cliftbar/mapviewer/internal/models"
	"github.com/cliftbar/mapviewer/internal/storage"
)

var bucketProfiles = []byte("profiles")

// Storage represents BoltDB storage implementation for config profiles
type Storage struct {
	db *bbolt.DB
}

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db}
	if err := s.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}
	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketProfiles); err != nil {
			return fmt.Errorf("failed to create profiles bucket: %w", err)
		}
		return nil
	})
}

// LoadProfile returns the serialized config stored under name.
// Returns ErrProfileNotFound when the profile does not exist.
func (s *Storage) LoadProfile(ctx context.Context, name string) ([]byte, error) {
	var value []byte

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketProfiles)
		if bucket == nil {
			return fmt.Errorf("profiles bucket not found")
		}

		data := bucket.Get([]byte(name))
		if data == nil {
			return storage.ErrProfileNotFound
		}

		value = make([]byte, len(data))
		copy(value, data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// SaveProfile upserts the serialized config under name.
func (s *Storage) SaveProfile(ctx context.Context, name string, data []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketProfiles)
		if bucket == nil {
			return fmt.Errorf("profiles bucket not found")
		}

		if err := bucket.Put([]byte(name), data); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
		return nil
	})
}

// ListProfiles returns all distinct stored profile names, sorted.
func (s *Storage) ListProfiles(ctx context.Context) ([]string, error) {
	names := []string{}

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketProfiles)
		if bucket == nil {
			return fmt.Errorf("profiles bucket not found")
		}

		return bucket.ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(names)
	return names, nil
}

// DeleteProfile removes a stored profile. The active "config" profile
// is protected and returns ErrProfileProtected.
func (s *Storage) DeleteProfile(ctx context.Context, name string) error {
	if name == models.ActiveProfile {
		return storage.ErrProfileProtected
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketProfiles)
		if bucket == nil {
			return fmt.Errorf("profiles bucket not found")
		}

		if err := bucket.Delete([]byte(name)); err != nil {
			return fmt.Errorf("failed to delete profile: %w", err)
		}
		return nil
	})
}

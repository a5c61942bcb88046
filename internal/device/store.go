// Package device is the local-first persistence layer: a single-file bolt
// database standing in for the browser's device storage. Ownership profiles
// and cart snapshots land here first; remote sync happens afterwards when a
// session exists.
package device

import (
	"encoding/json"
	"time"

	bolt "github.com/boltdb/bolt"
	"github.com/google/uuid"

	"github.com/francisco-dev-ao/angohost-api/internal/domain"
	apperrors "github.com/francisco-dev-ao/angohost-api/pkg/errors"
)

const (
	profilesBucket = "contact_profiles"
	cartsBucket    = "cart_snapshots"
)

// Store wraps a bolt database holding profiles and cart snapshots.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the device database and ensures the buckets exist.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(profilesBucket)); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(cartsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close releases the database file lock.
func (s *Store) Close() error {
	return s.db.Close()
}

// PutProfile writes a profile unconditionally (last write wins, single
// writer assumed).
func (s *Store) PutProfile(p domain.OwnershipProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(profilesBucket)).Put([]byte(p.ID.String()), data)
	})
}

// GetProfile retrieves a profile by ID.
func (s *Store) GetProfile(id uuid.UUID) (*domain.OwnershipProfile, error) {
	var p domain.OwnershipProfile
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(profilesBucket)).Get([]byte(id.String()))
		if v == nil {
			return &apperrors.ErrNotFound{Resource: "contact profile", ID: id.String()}
		}
		return json.Unmarshal(v, &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProfiles returns every locally stored profile.
func (s *Store) ListProfiles() ([]domain.OwnershipProfile, error) {
	var items []domain.OwnershipProfile
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(profilesBucket)).ForEach(func(k, v []byte) error {
			var p domain.OwnershipProfile
			if err := json.Unmarshal(v, &p); err != nil {
				return err
			}
			items = append(items, p)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.OwnershipProfile{}
	}
	return items, nil
}

// DeleteProfile removes a profile. Deleting an absent key is a no-op.
func (s *Store) DeleteProfile(id uuid.UUID) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(profilesBucket)).Delete([]byte(id.String()))
	})
}

// PutCart stores a cart snapshot blob for a session key.
func (s *Store) PutCart(key string, data []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(cartsBucket)).Put([]byte(key), data)
	})
}

// GetCart returns the snapshot for a session key, or nil when absent.
func (s *Store) GetCart(key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(cartsBucket)).Get([]byte(key))
		if v != nil {
			out = make([]byte, len(v))
			copy(out, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteCart drops a session's snapshot.
func (s *Store) DeleteCart(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(cartsBucket)).Delete([]byte(key))
	})
}

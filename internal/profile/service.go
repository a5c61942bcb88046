// Package profile manages ownership (registrant/contact) profiles with a
// local-first write path: the device store is written synchronously, and a
// write-ahead queue pushes the change to the remote store when a session
// exists. Remote failures are surfaced as reconciliation work instead of
// silently diverging.
package profile

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/francisco-dev-ao/angohost-api/internal/domain"
	apperrors "github.com/francisco-dev-ao/angohost-api/pkg/errors"
)

// LocalStore is the device-storage side of the write path.
type LocalStore interface {
	PutProfile(p domain.OwnershipProfile) error
	GetProfile(id uuid.UUID) (*domain.OwnershipProfile, error)
	ListProfiles() ([]domain.OwnershipProfile, error)
	DeleteProfile(id uuid.UUID) error
}

// RemoteStore is the durable backend side.
type RemoteStore interface {
	UpsertProfile(ctx context.Context, p domain.OwnershipProfile) error
}

// SyncState tracks one queued remote write.
type SyncState string

const (
	SyncPending SyncState = "pending"
	SyncAcked   SyncState = "acked"
	SyncFailed  SyncState = "failed"
)

// QueueEntry is one write-ahead record: the local write already happened,
// the remote write is tentative until acked.
type QueueEntry struct {
	Profile   domain.OwnershipProfile
	State     SyncState
	Attempts  int
	LastError string
	QueuedAt  time.Time
}

// Service owns the profile write path.
type Service struct {
	mu     sync.Mutex
	local  LocalStore
	remote RemoteStore
	logger *zap.Logger
	queue  []*QueueEntry
}

// NewService creates a profile service.
func NewService(local LocalStore, remote RemoteStore, logger *zap.Logger) *Service {
	return &Service{local: local, remote: remote, logger: logger}
}

// Save validates and stores a profile. The device store is written first
// and stays authoritative for the session; when a session user is present
// the write is queued and flushed to the remote store. When the profile
// already names an owner, it must be the session user.
func (s *Service) Save(ctx context.Context, p domain.OwnershipProfile, sessionUserID *uuid.UUID) (domain.OwnershipProfile, error) {
	if p.Name == "" {
		return p, &apperrors.ErrValidation{Field: "name", Message: "required"}
	}
	if p.Email == "" {
		return p, &apperrors.ErrValidation{Field: "email", Message: "required"}
	}
	if p.UserID != nil && (sessionUserID == nil || *p.UserID != *sessionUserID) {
		return p, &apperrors.ErrForbidden{Message: "profile belongs to another user"}
	}

	now := time.Now().UTC()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if sessionUserID != nil {
		p.UserID = sessionUserID
	}

	if err := s.local.PutProfile(p); err != nil {
		return p, err
	}

	if sessionUserID == nil {
		// unauthenticated: local-only persistence, synced later on sign-in
		return p, nil
	}

	s.enqueue(p)
	s.Flush(ctx)
	return p, nil
}

// Get reads a profile from the device store.
func (s *Service) Get(id uuid.UUID) (*domain.OwnershipProfile, error) {
	return s.local.GetProfile(id)
}

// List returns all locally known profiles.
func (s *Service) List() ([]domain.OwnershipProfile, error) {
	return s.local.ListProfiles()
}

// Delete removes a profile locally. Remote rows are kept; the admin screens
// own remote deletion.
func (s *Service) Delete(id uuid.UUID) error {
	return s.local.DeleteProfile(id)
}

func (s *Service) enqueue(p domain.OwnershipProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, &QueueEntry{
		Profile:  p,
		State:    SyncPending,
		QueuedAt: time.Now().UTC(),
	})
}

// Flush attempts every pending remote write once. Failures move the entry
// to SyncFailed and keep the payload for reconciliation.
func (s *Service) Flush(ctx context.Context) {
	s.mu.Lock()
	pending := make([]*QueueEntry, 0, len(s.queue))
	for _, e := range s.queue {
		if e.State == SyncPending {
			pending = append(pending, e)
		}
	}
	s.mu.Unlock()

	for _, e := range pending {
		err := s.remote.UpsertProfile(ctx, e.Profile)

		s.mu.Lock()
		e.Attempts++
		if err != nil {
			e.State = SyncFailed
			e.LastError = err.Error()
			s.logger.Warn("profile remote sync failed",
				zap.String("profile_id", e.Profile.ID.String()),
				zap.Error(err))
		} else {
			e.State = SyncAcked
			e.LastError = ""
		}
		s.mu.Unlock()
	}

	s.compact()
}

// NeedsReconciliation lists failed writes: the local copy diverged from the
// remote store and a human (or a retry) has to resolve it.
func (s *Service) NeedsReconciliation() []QueueEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []QueueEntry
	for _, e := range s.queue {
		if e.State == SyncFailed {
			out = append(out, *e)
		}
	}
	return out
}

// Retry moves a failed entry back to pending and flushes.
func (s *Service) Retry(ctx context.Context, profileID uuid.UUID) error {
	s.mu.Lock()
	found := false
	for _, e := range s.queue {
		if e.Profile.ID == profileID && e.State == SyncFailed {
			e.State = SyncPending
			found = true
		}
	}
	s.mu.Unlock()

	if !found {
		return &apperrors.ErrNotFound{Resource: "sync entry", ID: profileID.String()}
	}
	s.Flush(ctx)
	return nil
}

// compact drops acked entries; failed ones stay visible until resolved.
func (s *Service) compact() {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.queue[:0]
	for _, e := range s.queue {
		if e.State != SyncAcked {
			kept = append(kept, e)
		}
	}
	s.queue = kept
}

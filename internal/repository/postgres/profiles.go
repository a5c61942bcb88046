package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/francisco-dev-ao/angohost-api/internal/domain"
	apperrors "github.com/francisco-dev-ao/angohost-api/pkg/errors"
)

type profileRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProfileRepository creates a new contact profile repository
func NewProfileRepository(db *sql.DB, logger *zap.Logger) *profileRepository {
	return &profileRepository{db: db, logger: logger}
}

// UpsertProfile writes a profile, last write wins. This is the remote side
// of the local-first sync queue.
func (r *profileRepository) UpsertProfile(ctx context.Context, p domain.OwnershipProfile) error {
	query := `
		INSERT INTO contact_profiles (id, name, email, document, phone, address, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE
		SET name = $2, email = $3, document = $4, phone = $5, address = $6, user_id = $7, updated_at = $9
	`

	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Email, p.Document, p.Phone, p.Address, p.UserID, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to upsert contact profile", zap.Error(err))
		return err
	}

	return nil
}

func (r *profileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.OwnershipProfile, error) {
	query := `
		SELECT id, name, email, document, phone, address, user_id, created_at, updated_at
		FROM contact_profiles
		WHERE id = $1
	`

	var p domain.OwnershipProfile
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Email, &p.Document, &p.Phone, &p.Address, &p.UserID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &apperrors.ErrNotFound{Resource: "contact profile", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get contact profile", zap.Error(err))
		return nil, err
	}

	return &p, nil
}

func (r *profileRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.OwnershipProfile, error) {
	query := `
		SELECT id, name, email, document, phone, address, user_id, created_at, updated_at
		FROM contact_profiles
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list contact profiles", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var profiles []*domain.OwnershipProfile
	for rows.Next() {
		var p domain.OwnershipProfile
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Document, &p.Phone, &p.Address, &p.UserID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		profiles = append(profiles, &p)
	}
	return profiles, rows.Err()
}

func (r *profileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM contact_profiles WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete contact profile", zap.Error(err))
	}
	return err
}

package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/francisco-dev-ao/angohost-api/internal/domain"
	apperrors "github.com/francisco-dev-ao/angohost-api/pkg/errors"
)

type domainRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDomainRepository creates a new hosted domain repository
func NewDomainRepository(db *sql.DB, logger *zap.Logger) *domainRepository {
	return &domainRepository{db: db, logger: logger}
}

func (r *domainRepository) Create(ctx context.Context, d *domain.HostedDomain) error {
	now := time.Now()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.Name = strings.ToLower(d.Name)
	d.CreatedAt = now
	d.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO domains (id, name, user_id, status, contact_profile_id, expires_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		d.ID, d.Name, d.UserID, d.Status, d.ContactProfileID, d.ExpiresAt, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create domain", zap.Error(err))
	}
	return err
}

func (r *domainRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.HostedDomain, error) {
	query := `
		SELECT id, name, user_id, status, contact_profile_id, expires_at, created_at, updated_at
		FROM domains
		WHERE id = $1
	`

	var d domain.HostedDomain
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.Name, &d.UserID, &d.Status, &d.ContactProfileID, &d.ExpiresAt, &d.CreatedAt, &d.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &apperrors.ErrNotFound{Resource: "domain", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get domain", zap.Error(err))
		return nil, err
	}

	return &d, nil
}

// IsAvailable reports whether a name is free to register.
func (r *domainRepository) IsAvailable(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM domains WHERE name = $1)`,
		strings.ToLower(name),
	).Scan(&exists)
	if err != nil {
		r.logger.Error("Failed to check domain availability", zap.Error(err))
		return false, err
	}
	return !exists, nil
}

func (r *domainRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.HostedDomain, error) {
	query := `
		SELECT id, name, user_id, status, contact_profile_id, expires_at, created_at, updated_at
		FROM domains
		WHERE user_id = $1
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list domains", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return scanDomains(rows)
}

func (r *domainRepository) ListAll(ctx context.Context, limit, offset int) ([]*domain.HostedDomain, error) {
	query := `
		SELECT id, name, user_id, status, contact_profile_id, expires_at, created_at, updated_at
		FROM domains
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list domains", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return scanDomains(rows)
}

func scanDomains(rows *sql.Rows) ([]*domain.HostedDomain, error) {
	var domains []*domain.HostedDomain
	for rows.Next() {
		var d domain.HostedDomain
		if err := rows.Scan(&d.ID, &d.Name, &d.UserID, &d.Status, &d.ContactProfileID,
			&d.ExpiresAt, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		domains = append(domains, &d)
	}
	return domains, rows.Err()
}

func (r *domainRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DomainStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE domains SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now(),
	)
	if err != nil {
		r.logger.Error("Failed to update domain status", zap.Error(err))
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return &apperrors.ErrNotFound{Resource: "domain", ID: id.String()}
	}
	return nil
}

func (r *domainRepository) CountActive(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM domains WHERE status = $1`, domain.DomainStatusActive,
	).Scan(&n)
	return n, err
}

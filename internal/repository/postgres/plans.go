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

type planRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPlanRepository creates a new service plan repository
func NewPlanRepository(db *sql.DB, logger *zap.Logger) *planRepository {
	return &planRepository{db: db, logger: logger}
}

func (r *planRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ServicePlan, error) {
	query := `
		SELECT id, name, description, category, base_price, is_active, created_at, updated_at
		FROM service_plans
		WHERE id = $1
	`

	var p domain.ServicePlan
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Category, &p.BasePrice, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &apperrors.ErrNotFound{Resource: "service plan", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get service plan", zap.Error(err))
		return nil, err
	}

	return &p, nil
}

func (r *planRepository) ListActive(ctx context.Context) ([]*domain.ServicePlan, error) {
	query := `
		SELECT id, name, description, category, base_price, is_active, created_at, updated_at
		FROM service_plans
		WHERE is_active = true
		ORDER BY category, base_price
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list service plans", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return scanPlans(rows)
}

func (r *planRepository) ListAll(ctx context.Context) ([]*domain.ServicePlan, error) {
	query := `
		SELECT id, name, description, category, base_price, is_active, created_at, updated_at
		FROM service_plans
		ORDER BY category, base_price
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list service plans", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return scanPlans(rows)
}

func scanPlans(rows *sql.Rows) ([]*domain.ServicePlan, error) {
	var plans []*domain.ServicePlan
	for rows.Next() {
		var p domain.ServicePlan
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.BasePrice,
			&p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		plans = append(plans, &p)
	}
	return plans, rows.Err()
}

func (r *planRepository) Create(ctx context.Context, p *domain.ServicePlan) error {
	now := time.Now()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO service_plans (id, name, description, category, base_price, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Name, p.Description, p.Category, p.BasePrice, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create service plan", zap.Error(err))
	}
	return err
}

func (r *planRepository) Update(ctx context.Context, p *domain.ServicePlan) error {
	p.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx,
		`UPDATE service_plans
		 SET name = $2, description = $3, category = $4, base_price = $5, is_active = $6, updated_at = $7
		 WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Category, p.BasePrice, p.IsActive, p.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to update service plan", zap.Error(err))
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return &apperrors.ErrNotFound{Resource: "service plan", ID: p.ID.String()}
	}
	return nil
}

func (r *planRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM service_plans WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete service plan", zap.Error(err))
	}
	return err
}

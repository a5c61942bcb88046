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

type settingRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSettingRepository creates a new admin settings repository
func NewSettingRepository(db *sql.DB, logger *zap.Logger) *settingRepository {
	return &settingRepository{db: db, logger: logger}
}

// Get returns a setting value. Missing keys soft-fail to the fallback so a
// half-configured install still renders.
func (r *settingRepository) Get(ctx context.Context, key, fallback string) string {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM admin_settings WHERE key = $1`, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return fallback
	}
	if err != nil {
		r.logger.Warn("Failed to read setting, using fallback", zap.String("key", key), zap.Error(err))
		return fallback
	}
	return value
}

// Set upserts a setting.
func (r *settingRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO admin_settings (key, value, updated_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = $3`,
		key, value, time.Now(),
	)
	if err != nil {
		r.logger.Error("Failed to set setting", zap.Error(err))
	}
	return err
}

// List returns all settings.
func (r *settingRepository) List(ctx context.Context) ([]*domain.Setting, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value, updated_at FROM admin_settings ORDER BY key`)
	if err != nil {
		r.logger.Error("Failed to list settings", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var settings []*domain.Setting
	for rows.Next() {
		var s domain.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, &s)
	}
	return settings, rows.Err()
}

type emailTemplateRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewEmailTemplateRepository creates a new email template repository
func NewEmailTemplateRepository(db *sql.DB, logger *zap.Logger) *emailTemplateRepository {
	return &emailTemplateRepository{db: db, logger: logger}
}

func (r *emailTemplateRepository) GetByCode(ctx context.Context, code string) (*domain.EmailTemplate, error) {
	var t domain.EmailTemplate
	err := r.db.QueryRowContext(ctx,
		`SELECT id, code, subject, body, updated_at FROM email_templates WHERE code = $1`, code,
	).Scan(&t.ID, &t.Code, &t.Subject, &t.Body, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, &apperrors.ErrNotFound{Resource: "email template", ID: code}
	}
	if err != nil {
		r.logger.Error("Failed to get email template", zap.Error(err))
		return nil, err
	}
	return &t, nil
}

func (r *emailTemplateRepository) List(ctx context.Context) ([]*domain.EmailTemplate, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, code, subject, body, updated_at FROM email_templates ORDER BY code`)
	if err != nil {
		r.logger.Error("Failed to list email templates", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var templates []*domain.EmailTemplate
	for rows.Next() {
		var t domain.EmailTemplate
		if err := rows.Scan(&t.ID, &t.Code, &t.Subject, &t.Body, &t.UpdatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, &t)
	}
	return templates, rows.Err()
}

func (r *emailTemplateRepository) Upsert(ctx context.Context, t *domain.EmailTemplate) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO email_templates (id, code, subject, body, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (code) DO UPDATE SET subject = $3, body = $4, updated_at = $5`,
		t.ID, t.Code, t.Subject, t.Body, t.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to upsert email template", zap.Error(err))
	}
	return err
}

type paymentMethodRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPaymentMethodRepository creates a new payment method repository
func NewPaymentMethodRepository(db *sql.DB, logger *zap.Logger) *paymentMethodRepository {
	return &paymentMethodRepository{db: db, logger: logger}
}

func (r *paymentMethodRepository) ListActive(ctx context.Context) ([]*domain.PaymentMethod, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, code, is_active, created_at FROM payment_methods WHERE is_active = true ORDER BY name`)
	if err != nil {
		r.logger.Error("Failed to list payment methods", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var methods []*domain.PaymentMethod
	for rows.Next() {
		var m domain.PaymentMethod
		if err := rows.Scan(&m.ID, &m.Name, &m.Code, &m.IsActive, &m.CreatedAt); err != nil {
			return nil, err
		}
		methods = append(methods, &m)
	}
	return methods, rows.Err()
}

func (r *paymentMethodRepository) GetByCode(ctx context.Context, code string) (*domain.PaymentMethod, error) {
	var m domain.PaymentMethod
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, code, is_active, created_at FROM payment_methods WHERE code = $1`, code,
	).Scan(&m.ID, &m.Name, &m.Code, &m.IsActive, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, &apperrors.ErrNotFound{Resource: "payment method", ID: code}
	}
	if err != nil {
		r.logger.Error("Failed to get payment method", zap.Error(err))
		return nil, err
	}
	return &m, nil
}

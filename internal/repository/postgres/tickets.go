package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/francisco-dev-ao/angohost-api/internal/domain"
	apperrors "github.com/francisco-dev-ao/angohost-api/pkg/errors"
)

type ticketRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *sql.DB, logger *zap.Logger) *ticketRepository {
	return &ticketRepository{db: db, logger: logger}
}

func generateTicketNumber() string {
	return fmt.Sprintf("TKT-%d", time.Now().UnixNano())
}

func (r *ticketRepository) Create(ctx context.Context, t *domain.Ticket) error {
	now := time.Now()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.TicketNumber == "" {
		t.TicketNumber = generateTicketNumber()
	}
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tickets (id, ticket_number, user_id, subject, priority, department, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.TicketNumber, t.UserID, t.Subject, t.Priority, t.Department, t.Status,
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create ticket", zap.Error(err))
	}
	return err
}

func (r *ticketRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	query := `
		SELECT id, ticket_number, user_id, subject, priority, department, status, created_at, updated_at
		FROM tickets
		WHERE id = $1
	`

	var t domain.Ticket
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.TicketNumber, &t.UserID, &t.Subject, &t.Priority, &t.Department, &t.Status,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &apperrors.ErrNotFound{Resource: "ticket", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get ticket", zap.Error(err))
		return nil, err
	}

	return &t, nil
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TicketStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tickets SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now(),
	)
	if err != nil {
		r.logger.Error("Failed to update ticket status", zap.Error(err))
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return &apperrors.ErrNotFound{Resource: "ticket", ID: id.String()}
	}
	return nil
}

func (r *ticketRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Ticket, error) {
	query := `
		SELECT id, ticket_number, user_id, subject, priority, department, status, created_at, updated_at
		FROM tickets
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list tickets", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListAll(ctx context.Context, limit, offset int) ([]*domain.Ticket, error) {
	query := `
		SELECT id, ticket_number, user_id, subject, priority, department, status, created_at, updated_at
		FROM tickets
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list tickets", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func scanTickets(rows *sql.Rows) ([]*domain.Ticket, error) {
	var tickets []*domain.Ticket
	for rows.Next() {
		var t domain.Ticket
		if err := rows.Scan(&t.ID, &t.TicketNumber, &t.UserID, &t.Subject, &t.Priority,
			&t.Department, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tickets = append(tickets, &t)
	}
	return tickets, rows.Err()
}

func (r *ticketRepository) CountOpen(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tickets WHERE status != $1`, domain.TicketStatusClosed,
	).Scan(&n)
	return n, err
}

// CreateMessage appends a conversation entry.
func (r *ticketRepository) CreateMessage(ctx context.Context, m *domain.TicketMessage) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ticket_messages (id, ticket_id, author_id, from_staff, content, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.TicketID, m.AuthorID, m.FromStaff, m.Content, m.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create ticket message", zap.Error(err))
	}
	return err
}

// ListMessages returns the conversation ordered by creation time.
func (r *ticketRepository) ListMessages(ctx context.Context, ticketID uuid.UUID) ([]*domain.TicketMessage, error) {
	query := `
		SELECT id, ticket_id, author_id, from_staff, content, created_at
		FROM ticket_messages
		WHERE ticket_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, ticketID)
	if err != nil {
		r.logger.Error("Failed to list ticket messages", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var msgs []*domain.TicketMessage
	for rows.Next() {
		var m domain.TicketMessage
		if err := rows.Scan(&m.ID, &m.TicketID, &m.AuthorID, &m.FromStaff, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, &m)
	}
	return msgs, rows.Err()
}

package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/francisco-dev-ao/angohost-api/internal/domain"
	apperrors "github.com/francisco-dev-ao/angohost-api/pkg/errors"
)

type TicketService struct {
	tickets TicketRepo
	feed    ChangeFeed
	logger  *zap.Logger
}

// NewTicketService creates a new ticket service
func NewTicketService(tickets TicketRepo, feed ChangeFeed, logger *zap.Logger) *TicketService {
	return &TicketService{tickets: tickets, feed: feed, logger: logger}
}

// OpenInput is a new support request.
type OpenInput struct {
	Subject    string
	Department string
	Priority   domain.TicketPriority
	Content    string
}

// Open creates a ticket with its first message.
func (s *TicketService) Open(ctx context.Context, userID uuid.UUID, in OpenInput) (*domain.Ticket, error) {
	if strings.TrimSpace(in.Subject) == "" {
		return nil, &apperrors.ErrValidation{Field: "subject", Message: "subject is required"}
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, &apperrors.ErrValidation{Field: "content", Message: "message is required"}
	}
	if in.Priority == "" {
		in.Priority = domain.TicketPriorityMedium
	}
	if !in.Priority.IsValid() {
		return nil, &apperrors.ErrValidation{Field: "priority", Message: "invalid priority"}
	}

	ticket := &domain.Ticket{
		UserID:     userID,
		Subject:    strings.TrimSpace(in.Subject),
		Department: in.Department,
		Priority:   in.Priority,
		Status:     domain.TicketStatusOpen,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	msg := &domain.TicketMessage{
		TicketID: ticket.ID,
		AuthorID: userID,
		Content:  strings.TrimSpace(in.Content),
	}
	if err := s.tickets.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	s.feed.Publish(ctx, "tickets", ticket.ID.String(), "insert")
	return ticket, nil
}

// AddMessage appends to a ticket conversation. A customer message on a
// closed ticket reopens it; staff replies never change the status.
func (s *TicketService) AddMessage(ctx context.Context, ticketID, authorID uuid.UUID, content string, fromStaff bool) (*domain.TicketMessage, error) {
	if strings.TrimSpace(content) == "" {
		return nil, &apperrors.ErrValidation{Field: "content", Message: "message is required"}
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !fromStaff && ticket.UserID != authorID {
		return nil, &apperrors.ErrForbidden{Message: "ticket belongs to another account"}
	}

	msg := &domain.TicketMessage{
		TicketID:  ticketID,
		AuthorID:  authorID,
		FromStaff: fromStaff,
		Content:   strings.TrimSpace(content),
	}
	if err := s.tickets.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	if !fromStaff && ticket.Status == domain.TicketStatusClosed {
		if err := s.tickets.UpdateStatus(ctx, ticketID, domain.TicketStatusOpen); err != nil {
			s.logger.Warn("ticket reopen failed",
				zap.String("ticket_id", ticketID.String()), zap.Error(err))
		}
	}

	s.feed.Publish(ctx, "ticket_messages", msg.ID.String(), "insert")
	s.feed.Publish(ctx, "tickets", ticketID.String(), "update")
	return msg, nil
}

// UpdateStatus is the staff-side status control.
func (s *TicketService) UpdateStatus(ctx context.Context, ticketID uuid.UUID, status domain.TicketStatus) error {
	if !status.IsValid() {
		return &apperrors.ErrValidation{Field: "status", Message: "invalid ticket status"}
	}
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return err
	}
	if err := s.tickets.UpdateStatus(ctx, ticketID, status); err != nil {
		return err
	}
	s.feed.Publish(ctx, "tickets", ticketID.String(), "update")
	return nil
}

// Messages returns the conversation for a ticket. Non-staff callers only
// see their own tickets.
func (s *TicketService) Messages(ctx context.Context, ticketID, requesterID uuid.UUID, staff bool) ([]*domain.TicketMessage, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !staff && ticket.UserID != requesterID {
		return nil, &apperrors.ErrForbidden{Message: "ticket belongs to another account"}
	}
	return s.tickets.ListMessages(ctx, ticketID)
}

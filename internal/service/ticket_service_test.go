package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/francisco-dev-ao/angohost-api/internal/domain"
	apperrors "github.com/francisco-dev-ao/angohost-api/pkg/errors"
)

func TestTicketService_OpenCreatesTicketWithFirstMessage(t *testing.T) {
	tickets := newMockTicketRepo()
	svc := NewTicketService(tickets, NopFeed{}, zap.NewNop())
	userID := uuid.New()

	ticket, err := svc.Open(context.Background(), userID, OpenInput{
		Subject: "Email não envia",
		Content: "Desde ontem as mensagens ficam na fila.",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority, "priority defaults to medium")

	msgs, err := svc.Messages(context.Background(), ticket.ID, userID, false)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.False(t, msgs[0].FromStaff)
}

func TestTicketService_OpenValidation(t *testing.T) {
	svc := NewTicketService(newMockTicketRepo(), NopFeed{}, zap.NewNop())

	_, err := svc.Open(context.Background(), uuid.New(), OpenInput{Content: "sem assunto"})
	var validation *apperrors.ErrValidation
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "subject", validation.Field)

	_, err = svc.Open(context.Background(), uuid.New(), OpenInput{Subject: "x", Content: "y", Priority: "extreme"})
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "priority", validation.Field)
}

func TestTicketService_CustomerMessageReopensClosedTicket(t *testing.T) {
	tickets := newMockTicketRepo()
	svc := NewTicketService(tickets, NopFeed{}, zap.NewNop())
	userID := uuid.New()

	ticket, err := svc.Open(context.Background(), userID, OpenInput{Subject: "s", Content: "c"})
	require.NoError(t, err)
	require.NoError(t, svc.UpdateStatus(context.Background(), ticket.ID, domain.TicketStatusClosed))

	_, err = svc.AddMessage(context.Background(), ticket.ID, userID, "ainda não resolvido", false)
	require.NoError(t, err)

	got, err := tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, got.Status)
}

func TestTicketService_StaffReplyDoesNotReopen(t *testing.T) {
	tickets := newMockTicketRepo()
	svc := NewTicketService(tickets, NopFeed{}, zap.NewNop())
	userID := uuid.New()

	ticket, err := svc.Open(context.Background(), userID, OpenInput{Subject: "s", Content: "c"})
	require.NoError(t, err)
	require.NoError(t, svc.UpdateStatus(context.Background(), ticket.ID, domain.TicketStatusClosed))

	_, err = svc.AddMessage(context.Background(), ticket.ID, uuid.New(), "resolvido, a fechar", true)
	require.NoError(t, err)

	got, err := tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, got.Status)
}

func TestTicketService_CustomerCannotTouchForeignTicket(t *testing.T) {
	tickets := newMockTicketRepo()
	svc := NewTicketService(tickets, NopFeed{}, zap.NewNop())

	ticket, err := svc.Open(context.Background(), uuid.New(), OpenInput{Subject: "s", Content: "c"})
	require.NoError(t, err)

	stranger := uuid.New()
	var forbidden *apperrors.ErrForbidden

	_, err = svc.AddMessage(context.Background(), ticket.ID, stranger, "oi", false)
	require.ErrorAs(t, err, &forbidden)

	_, err = svc.Messages(context.Background(), ticket.ID, stranger, false)
	require.ErrorAs(t, err, &forbidden)
}

func TestTicketService_UpdateStatusValidation(t *testing.T) {
	svc := NewTicketService(newMockTicketRepo(), NopFeed{}, zap.NewNop())

	err := svc.UpdateStatus(context.Background(), uuid.New(), "archived")
	var validation *apperrors.ErrValidation
	require.ErrorAs(t, err, &validation)

	err = svc.UpdateStatus(context.Background(), uuid.New(), domain.TicketStatusClosed)
	var notFound *apperrors.ErrNotFound
	require.ErrorAs(t, err, &notFound)
}

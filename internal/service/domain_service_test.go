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

func TestDomainService_CheckAvailability(t *testing.T) {
	domains := newMockDomainRepo()
	svc := NewDomainService(domains, NopFeed{}, zap.NewNop())

	require.NoError(t, domains.Create(context.Background(), &domain.HostedDomain{
		Name: "ocupado.ao", UserID: uuid.New(),
	}))

	free, err := svc.CheckAvailability(context.Background(), "livre.ao")
	require.NoError(t, err)
	assert.True(t, free)

	free, err = svc.CheckAvailability(context.Background(), "  OCUPADO.AO. ")
	require.NoError(t, err)
	assert.False(t, free, "lookup normalizes before matching")
}

func TestDomainService_CheckAvailabilityRejectsBadNames(t *testing.T) {
	svc := NewDomainService(newMockDomainRepo(), NopFeed{}, zap.NewNop())

	bad := []string{"", "semtld", "-inicio.ao", "fim-.ao", "espaço aqui.ao", "a..b.ao"}
	for _, name := range bad {
		_, err := svc.CheckAvailability(context.Background(), name)
		var validation *apperrors.ErrValidation
		require.ErrorAs(t, err, &validation, "name %q", name)
	}
}

func TestDomainService_UpdateStatus(t *testing.T) {
	domains := newMockDomainRepo()
	svc := NewDomainService(domains, NopFeed{}, zap.NewNop())

	d := &domain.HostedDomain{Name: "exemplo.ao", UserID: uuid.New(), Status: domain.DomainStatusPending}
	require.NoError(t, domains.Create(context.Background(), d))

	require.NoError(t, svc.UpdateStatus(context.Background(), d.ID, domain.DomainStatusActive))
	assert.Equal(t, domain.DomainStatusActive, domains.domains[d.ID].Status)

	var validation *apperrors.ErrValidation
	require.ErrorAs(t, svc.UpdateStatus(context.Background(), d.ID, "parked"), &validation)
}

func TestNormalizeDomainName(t *testing.T) {
	assert.Equal(t, "exemplo.ao", NormalizeDomainName("  Exemplo.AO. "))
	assert.Equal(t, "sub.exemplo.co.ao", NormalizeDomainName("SUB.Exemplo.CO.AO"))
}

package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/francisco-dev-ao/angohost-api/internal/domain"
	apperrors "github.com/francisco-dev-ao/angohost-api/pkg/errors"
)

// Labels of letters, digits and inner hyphens, at least two of them.
var domainNamePattern = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]*[a-z0-9])?\.)+[a-z]{2,}$`)

type DomainService struct {
	domains DomainRepo
	feed    ChangeFeed
	logger  *zap.Logger
}

// NewDomainService creates a new domain service
func NewDomainService(domains DomainRepo, feed ChangeFeed, logger *zap.Logger) *DomainService {
	return &DomainService{domains: domains, feed: feed, logger: logger}
}

// CheckAvailability validates the name and asks the registry table whether
// it is taken.
func (s *DomainService) CheckAvailability(ctx context.Context, name string) (bool, error) {
	name = NormalizeDomainName(name)
	if !domainNamePattern.MatchString(name) {
		return false, &apperrors.ErrValidation{Field: "domain", Message: "invalid domain name"}
	}
	return s.domains.IsAvailable(ctx, name)
}

// ListByUser returns the caller's hosted domains.
func (s *DomainService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.HostedDomain, error) {
	return s.domains.ListByUser(ctx, userID)
}

// UpdateStatus is the staff-side lifecycle control (manual activation,
// expiry marking).
func (s *DomainService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DomainStatus) error {
	if !status.IsValid() {
		return &apperrors.ErrValidation{Field: "status", Message: "invalid domain status"}
	}
	if err := s.domains.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.feed.Publish(ctx, "domains", id.String(), "update")
	return nil
}

// NormalizeDomainName lowercases and strips surrounding whitespace and a
// trailing dot.
func NormalizeDomainName(name string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), ".")
}

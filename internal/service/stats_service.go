package service

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/francisco-dev-ao/angohost-api/internal/domain"
)

// DashboardStats is the admin dashboard aggregate.
type DashboardStats struct {
	OrdersByStatus map[domain.OrderStatus]int `json:"orders_by_status"`
	PaidRevenue    decimal.Decimal            `json:"paid_revenue"`
	OpenTickets    int                        `json:"open_tickets"`
	ActiveDomains  int                        `json:"active_domains"`
}

type StatsService struct {
	orders  StatsSource
	revenue RevenueSource
	tickets TicketCounter
	domains DomainCounter
	group   singleflight.Group
	logger  *zap.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(orders StatsSource, revenue RevenueSource, tickets TicketCounter, domains DomainCounter, logger *zap.Logger) *StatsService {
	return &StatsService{
		orders:  orders,
		revenue: revenue,
		tickets: tickets,
		domains: domains,
		logger:  logger,
	}
}

// Dashboard computes the admin aggregate. Concurrent callers share one
// computation via singleflight; the queries run in sequence off four
// tables.
func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	v, err, _ := s.group.Do("dashboard", func() (interface{}, error) {
		byStatus, err := s.orders.CountByStatus(ctx)
		if err != nil {
			return nil, err
		}
		revenue, err := s.revenue.PaidRevenue(ctx)
		if err != nil {
			return nil, err
		}
		open, err := s.tickets.CountOpen(ctx)
		if err != nil {
			return nil, err
		}
		active, err := s.domains.CountActive(ctx)
		if err != nil {
			return nil, err
		}
		return &DashboardStats{
			OrdersByStatus: byStatus,
			PaidRevenue:    revenue,
			OpenTickets:    open,
			ActiveDomains:  active,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*DashboardStats), nil
}

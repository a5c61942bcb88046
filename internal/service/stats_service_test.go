package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/francisco-dev-ao/angohost-api/internal/domain"
)

type fakeStatsSource struct {
	calls   int32
	release chan struct{}
	err     error
}

func (f *fakeStatsSource) CountByStatus(context.Context) (map[domain.OrderStatus]int, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return map[domain.OrderStatus]int{
		domain.OrderStatusPending:   3,
		domain.OrderStatusCompleted: 7,
	}, nil
}

type fakeRevenue struct{}

func (fakeRevenue) PaidRevenue(context.Context) (decimal.Decimal, error) {
	return decimal.NewFromInt(150000), nil
}

type fakeTicketCounter struct{}

func (fakeTicketCounter) CountOpen(context.Context) (int, error) { return 4, nil }

type fakeDomainCounter struct{}

func (fakeDomainCounter) CountActive(context.Context) (int, error) { return 12, nil }

func TestStatsService_Dashboard(t *testing.T) {
	orders := &fakeStatsSource{}
	svc := NewStatsService(orders, fakeRevenue{}, fakeTicketCounter{}, fakeDomainCounter{}, zap.NewNop())

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.OrdersByStatus[domain.OrderStatusPending])
	assert.Equal(t, 7, stats.OrdersByStatus[domain.OrderStatusCompleted])
	assert.True(t, stats.PaidRevenue.Equal(decimal.NewFromInt(150000)))
	assert.Equal(t, 4, stats.OpenTickets)
	assert.Equal(t, 12, stats.ActiveDomains)
}

func TestStatsService_DashboardSharesInflightComputation(t *testing.T) {
	orders := &fakeStatsSource{release: make(chan struct{})}
	svc := NewStatsService(orders, fakeRevenue{}, fakeTicketCounter{}, fakeDomainCounter{}, zap.NewNop())

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*DashboardStats, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stats, err := svc.Dashboard(context.Background())
			require.NoError(t, err)
			results[i] = stats
		}(i)
	}

	close(orders.release)
	wg.Wait()

	// Everyone got an answer but the queries ran at most twice (one
	// flight may complete before the last goroutine joins it).
	assert.LessOrEqual(t, atomic.LoadInt32(&orders.calls), int32(2))
	for _, stats := range results {
		require.NotNil(t, stats)
	}
}

func TestStatsService_DashboardPropagatesErrors(t *testing.T) {
	orders := &fakeStatsSource{err: errors.New("db down")}
	svc := NewStatsService(orders, fakeRevenue{}, fakeTicketCounter{}, fakeDomainCounter{}, zap.NewNop())

	_, err := svc.Dashboard(context.Background())
	require.Error(t, err)
}

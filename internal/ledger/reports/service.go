package reports

import (
	"context"
	"time"

	"github.com/folio-erp/folio-erp/internal/shared"
)

type Service struct {
	repo  Repository
	cache *Cache
}

func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Balances aggregates posted lines into period balances per account. Pure
// read, safe to retry; a period with no activity yields an empty list.
func (s *Service) Balances(ctx context.Context, companyID int64, start, end time.Time) ([]AccountBalance, error) {
	if end.Before(start) {
		return nil, shared.Validation("reports: period end precedes start")
	}
	if cached, ok := s.cache.Get(ctx, companyID, start, end); ok {
		return cached, nil
	}
	rows, err := s.repo.BalancesRange(ctx, companyID, start, end)
	if err != nil {
		return nil, err
	}
	balances := BuildBalances(rows)
	s.cache.Set(ctx, companyID, start, end, balances)
	return balances, nil
}

// GroupedLedger returns the grouped general-ledger view for the period.
func (s *Service) GroupedLedger(ctx context.Context, companyID int64, start, end time.Time) (GroupedLedger, error) {
	balances, err := s.Balances(ctx, companyID, start, end)
	if err != nil {
		return GroupedLedger{}, err
	}
	return BuildGroupedLedger(balances), nil
}

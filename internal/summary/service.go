package summary

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/kisanlog/kisanlog/internal/shared"
)

// Service builds dashboard summaries.
type Service struct {
	repo      Repository
	cache     *Cache
	formatter *Formatter
}

// NewService wires the summary dependencies. cache may be nil; a nil
// formatter uses DefaultCurrency.
func NewService(repo Repository, cache *Cache, formatter *Formatter) *Service {
	if formatter == nil {
		formatter, _ = NewFormatter(DefaultCurrency)
	}
	return &Service{repo: repo, cache: cache, formatter: formatter}
}

// Invalidate drops cached summaries of the user. It satisfies the
// invalidator contract of the expense and yield services.
func (s *Service) Invalidate(ctx context.Context, userID string) {
	s.cache.Invalidate(ctx, userID)
}

// Summary returns the totals for the user over the date range.
func (s *Service) Summary(ctx context.Context, userID string, dates shared.DateRange) (Summary, error) {
	var out Summary
	parts := []string{dates.Key(), s.formatter.Code()}
	err := s.cache.FetchJSON(ctx, userID, parts, &out, func(ctx context.Context) (any, error) {
		return s.compute(ctx, userID, dates)
	})
	return out, err
}

func (s *Service) compute(ctx context.Context, userID string, dates shared.DateRange) (Summary, error) {
	var expenses []CategoryTotal
	var crops []CropTotal

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.repo.ExpenseTotals(gctx, userID, dates)
		expenses = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.repo.YieldTotals(gctx, userID, dates)
		crops = rows
		return err
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	if expenses == nil {
		expenses = []CategoryTotal{}
	}
	if crops == nil {
		crops = []CropTotal{}
	}

	var spent, earned float64
	for _, e := range expenses {
		spent += e.Total
	}
	for _, c := range crops {
		earned += c.Revenue
	}
	spent, earned = round2(spent), round2(earned)
	net := round2(earned - spent)

	return Summary{
		From:               dates.From,
		To:                 dates.To,
		Currency:           s.formatter.Code(),
		TotalExpenses:      spent,
		TotalRevenue:       earned,
		Net:                net,
		ExpensesByCategory: expenses,
		RevenueByCrop:      crops,
		Display: Display{
			TotalExpenses: s.formatter.Format(spent),
			TotalRevenue:  s.formatter.Format(earned),
			Net:           s.formatter.Format(net),
		},
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package yields

import (
	"context"
	"fmt"

	"github.com/kisanlog/kisanlog/internal/shared"
)

// Invalidator is notified after a user's yields change.
type Invalidator interface {
	Invalidate(ctx context.Context, userID string)
}

// Service wraps yield business rules. Revenue is always derived here and
// never read from storage.
type Service struct {
	repo        Repository
	invalidator Invalidator
}

// NewService constructs a Service. invalidator may be nil.
func NewService(repo Repository, invalidator Invalidator) *Service {
	return &Service{repo: repo, invalidator: invalidator}
}

func (s *Service) List(ctx context.Context, userID string, filter ListFilter) ([]Yield, int, error) {
	items, total, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, 0, err
	}
	for i := range items {
		items[i] = items[i].withRevenue()
	}
	return items, total, nil
}

func (s *Service) Get(ctx context.Context, userID string, id int64) (Yield, error) {
	if err := validateID(id); err != nil {
		return Yield{}, err
	}
	y, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return Yield{}, err
	}
	return y.withRevenue(), nil
}

func (s *Service) Create(ctx context.Context, userID string, in Input) (Yield, error) {
	y, err := s.repo.Create(ctx, userID, in)
	if err != nil {
		return Yield{}, err
	}
	s.changed(ctx, userID)
	return y.withRevenue(), nil
}

func (s *Service) Update(ctx context.Context, userID string, id int64, in Input) (Yield, error) {
	if err := validateID(id); err != nil {
		return Yield{}, err
	}
	y, err := s.repo.Update(ctx, userID, id, in)
	if err != nil {
		return Yield{}, err
	}
	s.changed(ctx, userID)
	return y.withRevenue(), nil
}

func (s *Service) Delete(ctx context.Context, userID string, id int64) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.changed(ctx, userID)
	return nil
}

func (s *Service) changed(ctx context.Context, userID string) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, userID)
	}
}

func validateID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid yield id", shared.ErrValidation)
	}
	return nil
}

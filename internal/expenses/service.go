package expenses

import (
	"context"
	"fmt"

	"github.com/kisanlog/kisanlog/internal/shared"
)

// Invalidator is notified after a user's expenses change.
type Invalidator interface {
	Invalidate(ctx context.Context, userID string)
}

// Service wraps expense business rules.
type Service struct {
	repo        Repository
	invalidator Invalidator
}

// NewService constructs a Service. invalidator may be nil.
func NewService(repo Repository, invalidator Invalidator) *Service {
	return &Service{repo: repo, invalidator: invalidator}
}

func (s *Service) List(ctx context.Context, userID string, filter ListFilter) ([]Expense, int, error) {
	return s.repo.List(ctx, userID, filter)
}

func (s *Service) Get(ctx context.Context, userID string, id int64) (Expense, error) {
	if err := validateID(id); err != nil {
		return Expense{}, err
	}
	return s.repo.Get(ctx, userID, id)
}

// Create validates and stores a new expense for the user.
func (s *Service) Create(ctx context.Context, userID string, in Input) (Expense, error) {
	expense, err := s.repo.Create(ctx, userID, in)
	if err != nil {
		return Expense{}, err
	}
	s.changed(ctx, userID)
	return expense, nil
}

// Update replaces an owned expense.
func (s *Service) Update(ctx context.Context, userID string, id int64, in Input) (Expense, error) {
	if err := validateID(id); err != nil {
		return Expense{}, err
	}
	expense, err := s.repo.Update(ctx, userID, id, in)
	if err != nil {
		return Expense{}, err
	}
	s.changed(ctx, userID)
	return expense, nil
}

// Delete removes an owned expense.
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
		return fmt.Errorf("%w: invalid expense id", shared.ErrValidation)
	}
	return nil
}

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kisanlog/kisanlog/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo      Repository
	cost      int
	dummyHash []byte
}

// NewService constructs a new Service hashing passwords with bcrypt.DefaultCost.
func NewService(repo Repository) *Service {
	return NewServiceWithCost(repo, bcrypt.DefaultCost)
}

// NewServiceWithCost constructs a Service with an explicit bcrypt cost.
func NewServiceWithCost(repo Repository, cost int) *Service {
	// Compared against when the email is unknown so both login failures cost the same.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("kisanlog-unknown-account"), cost)
	return &Service{repo: repo, cost: cost, dummyHash: dummy}
}

// Register creates a new account. The request must already be normalized.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	_, err := s.repo.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, shared.ErrDuplicate
	case !errors.Is(err, shared.ErrNotFound):
		return nil, fmt.Errorf("auth: lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	user := &User{
		ID:           uuid.NewString(),
		FullName:     req.FullName,
		Email:        req.Email,
		Mobile:       req.Mobile,
		Location:     req.Location,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrDuplicate) {
			return nil, err
		}
		return nil, fmt.Errorf("auth: create user: %w", err)
	}
	return user, nil
}

// Authenticate validates email/password credentials. Unknown accounts and
// wrong passwords both yield shared.ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, shared.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth: lookup email: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// UserByID resolves the account behind a verified session token.
func (s *Service) UserByID(ctx context.Context, id string) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

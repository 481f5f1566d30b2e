package auth_test

import (
	"context"
	"errors"
	"sync"

	"github.com/kisanlog/kisanlog/internal/auth"
	"github.com/kisanlog/kisanlog/internal/shared"
)

type memoryRepo struct {
	mu        sync.Mutex
	byID      map[string]*auth.User
	findErr   error
	createErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byID: make(map[string]*auth.User)}
}

func (m *memoryRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, u := range m.byID {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memoryRepo) FindByID(ctx context.Context, id string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *memoryRepo) Create(ctx context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.byID {
		if u.Email == user.Email {
			return shared.ErrDuplicate
		}
	}
	copied := *user
	m.byID[user.ID] = &copied
	return nil
}

func (m *memoryRepo) delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
}

var errDatabaseDown = errors.New("dial tcp 127.0.0.1:5432: connection refused")

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (c *countingRecorder) ObserveAuth(action, outcome string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	c.counts[action+"/"+outcome]++
}

func (c *countingRecorder) count(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[key]
}

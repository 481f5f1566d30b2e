package expenses_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kisanlog/kisanlog/internal/expenses"
	"github.com/kisanlog/kisanlog/internal/shared"
)

type memoryRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]expenses.Expense
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: map[int64]expenses.Expense{}}
}

func (m *memoryRepo) List(_ context.Context, userID string, filter expenses.ListFilter) ([]expenses.Expense, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []expenses.Expense
	for _, e := range m.items {
		if e.UserID != userID {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if filter.Crop != "" && !strings.EqualFold(e.Crop, filter.Crop) {
			continue
		}
		if filter.Range.From != "" && e.Date < filter.Range.From {
			continue
		}
		if filter.Range.To != "" && e.Date > filter.Range.To {
			continue
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Date == matched[j].Date {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].Date > matched[j].Date
	})
	total := len(matched)
	page, perPage := shared.NormalizePage(filter.Page, filter.PerPage)
	start := shared.Offset(page, perPage)
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (m *memoryRepo) Get(_ context.Context, userID string, id int64) (expenses.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[id]
	if !ok || e.UserID != userID {
		return expenses.Expense{}, shared.ErrNotFound
	}
	return e, nil
}

func (m *memoryRepo) Create(_ context.Context, userID string, in expenses.Input) (expenses.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	now := time.Now().UTC()
	e := expenses.Expense{
		ID:          m.nextID,
		UserID:      userID,
		Category:    in.Category,
		Amount:      in.Amount,
		Date:        in.Date,
		Crop:        in.Crop,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.items[e.ID] = e
	return e, nil
}

func (m *memoryRepo) Update(_ context.Context, userID string, id int64, in expenses.Input) (expenses.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[id]
	if !ok || e.UserID != userID {
		return expenses.Expense{}, shared.ErrNotFound
	}
	e.Category, e.Amount, e.Date, e.Crop, e.Description = in.Category, in.Amount, in.Date, in.Crop, in.Description
	e.UpdatedAt = time.Now().UTC()
	m.items[id] = e
	return e, nil
}

func (m *memoryRepo) Delete(_ context.Context, userID string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[id]
	if !ok || e.UserID != userID {
		return shared.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type invalidations struct {
	mu    sync.Mutex
	users []string
}

func (i *invalidations) Invalidate(_ context.Context, userID string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.users = append(i.users, userID)
}

func (i *invalidations) count() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.users)
}

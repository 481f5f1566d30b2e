package yields

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kisanlog/kisanlog/internal/shared"
)

type stubRepo struct {
	items    map[int64]Yield
	nextID   int64
	err      error
	lastList ListFilter
}

func newStubRepo() *stubRepo {
	return &stubRepo{items: map[int64]Yield{}}
}

func (s *stubRepo) List(_ context.Context, userID string, filter ListFilter) ([]Yield, int, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	s.lastList = filter
	var out []Yield
	for _, y := range s.items {
		if y.UserID == userID {
			out = append(out, y)
		}
	}
	return out, len(out), nil
}

func (s *stubRepo) Get(_ context.Context, userID string, id int64) (Yield, error) {
	y, ok := s.items[id]
	if !ok || y.UserID != userID {
		return Yield{}, shared.ErrNotFound
	}
	return y, nil
}

func (s *stubRepo) Create(_ context.Context, userID string, in Input) (Yield, error) {
	if s.err != nil {
		return Yield{}, s.err
	}
	s.nextID++
	y := Yield{ID: s.nextID, UserID: userID, Crop: in.Crop, Quantity: in.Quantity, Unit: in.Unit,
		HarvestDate: in.HarvestDate, PricePerUnit: in.PricePerUnit, Notes: in.Notes}
	s.items[y.ID] = y
	return y, nil
}

func (s *stubRepo) Update(ctx context.Context, userID string, id int64, in Input) (Yield, error) {
	existing, err := s.Get(ctx, userID, id)
	if err != nil {
		return Yield{}, err
	}
	existing.Crop, existing.Quantity, existing.Unit = in.Crop, in.Quantity, in.Unit
	existing.HarvestDate, existing.PricePerUnit, existing.Notes = in.HarvestDate, in.PricePerUnit, in.Notes
	s.items[id] = existing
	return existing, nil
}

func (s *stubRepo) Delete(ctx context.Context, userID string, id int64) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	delete(s.items, id)
	return nil
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(context.Context, string) { c.calls++ }

func serve(t *testing.T, h *Handler, user, method, path, body string) (int, map[string]json.RawMessage) {
	t.Helper()
	r := chi.NewRouter()
	r.Route("/api/yields", h.MountRoutes)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if user != "" {
		req = req.WithContext(shared.ContextWithUserID(req.Context(), user))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestRevenueRoundsToCents(t *testing.T) {
	assert.Equal(t, 0.0, Revenue(12, 0))
	assert.Equal(t, 5250.0, Revenue(25, 210))
	assert.Equal(t, 3.33, Revenue(3.333, 1))
}

func TestCreateYieldDerivesRevenue(t *testing.T) {
	repo := newStubRepo()
	inv := &countingInvalidator{}
	h := NewHandler(nil, NewService(repo, inv))

	status, env := serve(t, h, "u1", http.MethodPost, "/api/yields",
		`{"crop":" Wheat ","quantity":12.5,"unit":"Quintal","harvestDate":"2024-04-15","pricePerUnit":2275}`)
	require.Equal(t, http.StatusCreated, status)

	var y Yield
	require.NoError(t, json.Unmarshal(env["yield"], &y))
	assert.Equal(t, "Wheat", y.Crop)
	assert.Equal(t, "quintal", y.Unit)
	assert.Equal(t, 28437.5, y.Revenue)
	assert.Equal(t, 1, inv.calls)
}

func TestCreateYieldValidation(t *testing.T) {
	h := NewHandler(nil, NewService(newStubRepo(), nil))
	cases := []struct {
		body    string
		message string
	}{
		{`{"quantity":1,"unit":"kg","harvestDate":"2024-04-15"}`, "crop is required"},
		{`{"crop":"rice","quantity":-1,"unit":"kg","harvestDate":"2024-04-15"}`, "quantity must be greater than 0"},
		{`{"crop":"rice","quantity":1,"unit":"bushel","harvestDate":"2024-04-15"}`, "unit must be one of: kg quintal tonne"},
		{`{"crop":"rice","quantity":1,"unit":"kg","harvestDate":"2024-04-15","pricePerUnit":-2}`, "pricePerUnit must be at least 0"},
		{`{"crop":"rice","quantity":1e12,"unit":"kg","harvestDate":"2024-04-15"}`, "quantity must be at most 99999999999.999"},
		{`{"crop":"rice","quantity":1,"unit":"kg","harvestDate":"2024-04-15","pricePerUnit":1e15}`, "pricePerUnit must be at most 999999999999.99"},
	}
	for _, tc := range cases {
		status, env := serve(t, h, "u1", http.MethodPost, "/api/yields", tc.body)
		assert.Equal(t, http.StatusBadRequest, status)
		var message string
		require.NoError(t, json.Unmarshal(env["message"], &message))
		assert.Contains(t, message, tc.message)
	}
}

func TestListYieldsPassesFilters(t *testing.T) {
	repo := newStubRepo()
	repo.items[1] = Yield{ID: 1, UserID: "u1", Crop: "maize", Quantity: 10, PricePerUnit: 20}
	repo.items[2] = Yield{ID: 2, UserID: "u2", Crop: "maize", Quantity: 5, PricePerUnit: 20}
	h := NewHandler(nil, NewService(repo, nil))

	status, env := serve(t, h, "u1", http.MethodGet, "/api/yields?crop=maize&from=2024-01-01&limit=500", "")
	require.Equal(t, http.StatusOK, status)

	var items []Yield
	require.NoError(t, json.Unmarshal(env["yields"], &items))
	require.Len(t, items, 1)
	assert.Equal(t, 200.0, items[0].Revenue)
	assert.Equal(t, "maize", repo.lastList.Crop)
	assert.Equal(t, "2024-01-01", repo.lastList.Range.From)
	assert.Equal(t, shared.MaxPerPage, repo.lastList.PerPage)

	var page shared.Pagination
	require.NoError(t, json.Unmarshal(env["pagination"], &page))
	assert.Equal(t, 1, page.Total)
}

func TestYieldOwnershipAndDelete(t *testing.T) {
	repo := newStubRepo()
	repo.items[7] = Yield{ID: 7, UserID: "owner", Crop: "cotton", Quantity: 2, Unit: "tonne"}
	inv := &countingInvalidator{}
	h := NewHandler(nil, NewService(repo, inv))

	status, _ := serve(t, h, "intruder", http.MethodDelete, "/api/yields/7", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, repo.items, int64(7))

	status, env := serve(t, h, "owner", http.MethodDelete, "/api/yields/7", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `"Yield deleted"`, string(env["message"]))
	assert.Equal(t, 1, inv.calls)

	status, _ = serve(t, h, "owner", http.MethodGet, "/api/yields/zero", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRepositoryFailureIsGeneric(t *testing.T) {
	repo := newStubRepo()
	repo.err = errors.New("dial tcp 10.0.0.5:5432: connection refused")
	h := NewHandler(nil, NewService(repo, nil))

	status, env := serve(t, h, "u1", http.MethodGet, "/api/yields", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `"Internal server error"`, string(env["message"]))
}

func TestListClauseMatchesCropLiterally(t *testing.T) {
	where, args := listClause("u1", ListFilter{Crop: "wh_at", Range: shared.DateRange{To: "2024-12-31"}})
	assert.Equal(t, ` WHERE user_id = $1::uuid AND lower(crop) = lower($2) AND harvested_on <= $3::date`, where)
	assert.Equal(t, []any{"u1", "wh_at", "2024-12-31"}, args)
}

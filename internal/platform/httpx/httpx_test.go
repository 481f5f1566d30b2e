package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kisanlog/kisanlog/internal/shared"
)

type samplePayload struct {
	Name   string  `json:"name" validate:"required"`
	Amount float64 `json:"amount" validate:"gt=0"`
	Kind   string  `json:"kind" validate:"omitempty,oneof=a b"`
}

func (p *samplePayload) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
}

func decodeBody(t *testing.T, body string) (samplePayload, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	var p samplePayload
	err := DecodeJSON(httptest.NewRecorder(), req, &p)
	return p, err
}

func TestDecodeJSONValid(t *testing.T) {
	p, err := decodeBody(t, `{"name":"  wheat ","amount":12.5,"kind":"a"}`)
	require.NoError(t, err)
	assert.Equal(t, "wheat", p.Name)
}

func TestDecodeJSONReportsFirstFieldByJSONName(t *testing.T) {
	_, err := decodeBody(t, `{"name":"   ","amount":1}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrValidation)
	assert.Contains(t, err.Error(), "name is required")

	_, err = decodeBody(t, `{"name":"x","amount":0}`)
	assert.Contains(t, err.Error(), "amount must be greater than 0")

	_, err = decodeBody(t, `{"name":"x","amount":1,"kind":"z"}`)
	assert.Contains(t, err.Error(), "kind must be one of: a b")
}

func TestDecodeJSONMalformed(t *testing.T) {
	_, err := decodeBody(t, `{"name":`)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{fmt.Errorf("%w: amount is required", shared.ErrValidation), http.StatusBadRequest, "validation failed: amount is required"},
		{shared.ErrDuplicate, http.StatusBadRequest, "already exists"},
		{shared.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{shared.ErrNotFound, http.StatusNotFound, "not found"},
		{errors.New("pq: connection reset"), http.StatusInternalServerError, InternalErrorMessage},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		RespondError(rec, tc.err)
		assert.Equal(t, tc.status, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
		assert.Equal(t, tc.message, body["message"])
	}
}

func TestOKMergesFields(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, http.StatusCreated, Envelope{"id": 7})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"id":7}`, rec.Body.String())
}

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"parking-backend/internal/repositories"
	"parking-backend/internal/services"
	"parking-backend/internal/validation"
)

func TestWriteErrorStatus(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{validation.New("vehicle_number", "bad"), http.StatusBadRequest},
		{fmt.Errorf("lookup: %w", repositories.ErrNotFound), http.StatusNotFound},
		{repositories.ErrSlotOccupied, http.StatusConflict},
		{fmt.Errorf("MarkPaid: %w", repositories.ErrAlreadyPaid), http.StatusConflict},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeError(rec, httptest.NewRequest(http.MethodGet, "/x", nil), tc.err)
		assert.Equal(t, tc.code, rec.Code, tc.err.Error())
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	}
}

func TestWriteErrorValidationBody(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, httptest.NewRequest(http.MethodPost, "/x", nil), validation.New("contact_number", "Contact number must be exactly 10 digits"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "contact_number", body["field"])
	assert.Equal(t, "Contact number must be exactly 10 digits", body["error"])
}

func TestDecodeJSON(t *testing.T) {
	var dst struct{ Confirm bool }

	rec := httptest.NewRecorder()
	ok := decodeJSON(rec, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("")), &dst, true)
	assert.True(t, ok)

	rec = httptest.NewRecorder()
	ok = decodeJSON(rec, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("")), &dst, false)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	ok = decodeJSON(rec, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("{")), &dst, true)
	assert.False(t, ok)
}

func TestPathID(t *testing.T) {
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/x", nil), map[string]string{"id": "12"})
	id, ok := pathID(httptest.NewRecorder(), req, "id")
	assert.True(t, ok)
	assert.Equal(t, 12, id)

	rec := httptest.NewRecorder()
	req = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/x", nil), map[string]string{"id": "-3"})
	_, ok = pathID(rec, req, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

package pos

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/printa-pos/internal/modules/storage"
)

func newTestRouter(t *testing.T, guard func(http.Handler) http.Handler) *chi.Mux {
	t.Helper()
	r := chi.NewRouter()
	NewHandler(newTestService(t, storage.NewMemoryRepository()), guard).RegisterRoutes(r)
	return r
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Catalog(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := do(r, http.MethodGet, "/api/v1/catalog/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var products []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 3)
	assert.Equal(t, "Widget", products[0]["itemName"])
	assert.EqualValues(t, 5, products[0]["currentInventory"])

	rec = do(r, http.MethodGet, "/api/v1/catalog/products?q=nothing-matches", "")
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(r, http.MethodGet, "/api/v1/catalog/products/Gadget", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"itemName":"Gadget"`)

	rec = do(r, http.MethodGet, "/api/v1/catalog/products/Sprocket", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(r, http.MethodGet, "/api/v1/catalog/categories", "")
	assert.JSONEq(t, `["C","D"]`, rec.Body.String())
}

func TestHandler_Availability(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := do(r, http.MethodGet, "/api/v1/pos/availability?product=Widget&quantity=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"product":"Widget","quantity":5,"available":true}`, rec.Body.String())

	rec = do(r, http.MethodGet, "/api/v1/pos/availability?product=Widget&quantity=x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(r, http.MethodGet, "/api/v1/pos/availability", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Checkout(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := do(r, http.MethodPost, "/api/v1/pos/checkout/validate",
		`{"lines":[{"productName":"Widget","quantity":3,"unitPrice":"10"}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"remaining":{"Widget":2}`)

	rec = do(r, http.MethodPost, "/api/v1/pos/checkout",
		`{"lines":[{"productName":"Widget","category":"C","quantity":3,"unitPrice":"10"}],"date":"2024-03-14T09:30:00Z"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var txs []Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &txs))
	require.Len(t, txs, 1)
	assert.Equal(t, "30", txs[0].TotalPrice.String())
	assert.True(t, txs[0].Date.Equal(saleDate))

	rec = do(r, http.MethodGet, "/api/v1/pos/transactions?limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), txs[0].ID)

	rec = do(r, http.MethodGet, "/api/v1/pos/transactions?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_CheckoutErrors(t *testing.T) {
	r := newTestRouter(t, nil)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"malformed", `{"lines":`, http.StatusBadRequest},
		{"empty cart", `{"lines":[]}`, http.StatusBadRequest},
		{"bad quantity", `{"lines":[{"productName":"Widget","quantity":0,"unitPrice":"10"}]}`, http.StatusBadRequest},
		{"insufficient", `{"lines":[{"productName":"Widget","quantity":10,"unitPrice":"10"}]}`, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(r, http.MethodPost, "/api/v1/pos/checkout", tt.body)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}

	rec := do(r, http.MethodPost, "/api/v1/pos/checkout",
		`{"lines":[{"productName":"Widget","quantity":10,"unitPrice":"10"}]}`)
	assert.JSONEq(t, `{
		"error": "insufficient inventory for Widget: requested 10, available 5",
		"product": "Widget", "requested": 10, "available": 5
	}`, rec.Body.String())
}

func TestHandler_CheckoutGuard(t *testing.T) {
	deny := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		})
	}
	r := newTestRouter(t, deny)

	rec := do(r, http.MethodPost, "/api/v1/pos/checkout",
		`{"lines":[{"productName":"Widget","quantity":1,"unitPrice":"10"}]}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(r, http.MethodPost, "/api/v1/pos/checkout/validate",
		`{"lines":[{"productName":"Widget","quantity":1,"unitPrice":"10"}]}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_CheckoutStateUnreadable(t *testing.T) {
	state := &flakyLoads{Repository: storage.NewMemoryRepository()}
	r := chi.NewRouter()
	NewHandler(newTestService(t, state), nil).RegisterRoutes(r)

	state.failNext(LedgerKey)
	rec := do(r, http.MethodPost, "/api/v1/pos/checkout",
		`{"lines":[{"productName":"Widget","quantity":1}]}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"storage: read pos_transactions: database is locked"}`, rec.Body.String())

	rec = do(r, http.MethodGet, "/api/v1/pos/transactions", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/printa-pos/internal/modules/catalog"
	"github.com/georgemunganga/printa-pos/internal/modules/pos"
)

// Ledger is the read side of the register the reports are built from.
type Ledger interface {
	GetLedger(ctx context.Context) []pos.Transaction
}

// Handler exposes sales reports over HTTP.
type Handler struct {
	engine   *Engine
	ledger   Ledger
	products catalog.Repository
}

func NewHandler(engine *Engine, ledger Ledger, products catalog.Repository) *Handler {
	return &Handler{engine: engine, ledger: ledger, products: products}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/analytics", func(r chi.Router) {
		r.Get("/dashboard", h.dashboard)         // GET    /api/v1/analytics/dashboard?period=
		r.Get("/sales/total", h.total)           // GET    /api/v1/analytics/sales/total?period=
		r.Get("/sales/products", h.byProduct)    // GET    /api/v1/analytics/sales/products?period=
		r.Get("/sales/categories", h.byCategory) // GET    /api/v1/analytics/sales/categories?period=&mode=
		r.Get("/sales/top", h.top)               // GET    /api/v1/analytics/sales/top?limit=
		r.Get("/sales/trend", h.trend)           // GET    /api/v1/analytics/sales/trend?period=
	})
}

// periodTransactions returns the ledger narrowed to ?period=. Without the
// parameter the whole ledger is returned.
func (h *Handler) periodTransactions(w http.ResponseWriter, r *http.Request) ([]pos.Transaction, bool) {
	txs := h.ledger.GetLedger(r.Context())
	raw := r.URL.Query().Get("period")
	if raw == "" {
		return txs, true
	}
	period, err := ParsePeriod(raw)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return nil, false
	}
	return h.engine.FilterByPeriod(txs, period), true
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	period, err := ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, h.engine.Dashboard(h.ledger.GetLedger(r.Context()), h.products, period))
}

func (h *Handler) total(w http.ResponseWriter, r *http.Request) {
	txs, ok := h.periodTransactions(w, r)
	if !ok {
		return
	}
	total := TotalSales(txs)
	respond(w, http.StatusOK, map[string]any{
		"total":        total,
		"formatted":    FormatCurrency(total),
		"transactions": len(txs),
	})
}

func (h *Handler) byProduct(w http.ResponseWriter, r *http.Request) {
	txs, ok := h.periodTransactions(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusOK, SalesByProduct(txs))
}

func (h *Handler) byCategory(w http.ResponseWriter, r *http.Request) {
	mode, err := ParseCategoryMode(r.URL.Query().Get("mode"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	txs, ok := h.periodTransactions(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusOK, SalesByCategory(txs, h.products, mode))
}

func (h *Handler) top(w http.ResponseWriter, r *http.Request) {
	limit := DefaultTopItems
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respond(w, http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	respond(w, http.StatusOK, TopSellingItems(h.ledger.GetLedger(r.Context()), limit))
}

func (h *Handler) trend(w http.ResponseWriter, r *http.Request) {
	period, err := ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	txs := h.engine.FilterByPeriod(h.ledger.GetLedger(r.Context()), period)
	respond(w, http.StatusOK, h.engine.PrepareTrendData(txs, period))
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

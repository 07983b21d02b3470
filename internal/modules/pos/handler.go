package pos

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the catalog and register over HTTP.
type Handler struct {
	service Service
	guard   func(http.Handler) http.Handler
}

// NewHandler builds a Handler. guard wraps the routes that write to the
// ledger; nil leaves them open.
func NewHandler(service Service, guard func(http.Handler) http.Handler) *Handler {
	if guard == nil {
		guard = func(next http.Handler) http.Handler { return next }
	}
	return &Handler{service: service, guard: guard}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/products", h.listProducts)      // GET    /api/v1/catalog/products?q=&category=
		r.Get("/products/{name}", h.getProduct) // GET    /api/v1/catalog/products/{name}
		r.Get("/categories", h.listCategories)  // GET    /api/v1/catalog/categories
	})
	r.Route("/api/v1/pos", func(r chi.Router) {
		r.Get("/availability", h.checkAvailability)   // GET    /api/v1/pos/availability?product=&quantity=
		r.Get("/transactions", h.listTransactions)    // GET    /api/v1/pos/transactions?limit=
		r.Post("/checkout/validate", h.validate)      // POST   /api/v1/pos/checkout/validate
		r.With(h.guard).Post("/checkout", h.checkout) // POST   /api/v1/pos/checkout
	})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("q") == "" && q.Get("category") == "" {
		respond(w, http.StatusOK, h.service.GetCatalog(r.Context()))
		return
	}
	products := h.service.SearchCatalog(r.Context(), q.Get("q"), q.Get("category"))
	if products == nil {
		products = []StockedProduct{}
	}
	respond(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, ok := h.service.GetProductByName(r.Context(), name)
	if !ok {
		respond(w, http.StatusNotFound, map[string]string{"error": ErrProductNotFound.Error() + ": " + name})
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.service.Categories())
}

func (h *Handler) checkAvailability(w http.ResponseWriter, r *http.Request) {
	product := r.URL.Query().Get("product")
	if product == "" {
		respond(w, http.StatusBadRequest, map[string]string{"error": "product is required"})
		return
	}
	qty := 1
	if raw := r.URL.Query().Get("quantity"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respond(w, http.StatusBadRequest, map[string]string{"error": "quantity must be an integer"})
			return
		}
		qty = n
	}
	respond(w, http.StatusOK, map[string]any{
		"product":   product,
		"quantity":  qty,
		"available": h.service.CheckAvailability(r.Context(), product, qty),
	})
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		respond(w, http.StatusOK, h.service.GetLedger(r.Context()))
		return
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		respond(w, http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
		return
	}
	respond(w, http.StatusOK, h.service.RecentTransactions(r.Context(), limit))
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	plan, err := h.service.Validate(r.Context(), req.Lines)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, plan)
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	var date time.Time
	if req.Date != nil {
		date = *req.Date
	}
	txs, err := h.service.Checkout(r.Context(), req.Lines, date)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, txs)
}

func respondError(w http.ResponseWriter, err error) {
	var insufficient *InsufficientInventoryError
	var writeErr *StorageWriteError
	var readErr *StorageReadError
	switch {
	case errors.As(err, &insufficient):
		respond(w, http.StatusConflict, map[string]any{
			"error":     err.Error(),
			"product":   insufficient.Product,
			"requested": insufficient.Requested,
			"available": insufficient.Available,
		})
	case errors.As(err, &writeErr), errors.As(err, &readErr):
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrProductNotFound):
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}


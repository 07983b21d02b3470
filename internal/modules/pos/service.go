package pos

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/georgemunganga/printa-pos/internal/modules/catalog"
	"github.com/georgemunganga/printa-pos/internal/modules/inventory"
	"github.com/georgemunganga/printa-pos/internal/modules/storage"
)

// DefaultRecentLimit is the size of the register's recent-sales list.
const DefaultRecentLimit = 10

// Service is the catalog and ledger store behind the register.
type Service interface {
	// GetCatalog returns every product joined with its current stock.
	GetCatalog(ctx context.Context) []StockedProduct

	// GetProductByName returns one stocked product, or false if it is not in the catalog.
	GetProductByName(ctx context.Context, name string) (StockedProduct, bool)

	// SearchCatalog filters GetCatalog by free text and category.
	SearchCatalog(ctx context.Context, query, category string) []StockedProduct

	// Categories lists catalog categories in first-seen order.
	Categories() []string

	// CheckAvailability reports whether qty units of name are in stock.
	CheckAvailability(ctx context.Context, name string, qty int) bool

	// GetLedger returns every recorded transaction in append order.
	GetLedger(ctx context.Context) []Transaction

	// RecentTransactions returns the newest n transactions, newest first.
	RecentTransactions(ctx context.Context, n int) []Transaction

	// Validate checks a cart against one inventory snapshot without writing.
	Validate(ctx context.Context, lines []CartLine) (*CheckoutPlan, error)

	// Commit re-validates plan against current stock and records it atomically.
	Commit(ctx context.Context, plan *CheckoutPlan, date time.Time) ([]Transaction, error)

	// Checkout is Validate followed by Commit.
	Checkout(ctx context.Context, lines []CartLine, date time.Time) ([]Transaction, error)
}

type service struct {
	mu       sync.Mutex
	products *catalog.Catalog
	state    storage.Repository
	stock    inventory.Repository
	ledger   Repository
	log      *zap.Logger
	newID    func() string
	now      func() time.Time
}

// Option customises a Service.
type Option func(*service)

// WithIDGenerator replaces uuid.NewString for transaction ids.
func WithIDGenerator(fn func() string) Option { return func(s *service) { s.newID = fn } }

// WithClock sets the time used when Commit is given a zero date.
func WithClock(fn func() time.Time) Option { return func(s *service) { s.now = fn } }

func NewService(products *catalog.Catalog, state storage.Repository, log *zap.Logger, opts ...Option) Service {
	s := &service{
		products: products,
		state:    state,
		stock:    inventory.NewRepository(state, products, log),
		ledger:   NewRepository(state, log),
		log:      log,
		newID:    uuid.NewString,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) stocked(p catalog.Product, rec inventory.Record) StockedProduct {
	current, ok := rec[p.ItemName]
	if !ok {
		current = p.Inventory
	}
	return StockedProduct{Product: p, CurrentInventory: current}
}

func (s *service) GetCatalog(ctx context.Context) []StockedProduct {
	rec := s.stock.Load(ctx)
	all := s.products.All()
	out := make([]StockedProduct, 0, len(all))
	for _, p := range all {
		out = append(out, s.stocked(p, rec))
	}
	return out
}

func (s *service) GetProductByName(ctx context.Context, name string) (StockedProduct, bool) {
	p, ok := s.products.Lookup(name)
	if !ok {
		return StockedProduct{}, false
	}
	return s.stocked(p, s.stock.Load(ctx)), true
}

func (s *service) SearchCatalog(ctx context.Context, query, category string) []StockedProduct {
	rec := s.stock.Load(ctx)
	var out []StockedProduct
	for _, p := range s.products.Search(query, category) {
		out = append(out, s.stocked(p, rec))
	}
	return out
}

func (s *service) Categories() []string { return s.products.Categories() }

func (s *service) CheckAvailability(ctx context.Context, name string, qty int) bool {
	return s.stock.Load(ctx).Available(name, qty)
}

func (s *service) GetLedger(ctx context.Context) []Transaction {
	return s.ledger.Load(ctx)
}

func (s *service) RecentTransactions(ctx context.Context, n int) []Transaction {
	txs := s.ledger.Load(ctx)
	if n < 0 {
		n = 0
	}
	if n > len(txs) {
		n = len(txs)
	}
	out := make([]Transaction, 0, n)
	for i := len(txs) - 1; i >= len(txs)-n; i-- {
		out = append(out, txs[i])
	}
	return out
}

func (s *service) Validate(ctx context.Context, lines []CartLine) (*CheckoutPlan, error) {
	normalized, err := normalizeLines(s.fillFromCatalog(lines))
	if err != nil {
		return nil, err
	}
	return s.plan(s.stock.Load(ctx), normalized)
}

// plan runs the inventory check for already-normalized lines.
func (s *service) plan(rec inventory.Record, lines []CartLine) (*CheckoutPlan, error) {
	next, err := inventory.Plan(rec, demandsOf(lines))
	if err != nil {
		return nil, err
	}

	plan := &CheckoutPlan{Lines: lines, Total: decimal.Zero, Remaining: make(map[string]int)}
	for _, l := range lines {
		plan.Total = plan.Total.Add(l.TotalPrice)
		plan.Remaining[l.ProductName] = next[l.ProductName]
	}
	return plan, nil
}

func (s *service) Commit(ctx context.Context, plan *CheckoutPlan, date time.Time) ([]Transaction, error) {
	if plan == nil {
		return nil, ErrEmptyCart
	}
	lines, err := normalizeLines(s.fillFromCatalog(plan.Lines))
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Both reads must succeed: the Save below replaces whole keys, so an empty
	// fallback here would overwrite the ledger.
	rec, err := s.stock.Read(ctx)
	if err != nil {
		return nil, s.readFailed(err)
	}
	existing, err := s.ledger.Read(ctx)
	if err != nil {
		return nil, s.readFailed(err)
	}

	next, err := inventory.Plan(rec, demandsOf(lines))
	if err != nil {
		s.log.Info("checkout rejected", zap.Error(err))
		return nil, err
	}

	created := make([]Transaction, len(lines))
	for i, l := range lines {
		created[i] = Transaction{
			ID:          s.newID(),
			ProductName: l.ProductName,
			Category:    l.Category,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TotalPrice:  l.TotalPrice,
			Date:        date,
		}
	}
	ledger := append(existing, created...)

	invEntry, err := s.stock.Entry(next)
	if err != nil {
		return nil, s.writeFailed([]string{inventory.Key}, err)
	}
	ledgerEntry, err := s.ledger.Entry(ledger)
	if err != nil {
		return nil, s.writeFailed([]string{LedgerKey}, err)
	}
	if err := s.state.Save(ctx, invEntry, ledgerEntry); err != nil {
		return nil, s.writeFailed(storage.Keys([]storage.Entry{invEntry, ledgerEntry}), err)
	}

	s.log.Info("checkout committed",
		zap.Int("lines", len(created)),
		zap.String("total", SumTotals(created).StringFixed(2)),
		zap.Time("date", date))
	return created, nil
}

func (s *service) Checkout(ctx context.Context, lines []CartLine, date time.Time) ([]Transaction, error) {
	plan, err := s.Validate(ctx, lines)
	if err != nil {
		return nil, err
	}
	return s.Commit(ctx, plan, date)
}

func (s *service) readFailed(err error) error {
	s.log.Error("checkout aborted, state unreadable", zap.Error(err))
	return err
}

func (s *service) writeFailed(keys []string, err error) error {
	werr := &StorageWriteError{Keys: keys, Err: err}
	s.log.Error("checkout not persisted", zap.Error(werr))
	return werr
}

// fillFromCatalog copies lines, replacing category and unit price with the
// catalog's for every product the catalog knows. Client-sent values only
// survive for unknown products, which never pass the stock check.
func (s *service) fillFromCatalog(lines []CartLine) []CartLine {
	out := make([]CartLine, len(lines))
	for i, l := range lines {
		if p, ok := s.products.Lookup(strings.TrimSpace(l.ProductName)); ok {
			l.Category = p.Category
			l.UnitPrice = p.UnitPrice
		}
		out[i] = l
	}
	return out
}

// normalizeLines rejects empty carts and bad quantities and recomputes each
// line total from quantity and unit price.
func normalizeLines(lines []CartLine) ([]CartLine, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	out := make([]CartLine, len(lines))
	for i, l := range lines {
		l.ProductName = strings.TrimSpace(l.ProductName)
		if l.ProductName == "" {
			return nil, fmt.Errorf("line %d: productName is required", i+1)
		}
		if l.Quantity <= 0 {
			return nil, fmt.Errorf("%w: %s has quantity %d", ErrInvalidQuantity, l.ProductName, l.Quantity)
		}
		if l.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("line %d: unitPrice must not be negative", i+1)
		}
		l.TotalPrice = LineTotal(l.Quantity, l.UnitPrice)
		out[i] = l
	}
	return out, nil
}

func demandsOf(lines []CartLine) []inventory.Demand {
	demands := make([]inventory.Demand, len(lines))
	for i, l := range lines {
		demands[i] = inventory.Demand{Product: l.ProductName, Quantity: l.Quantity}
	}
	return demands
}

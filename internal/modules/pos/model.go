package pos

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/georgemunganga/printa-pos/internal/modules/catalog"
)

// StockedProduct is a catalog product joined with its live stock.
type StockedProduct struct {
	catalog.Product
	CurrentInventory int `json:"currentInventory"`
}

// Transaction is one completed sale line in the ledger. Never mutated.
type Transaction struct {
	ID          string          `json:"id"`
	ProductName string          `json:"productName"`
	Category    string          `json:"category"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	Date        time.Time       `json:"date"`
}

// CartLine is a pending sale line; it is never persisted.
type CartLine struct {
	ProductName string          `json:"productName"`
	Category    string          `json:"category"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
}

// LineTotal is quantity * unit price.
func LineTotal(qty int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(qty)))
}

// SumTotals adds up the totalPrice of every transaction.
func SumTotals(txs []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		total = total.Add(t.TotalPrice)
	}
	return total
}

// CheckoutPlan is the validated form of a cart: the result of the first
// checkout phase, consumed by Commit.
type CheckoutPlan struct {
	Lines []CartLine      `json:"lines"`
	Total decimal.Decimal `json:"total"`
	// Remaining is the stock each sold product will have after commit.
	Remaining map[string]int `json:"remaining"`
}

// CheckoutRequest is the payload for validating or completing a sale.
type CheckoutRequest struct {
	Lines []CartLine `json:"lines"`
	Date  *time.Time `json:"date,omitempty"`
}

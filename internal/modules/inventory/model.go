package inventory

import (
	"errors"
	"fmt"

	"github.com/georgemunganga/printa-pos/internal/modules/catalog"
)

// Key is the state repository key holding the inventory record.
const Key = "pos_inventory"

// ErrInvalidQuantity is returned for a demand of zero or fewer units.
var ErrInvalidQuantity = errors.New("quantity must be greater than zero")

// Record maps an item name to its remaining stock.
type Record map[string]int

// Seed builds the initial record from the catalog's starting stock.
func Seed(products []catalog.Product) Record {
	r := make(Record, len(products))
	for _, p := range products {
		r[p.ItemName] = p.Inventory
	}
	return r
}

// Clone returns an independent copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Available reports whether name is tracked and has at least qty units.
// Untracked names are never available.
func (r Record) Available(name string, qty int) bool {
	stock, ok := r[name]
	return ok && stock >= qty
}

// Demand is a request for qty units of a product.
type Demand struct {
	Product  string
	Quantity int
}

// InsufficientInventoryError names the product whose stock could not
// cover the requested quantity.
type InsufficientInventoryError struct {
	Product   string
	Requested int
	Available int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory for %s: requested %d, available %d", e.Product, e.Requested, e.Available)
}

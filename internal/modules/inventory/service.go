package inventory

import "fmt"

// Plan checks every demand against one snapshot and returns the record as it
// would be after all of them are fulfilled. Repeated products draw down the
// same running balance. rec is never modified; on error nothing is returned.
func Plan(rec Record, demands []Demand) (Record, error) {
	next := rec.Clone()
	for _, d := range demands {
		if d.Quantity <= 0 {
			return nil, fmt.Errorf("%w: %s has quantity %d", ErrInvalidQuantity, d.Product, d.Quantity)
		}
		if !next.Available(d.Product, d.Quantity) {
			return nil, &InsufficientInventoryError{
				Product:   d.Product,
				Requested: d.Quantity,
				Available: next[d.Product],
			}
		}
		next[d.Product] -= d.Quantity
	}
	return next, nil
}

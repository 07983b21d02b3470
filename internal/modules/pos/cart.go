package pos

import (
	"context"

	"github.com/shopspring/decimal"
)

// StockChecker is the part of Service a Cart needs to keep quantities within stock.
type StockChecker interface {
	CheckAvailability(ctx context.Context, name string, qty int) bool
	GetProductByName(ctx context.Context, name string) (StockedProduct, bool)
}

// Cart is the transient list of lines for the sale in progress.
// It is not safe for concurrent use.
type Cart struct {
	lines []CartLine
}

// Add puts one unit of p in the cart, or one more unit if it is already there.
func (c *Cart) Add(ctx context.Context, p StockedProduct, stock StockChecker) error {
	i := c.index(p.ItemName)
	qty := 1
	if i >= 0 {
		qty = c.lines[i].Quantity + 1
	}
	if !stock.CheckAvailability(ctx, p.ItemName, qty) {
		return &InsufficientInventoryError{Product: p.ItemName, Requested: qty, Available: p.CurrentInventory}
	}

	if i >= 0 {
		c.lines[i].Quantity = qty
		c.lines[i].TotalPrice = LineTotal(qty, c.lines[i].UnitPrice)
		return nil
	}
	c.lines = append(c.lines, CartLine{
		ProductName: p.ItemName,
		Category:    p.Category,
		Quantity:    1,
		UnitPrice:   p.UnitPrice,
		TotalPrice:  p.UnitPrice,
	})
	return nil
}

// SetQuantity changes the quantity of a line. Zero or less removes it.
func (c *Cart) SetQuantity(ctx context.Context, name string, qty int, stock StockChecker) error {
	i := c.index(name)
	if i < 0 {
		return ErrProductNotFound
	}
	if qty <= 0 {
		c.Remove(name)
		return nil
	}
	if !stock.CheckAvailability(ctx, name, qty) {
		available := 0
		if p, ok := stock.GetProductByName(ctx, name); ok {
			available = p.CurrentInventory
		}
		return &InsufficientInventoryError{Product: name, Requested: qty, Available: available}
	}
	c.lines[i].Quantity = qty
	c.lines[i].TotalPrice = LineTotal(qty, c.lines[i].UnitPrice)
	return nil
}

// Remove drops the line for name, if any.
func (c *Cart) Remove(name string) {
	if i := c.index(name); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// Clear empties the cart.
func (c *Cart) Clear() { c.lines = nil }

// Lines returns a copy of the cart lines in the order they were added.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int { return len(c.lines) }

// Total is the sum of all line totals.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.TotalPrice)
	}
	return total
}

func (c *Cart) index(name string) int {
	for i, l := range c.lines {
		if l.ProductName == name {
			return i
		}
	}
	return -1
}

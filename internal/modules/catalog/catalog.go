package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidProduct is wrapped by every validation failure in New.
var ErrInvalidProduct = errors.New("catalog: invalid product")

// Catalog is the immutable product list loaded at startup.
type Catalog struct {
	products []Product
	byName   map[string]int
}

// New validates products and indexes them by name, keeping file order.
func New(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byName:   make(map[string]int, len(products)),
	}
	for i, p := range products {
		switch {
		case strings.TrimSpace(p.ItemName) == "":
			return nil, fmt.Errorf("%w: entry %d has no itemName", ErrInvalidProduct, i)
		case p.UnitPrice.IsNegative():
			return nil, fmt.Errorf("%w: %s has negative unitPrice %s", ErrInvalidProduct, p.ItemName, p.UnitPrice)
		case p.Inventory < 0:
			return nil, fmt.Errorf("%w: %s has negative inventory %d", ErrInvalidProduct, p.ItemName, p.Inventory)
		}
		if _, dup := c.byName[p.ItemName]; dup {
			return nil, fmt.Errorf("%w: duplicate itemName %s", ErrInvalidProduct, p.ItemName)
		}
		c.byName[p.ItemName] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// All returns a copy of every product in catalog order.
func (c *Catalog) All() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Lookup finds a product by its item name.
func (c *Catalog) Lookup(name string) (Product, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// Len is the number of products.
func (c *Catalog) Len() int { return len(c.products) }

// Categories lists distinct categories in first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// Matches reports whether p passes the register's product filter: a
// case-insensitive substring of name or description, and an exact category
// unless category is empty or "all".
func Matches(p Product, query, category string) bool {
	if category != "" && category != "all" && p.Category != category {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.ItemName), q) ||
		strings.Contains(strings.ToLower(p.Description), q)
}

// Search returns the products accepted by Matches, in catalog order.
func (c *Catalog) Search(query, category string) []Product {
	var out []Product
	for _, p := range c.products {
		if Matches(p, query, category) {
			out = append(out, p)
		}
	}
	return out
}

package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Product is a sellable item from the static catalog file.
type Product struct {
	ItemName    string          `json:"itemName" yaml:"itemName"`
	Description string          `json:"description" yaml:"description"`
	Category    string          `json:"category" yaml:"category"`
	UnitPrice   decimal.Decimal `json:"unitPrice" yaml:"unitPrice"`
	Inventory   int             `json:"inventory" yaml:"inventory"`
}

// DisplayCategory renders a category key such as "hot_drinks" for people.
func DisplayCategory(category string) string {
	return strings.ReplaceAll(category, "_", " ")
}

package analytics

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Period selects a reporting window and the trend bucket size.
type Period string

const (
	Daily   Period = "Daily"
	Weekly  Period = "Weekly"
	Monthly Period = "Monthly"
)

// ParsePeriod accepts a period name in any case. Empty means Daily.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "daily":
		return Daily, nil
	case "weekly":
		return Weekly, nil
	case "monthly":
		return Monthly, nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// CategoryMode chooses where a sale's category comes from.
type CategoryMode int

const (
	// CategoryCurrent resolves the category from the catalog as it is now.
	CategoryCurrent CategoryMode = iota
	// CategoryAsSold uses the category recorded on the transaction.
	CategoryAsSold
)

func ParseCategoryMode(s string) (CategoryMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "current":
		return CategoryCurrent, nil
	case "sold", "as_sold", "recorded":
		return CategoryAsSold, nil
	}
	return 0, fmt.Errorf("unknown category mode %q", s)
}

// UnknownCategory labels revenue whose category cannot be resolved.
const UnknownCategory = "Unknown"

// ProductSales is one row of the per-product report.
type ProductSales struct {
	ProductName  string          `json:"productName"`
	Quantity     int             `json:"quantity"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

type CategorySales struct {
	Category     string          `json:"category"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

// TrendPoint is one bucket of a trend series.
type TrendPoint struct {
	Label   string          `json:"label"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Dashboard is the register's reporting screen in one value.
type Dashboard struct {
	Period             Period          `json:"period"`
	TotalSales         decimal.Decimal `json:"totalSales"`
	PeriodSales        decimal.Decimal `json:"periodSales"`
	PeriodTransactions int             `json:"periodTransactions"`
	Trend              []TrendPoint    `json:"trend"`
	Categories         []CategorySales `json:"categories"`
	// TopItems ranks the whole ledger, not just the period.
	TopItems           []ProductSales  `json:"topItems"`
	Products           []ProductSales  `json:"products"`
}

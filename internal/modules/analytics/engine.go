package analytics

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/georgemunganga/printa-pos/internal/modules/catalog"
	"github.com/georgemunganga/printa-pos/internal/modules/pos"
)

// DefaultTopItems is how many products the dashboard ranks.
const DefaultTopItems = 5

// Config carries the calendar settings reports depend on.
type Config struct {
	// Location decides what "today" is and which hour, weekday or day of
	// month a sale falls in. Defaults to time.Local.
	Location        *time.Location
	// DisplayLocation is used by FormatDate. Defaults to DefaultDisplayLocation.
	DisplayLocation *time.Location
	Now             func() time.Time
}

// Engine turns a ledger into reports. It holds no state besides its Config
// and is safe for concurrent use.
type Engine struct {
	loc     *time.Location
	display *time.Location
	now     func() time.Time
}

func NewEngine(cfg Config) *Engine {
	e := &Engine{loc: cfg.Location, display: cfg.DisplayLocation, now: cfg.Now}
	if e.loc == nil {
		e.loc = time.Local
	}
	if e.display == nil {
		e.display = DefaultDisplayLocation()
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// DefaultDisplayLocation is Asia/Bangkok, or a fixed UTC+7 zone when the
// tz database is unavailable.
func DefaultDisplayLocation() *time.Location {
	if loc, err := time.LoadLocation("Asia/Bangkok"); err == nil {
		return loc
	}
	return time.FixedZone("UTC+7", 7*60*60)
}

// TotalSales sums every transaction's total.
func TotalSales(txs []pos.Transaction) decimal.Decimal {
	return pos.SumTotals(txs)
}

func (e *Engine) day(t time.Time) time.Time {
	t = t.In(e.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, e.loc)
}

// FilterByPeriod keeps the transactions inside period, compared by calendar
// day: Daily is today only, Weekly starts seven days ago and Monthly starts
// one month ago. Any other period keeps everything.
func (e *Engine) FilterByPeriod(txs []pos.Transaction, period Period) []pos.Transaction {
	today := e.day(e.now())

	var keep func(day time.Time) bool
	switch period {
	case Daily:
		keep = func(day time.Time) bool { return day.Equal(today) }
	case Weekly:
		from := today.AddDate(0, 0, -7)
		keep = func(day time.Time) bool { return !day.Before(from) }
	case Monthly:
		from := today.AddDate(0, -1, 0)
		keep = func(day time.Time) bool { return !day.Before(from) }
	default:
		return slices.Clone(txs)
	}

	out := make([]pos.Transaction, 0, len(txs))
	for _, t := range txs {
		if keep(e.day(t.Date)) {
			out = append(out, t)
		}
	}
	return out
}

// SalesByProduct groups by product name, highest revenue first. Products with
// equal revenue keep the order they were first sold in.
func SalesByProduct(txs []pos.Transaction) []ProductSales {
	index := make(map[string]int)
	out := []ProductSales{}
	for _, t := range txs {
		i, ok := index[t.ProductName]
		if !ok {
			i = len(out)
			index[t.ProductName] = i
			out = append(out, ProductSales{ProductName: t.ProductName, TotalRevenue: decimal.Zero})
		}
		out[i].Quantity += t.Quantity
		out[i].TotalRevenue = out[i].TotalRevenue.Add(t.TotalPrice)
	}
	slices.SortStableFunc(out, func(a, b ProductSales) int {
		return b.TotalRevenue.Cmp(a.TotalRevenue)
	})
	return out
}

// TopSellingItems is the first limit rows of SalesByProduct.
func TopSellingItems(txs []pos.Transaction, limit int) []ProductSales {
	all := SalesByProduct(txs)
	if limit < 0 {
		limit = 0
	}
	if limit < len(all) {
		all = all[:limit]
	}
	return all
}

// SalesByCategory sums revenue per category in first-seen order.
func SalesByCategory(txs []pos.Transaction, products catalog.Repository, mode CategoryMode) []CategorySales {
	index := make(map[string]int)
	out := []CategorySales{}
	for _, t := range txs {
		category := categoryOf(t, products, mode)
		i, ok := index[category]
		if !ok {
			i = len(out)
			index[category] = i
			out = append(out, CategorySales{Category: category, TotalRevenue: decimal.Zero})
		}
		out[i].TotalRevenue = out[i].TotalRevenue.Add(t.TotalPrice)
	}
	return out
}

func categoryOf(t pos.Transaction, products catalog.Repository, mode CategoryMode) string {
	if mode == CategoryAsSold {
		if t.Category == "" {
			return UnknownCategory
		}
		return t.Category
	}
	if products != nil {
		if p, ok := products.Lookup(t.ProductName); ok {
			return p.Category
		}
	}
	return UnknownCategory
}

var weekdays = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// PrepareTrendData buckets revenue by hour for Daily, weekday for Weekly and
// day of month for Monthly. Only buckets that occur are returned, in the
// order they first occur. Any other period yields an empty series.
func (e *Engine) PrepareTrendData(txs []pos.Transaction, period Period) []TrendPoint {
	var label func(t time.Time) string
	switch period {
	case Daily:
		label = func(t time.Time) string { return fmt.Sprintf("%d:00", t.Hour()) }
	case Weekly:
		label = func(t time.Time) string { return weekdays[t.Weekday()] }
	case Monthly:
		label = func(t time.Time) string { return strconv.Itoa(t.Day()) }
	default:
		return []TrendPoint{}
	}

	index := make(map[string]int)
	out := []TrendPoint{}
	for _, t := range txs {
		key := label(t.Date.In(e.loc))
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, TrendPoint{Label: key, Revenue: decimal.Zero})
		}
		out[i].Revenue = out[i].Revenue.Add(t.TotalPrice)
	}
	return out
}

// Dashboard builds every view of the reporting screen from one ledger read.
func (e *Engine) Dashboard(txs []pos.Transaction, products catalog.Repository, period Period) Dashboard {
	inPeriod := e.FilterByPeriod(txs, period)
	return Dashboard{
		Period:             period,
		TotalSales:         TotalSales(txs),
		PeriodSales:        TotalSales(inPeriod),
		PeriodTransactions: len(inPeriod),
		Trend:              e.PrepareTrendData(inPeriod, period),
		Categories:         SalesByCategory(inPeriod, products, CategoryCurrent),
		TopItems:           TopSellingItems(txs, DefaultTopItems),
		Products:           SalesByProduct(inPeriod),
	}
}

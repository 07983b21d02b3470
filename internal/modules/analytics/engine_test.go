package analytics

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/printa-pos/internal/modules/catalog"
	"github.com/georgemunganga/printa-pos/internal/modules/pos"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

// now is Sunday 2024-03-31 15:00 UTC.
var now = time.Date(2024, time.March, 31, 15, 0, 0, 0, time.UTC)

func newTestEngine() *Engine {
	return NewEngine(Config{
		Location:        time.UTC,
		DisplayLocation: time.FixedZone("UTC+7", 7*60*60),
		Now:             func() time.Time { return now },
	})
}

func tx(name, category string, qty int, unit string, date time.Time) pos.Transaction {
	price := decimal.RequireFromString(unit)
	return pos.Transaction{
		ID:          name + date.Format(time.RFC3339),
		ProductName: name,
		Category:    category,
		Quantity:    qty,
		UnitPrice:   price,
		TotalPrice:  pos.LineTotal(qty, price),
		Date:        date,
	}
}

func at(month time.Month, day, hour int) time.Time {
	return time.Date(2024, month, day, hour, 0, 0, 0, time.UTC)
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]catalog.Product{
		{ItemName: "Latte", Category: "hot_drinks", UnitPrice: decimal.RequireFromString("4.50")},
		{ItemName: "Croissant", Category: "bakery", UnitPrice: decimal.RequireFromString("3.25")},
		{ItemName: "Lemonade", Category: "cold_drinks", UnitPrice: decimal.NewFromInt(3)},
	})
	require.NoError(t, err)
	return c
}

func ids(txs []pos.Transaction) []string {
	out := make([]string, len(txs))
	for i, t := range txs {
		out[i] = t.ProductName + "@" + t.Date.Format("01-02T15")
	}
	return out
}

func TestTotalSales(t *testing.T) {
	assert.True(t, TotalSales(nil).IsZero())

	txs := []pos.Transaction{
		tx("Latte", "hot_drinks", 2, "4.50", now),
		tx("Croissant", "bakery", 1, "3.25", now),
	}
	assert.Equal(t, "12.25", TotalSales(txs).StringFixed(2))
}

func TestEngine_FilterByPeriod(t *testing.T) {
	e := newTestEngine()
	txs := []pos.Transaction{
		tx("Latte", "", 1, "1", at(time.March, 31, 0)),
		tx("Latte", "", 1, "1", at(time.March, 30, 23)),
		tx("Latte", "", 1, "1", at(time.March, 24, 0)),
		tx("Latte", "", 1, "1", at(time.March, 23, 23)),
		// one month before Mar 31 normalises to Mar 2 in a leap year.
		tx("Latte", "", 1, "1", at(time.March, 2, 0)),
		tx("Latte", "", 1, "1", at(time.March, 1, 23)),
	}

	tests := []struct {
		period Period
		want   []string
	}{
		{Daily, []string{"Latte@03-31T00"}},
		{Weekly, []string{"Latte@03-31T00", "Latte@03-30T23", "Latte@03-24T00"}},
		{Monthly, []string{"Latte@03-31T00", "Latte@03-30T23", "Latte@03-24T00", "Latte@03-23T23", "Latte@03-02T00"}},
		{Period("Yearly"), ids(txs)},
	}
	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(e.FilterByPeriod(txs, tt.period)))
		})
	}
}

func TestEngine_FilterByPeriodUsesLocation(t *testing.T) {
	bangkok := time.FixedZone("UTC+7", 7*60*60)
	e := NewEngine(Config{Location: bangkok, Now: func() time.Time { return now }})

	// 18:00 UTC on Mar 31 is already Apr 1 in UTC+7, while now is still Mar 31 there.
	late := tx("Latte", "", 1, "1", time.Date(2024, time.March, 31, 18, 0, 0, 0, time.UTC))
	early := tx("Latte", "", 1, "1", time.Date(2024, time.March, 30, 17, 30, 0, 0, time.UTC))

	got := e.FilterByPeriod([]pos.Transaction{late, early}, Daily)
	assert.Equal(t, []pos.Transaction{early}, got)
}

func TestSalesByProduct(t *testing.T) {
	txs := []pos.Transaction{
		tx("Croissant", "bakery", 2, "3.00", at(time.March, 1, 9)),
		tx("Latte", "hot_drinks", 1, "4.50", at(time.March, 1, 10)),
		tx("Lemonade", "cold_drinks", 1, "6.00", at(time.March, 1, 11)),
		tx("Latte", "hot_drinks", 2, "4.50", at(time.March, 1, 12)),
	}

	want := []ProductSales{
		{ProductName: "Latte", Quantity: 3, TotalRevenue: decimal.RequireFromString("13.50")},
		{ProductName: "Croissant", Quantity: 2, TotalRevenue: decimal.NewFromInt(6)},
		{ProductName: "Lemonade", Quantity: 1, TotalRevenue: decimal.NewFromInt(6)},
	}
	if diff := cmp.Diff(want, SalesByProduct(txs), decimalEqual); diff != "" {
		t.Errorf("SalesByProduct mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, SalesByProduct(nil))
}

func TestTopSellingItems(t *testing.T) {
	txs := []pos.Transaction{
		tx("Croissant", "bakery", 1, "3.25", now),
		tx("Latte", "hot_drinks", 3, "4.50", now),
		tx("Lemonade", "cold_drinks", 2, "3", now),
	}

	tests := []struct {
		limit int
		want  []string
	}{
		{2, []string{"Latte", "Lemonade"}},
		{5, []string{"Latte", "Lemonade", "Croissant"}},
		{0, []string{}},
	}
	for _, tt := range tests {
		got := TopSellingItems(txs, tt.limit)
		names := []string{}
		for _, p := range got {
			names = append(names, p.ProductName)
		}
		assert.Equal(t, tt.want, names, "limit %d", tt.limit)
	}
}

func TestSalesByCategory(t *testing.T) {
	products := testCatalog(t)
	txs := []pos.Transaction{
		tx("Latte", "drinks", 1, "4.50", now),
		tx("Scone", "bakery", 1, "2.00", now),
		tx("Croissant", "bakery", 2, "3.25", now),
		tx("Mystery", "", 1, "1.00", now),
	}

	current := []CategorySales{
		{Category: "hot_drinks", TotalRevenue: decimal.RequireFromString("4.50")},
		{Category: UnknownCategory, TotalRevenue: decimal.NewFromInt(3)},
		{Category: "bakery", TotalRevenue: decimal.RequireFromString("6.50")},
	}
	if diff := cmp.Diff(current, SalesByCategory(txs, products, CategoryCurrent), decimalEqual); diff != "" {
		t.Errorf("current categories (-want +got):\n%s", diff)
	}

	asSold := []CategorySales{
		{Category: "drinks", TotalRevenue: decimal.RequireFromString("4.50")},
		{Category: "bakery", TotalRevenue: decimal.RequireFromString("8.50")},
		{Category: UnknownCategory, TotalRevenue: decimal.NewFromInt(1)},
	}
	if diff := cmp.Diff(asSold, SalesByCategory(txs, products, CategoryAsSold), decimalEqual); diff != "" {
		t.Errorf("as-sold categories (-want +got):\n%s", diff)
	}
}

func TestEngine_PrepareTrendData(t *testing.T) {
	e := newTestEngine()
	txs := []pos.Transaction{
		tx("Latte", "", 1, "4", at(time.March, 31, 14)), // Sun
		tx("Latte", "", 1, "2", at(time.March, 4, 9)),   // Mon
		tx("Latte", "", 1, "1", at(time.March, 31, 9)),  // Sun
		tx("Latte", "", 1, "8", at(time.March, 11, 14)), // Mon
	}

	labels := func(points []TrendPoint) ([]string, []string) {
		var l, v []string
		for _, p := range points {
			l = append(l, p.Label)
			v = append(v, p.Revenue.String())
		}
		return l, v
	}

	tests := []struct {
		period Period
		labels []string
		values []string
	}{
		{Daily, []string{"14:00", "9:00"}, []string{"12", "3"}},
		{Weekly, []string{"Sun", "Mon"}, []string{"5", "10"}},
		{Monthly, []string{"31", "4", "11"}, []string{"5", "2", "8"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			l, v := labels(e.PrepareTrendData(txs, tt.period))
			assert.Equal(t, tt.labels, l)
			assert.Equal(t, tt.values, v)
		})
	}

	assert.Empty(t, e.PrepareTrendData(txs, Period("Hourly")))
	assert.NotNil(t, e.PrepareTrendData(nil, Daily))
}

func TestEngine_Dashboard(t *testing.T) {
	e := newTestEngine()
	txs := []pos.Transaction{
		tx("Croissant", "bakery", 4, "3.25", at(time.March, 20, 8)),
		tx("Latte", "hot_drinks", 1, "4.50", at(time.March, 31, 8)),
		tx("Lemonade", "cold_drinks", 2, "3", at(time.March, 31, 13)),
	}

	d := e.Dashboard(txs, testCatalog(t), Daily)
	assert.Equal(t, Daily, d.Period)
	assert.Equal(t, "23.50", d.TotalSales.StringFixed(2))
	assert.Equal(t, "10.50", d.PeriodSales.StringFixed(2))
	assert.Equal(t, 2, d.PeriodTransactions)
	require.Len(t, d.Trend, 2)
	assert.Equal(t, "8:00", d.Trend[0].Label)
	require.Len(t, d.TopItems, 3)
	assert.Equal(t, "Croissant", d.TopItems[0].ProductName)
	require.Len(t, d.Products, 2)
	assert.Equal(t, "Lemonade", d.Products[0].ProductName)
	assert.Equal(t, []string{"hot_drinks", "cold_drinks"}, []string{d.Categories[0].Category, d.Categories[1].Category})
}

func TestParsePeriod(t *testing.T) {
	for in, want := range map[string]Period{"": Daily, "daily": Daily, "WEEKLY": Weekly, " Monthly ": Monthly} {
		got, err := ParsePeriod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParsePeriod("yearly")
	assert.EqualError(t, err, `unknown period "yearly"`)

	mode, err := ParseCategoryMode("sold")
	require.NoError(t, err)
	assert.Equal(t, CategoryAsSold, mode)
	_, err = ParseCategoryMode("x")
	assert.Error(t, err)
}

package analytics

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DateLayout renders like "Mar 14, 2024, 09:30 AM".
const DateLayout = "Jan 2, 2006, 03:04 PM"

// FormatCurrency renders amount as US dollars with two decimals and thousands
// separators, e.g. "$1,234.50" or "-$3.00". Any negative amount keeps its sign,
// so -0.001 is "-$0.00".
func FormatCurrency(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}
	whole, cents, _ := strings.Cut(amount.Abs().StringFixed(2), ".")
	return sign + "$" + groupThousands(whole) + "." + cents
}

// groupThousands inserts separators into a string of digits. Amounts past
// the int64 range are returned ungrouped.
func groupThousands(digits string) string {
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return digits
	}
	p := message.NewPrinter(language.AmericanEnglish)
	return p.Sprint(number.Decimal(n))
}

// FormatDate renders t in the engine's display location.
func (e *Engine) FormatDate(t time.Time) string {
	return t.In(e.display).Format(DateLayout)
}

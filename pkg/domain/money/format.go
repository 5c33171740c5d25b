package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatUSD renders an amount as "$1,234.56".
func FormatUSD(amount decimal.Decimal) string {
	return "$" + printer.Sprintf("%.2f", amount.Round(2).InexactFloat64())
}

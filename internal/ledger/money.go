package ledger

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var moneyPrinter = message.NewPrinter(language.SimplifiedChinese)

// FormatWhole renders an amount grouped and rounded to whole units, as the
// calendar cells and summary cards show it.
func FormatWhole(d decimal.Decimal) string {
	return moneyPrinter.Sprint(number.Decimal(d.Round(0).InexactFloat64(), number.MaxFractionDigits(0)))
}

// FormatFull renders an amount grouped with exactly two decimals.
func FormatFull(d decimal.Decimal) string {
	return moneyPrinter.Sprint(number.Decimal(d.Round(2).InexactFloat64(),
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

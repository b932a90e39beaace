package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MaxAmountDigits caps how many digits the keypad accepts, not counting
// the decimal point.
const MaxAmountDigits = 8

// AmountInput is the keypad buffer behind the entry screen.
type AmountInput struct {
	text string
}

func (a AmountInput) String() string {
	if a.text == "" {
		return "0"
	}
	return a.text
}

// Press applies one keypad key ('0'-'9' or '.') and reports whether the
// buffer changed.
func (a *AmountInput) Press(key rune) bool {
	if key != '.' && (key < '0' || key > '9') {
		return false
	}
	cur := a.String()
	if cur == "0" && key != '.' {
		a.text = string(key)
		return true
	}
	if key == '.' && strings.Contains(cur, ".") {
		return false
	}
	if len(strings.Replace(cur, ".", "", 1)) >= MaxAmountDigits {
		return false
	}
	a.text = cur + string(key)
	return true
}

// Backspace drops the last character; a single character resets to "0".
func (a *AmountInput) Backspace() {
	cur := a.String()
	if len(cur) <= 1 {
		a.text = "0"
		return
	}
	a.text = cur[:len(cur)-1]
}

// Clear resets the buffer to "0".
func (a *AmountInput) Clear() {
	a.text = "0"
}

// Value parses the buffer. Anything not strictly positive is
// ErrInvalidAmount.
func (a AmountInput) Value() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSuffix(a.String(), "."))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Type is the direction of a transaction.
type Type string

const (
	Expense Type = "expense"
	Income  Type = "income"
)

var (
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	ErrUnknownType   = errors.New("unknown transaction type")
)

// isoLayout matches the millisecond ISO form the snapshot has always used.
const isoLayout = "2006-01-02T15:04:05.000Z"

// Valid reports whether t is one of the two known types.
func (t Type) Valid() bool {
	return t == Expense || t == Income
}

// Label returns the localized label used in CSV files and the UI.
func (t Type) Label() string {
	if t == Income {
		return "收入"
	}
	return "支出"
}

// Transaction is a single recorded income or expense. Records are never
// edited in place; they are added and deleted only.
type Transaction struct {
	ID           string          `json:"id"`
	Amount       decimal.Decimal `json:"amount"`
	Type         Type            `json:"type"`
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Note         string          `json:"note"`
	Date         string          `json:"date"`
	Timestamp    int64           `json:"timestamp"`
}

// New builds a transaction for the category at the given instant. The
// category name is copied from the registry entry.
func New(id string, kind Type, amount decimal.Decimal, cat Category, note string, at time.Time) (Transaction, error) {
	if !kind.Valid() {
		return Transaction{}, fmt.Errorf("%w: %q", ErrUnknownType, kind)
	}
	if !amount.IsPositive() {
		return Transaction{}, ErrInvalidAmount
	}
	return Transaction{
		ID:           id,
		Amount:       amount,
		Type:         kind,
		CategoryID:   cat.ID,
		CategoryName: cat.Name,
		Note:         note,
		Date:         FormatISO(at),
		Timestamp:    at.UnixMilli(),
	}, nil
}

// Time returns the instant of the transaction in loc.
func (t Transaction) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(t.Timestamp).In(loc)
}

// Signed returns the amount negated for expenses.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Validate checks the invariants every stored transaction must hold.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("empty id")
	}
	if !t.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownType, t.Type)
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// FormatISO renders an instant the way the date field stores it.
func FormatISO(at time.Time) string {
	return at.UTC().Format(isoLayout)
}

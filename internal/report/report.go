// Package report derives month, day and category views from a snapshot of
// the transaction store. Every function is pure.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jask/easybook/internal/ledger"
)

// Summary holds the totals of a set of transactions.
type Summary struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
}

// DayTotals is the per-type sum for one calendar day.
type DayTotals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// CategoryTotal is one ranked row of a category breakdown.
type CategoryTotal struct {
	Name     string
	Category ledger.Category
	Amount   decimal.Decimal
	Percent  float64
	Count    int
}

// MonthFilter returns the transactions whose instant falls in ref's year
// and month, evaluated in ref's location.
func MonthFilter(txs []ledger.Transaction, ref time.Time) []ledger.Transaction {
	y, m := ref.Year(), ref.Month()
	var out []ledger.Transaction
	for _, t := range txs {
		at := t.Time(ref.Location())
		if at.Year() == y && at.Month() == m {
			out = append(out, t)
		}
	}
	return out
}

// DayFilter returns the transactions on day's calendar date.
func DayFilter(txs []ledger.Transaction, day time.Time) []ledger.Transaction {
	y, m, d := day.Date()
	var out []ledger.Transaction
	for _, t := range txs {
		ty, tm, td := t.Time(day.Location()).Date()
		if ty == y && tm == m && td == d {
			out = append(out, t)
		}
	}
	return out
}

// Summarize totals income and expense. Empty input yields zeros.
func Summarize(txs []ledger.Transaction) Summary {
	s := Summary{Income: decimal.Zero, Expense: decimal.Zero}
	for _, t := range txs {
		switch t.Type {
		case ledger.Income:
			s.Income = s.Income.Add(t.Amount)
		case ledger.Expense:
			s.Expense = s.Expense.Add(t.Amount)
		}
	}
	s.Net = s.Income.Sub(s.Expense)
	return s
}

// DailyBreakdown maps day-of-month to that day's totals. Only days with at
// least one transaction appear. Pass a month subset; days are read in loc.
func DailyBreakdown(monthTxs []ledger.Transaction, loc *time.Location) map[int]DayTotals {
	out := make(map[int]DayTotals)
	for _, t := range monthTxs {
		day := t.Time(loc).Day()
		dt, ok := out[day]
		if !ok {
			dt = DayTotals{Income: decimal.Zero, Expense: decimal.Zero}
		}
		if t.Type == ledger.Income {
			dt.Income = dt.Income.Add(t.Amount)
		} else {
			dt.Expense = dt.Expense.Add(t.Amount)
		}
		out[day] = dt
	}
	return out
}

// CategoryBreakdown groups transactions of kind by category name and ranks
// the groups by amount, largest first. Equal amounts keep the order in
// which their group first appeared. Percent is the share of the kind's
// total, or 0 when that total is zero.
func CategoryBreakdown(txs []ledger.Transaction, kind ledger.Type, reg *ledger.Registry) []CategoryTotal {
	var groups []CategoryTotal
	index := map[string]int{}
	total := decimal.Zero
	for _, t := range txs {
		if t.Type != kind {
			continue
		}
		total = total.Add(t.Amount)
		i, ok := index[t.CategoryName]
		if !ok {
			i = len(groups)
			index[t.CategoryName] = i
			groups = append(groups, CategoryTotal{Name: t.CategoryName, Amount: decimal.Zero})
		}
		groups[i].Amount = groups[i].Amount.Add(t.Amount)
		groups[i].Count++
	}

	for i := range groups {
		if reg != nil {
			if c, ok := reg.FindByName(groups[i].Name); ok {
				groups[i].Category = c
			} else {
				groups[i].Category = reg.Fallback()
			}
		}
		if total.IsPositive() {
			groups[i].Percent = groups[i].Amount.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Amount.GreaterThan(groups[j].Amount)
	})
	return groups
}

// SortNewestFirst orders a copy of txs by timestamp descending.
func SortNewestFirst(txs []ledger.Transaction) []ledger.Transaction {
	out := append([]ledger.Transaction(nil), txs...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}

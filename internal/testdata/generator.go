package testdata

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jask/easybook/internal/ledger"
	"github.com/jask/easybook/internal/report"
	"github.com/jask/easybook/internal/store"
)

var notes = []string{"", "", "早市", "批发", "老顾客", "补货", "赶集"}

// Generate builds a reproducible month of stall bookkeeping: a few supply
// purchases and the day's takings on most days. The same seed and month
// always give the same records; ids are only unique within one call.
func Generate(month time.Time, seed int64) []ledger.Transaction {
	rng := rand.New(rand.NewSource(seed))
	reg := ledger.DefaultRegistry()
	expense := reg.ForType(ledger.Expense)
	income := reg.ForType(ledger.Income)

	start := report.MonthStart(month)
	days := report.DaysInMonth(start.Year(), start.Month())
	var out []ledger.Transaction
	for d := 0; d < days; d++ {
		day := start.AddDate(0, 0, d)
		if rng.Intn(7) == 0 {
			continue
		}
		if rng.Intn(3) == 0 {
			cat := expense[rng.Intn(len(expense))]
			at := day.Add(time.Duration(6+rng.Intn(3)) * time.Hour)
			amount := decimal.New(int64(500+rng.Intn(20000)), -2)
			out = append(out, mustNew(fmt.Sprintf("demo-%s-e", at.Format("20060102")), ledger.Expense, amount, cat,
				notes[rng.Intn(len(notes))], at))
		}
		for i, n := 0, 1+rng.Intn(3); i < n; i++ {
			cat := income[rng.Intn(len(income))]
			at := day.Add(time.Duration(9+i*3) * time.Hour).Add(time.Duration(rng.Intn(60)) * time.Minute)
			amount := decimal.New(int64(2000+rng.Intn(30000)), -2)
			out = append(out, mustNew(fmt.Sprintf("demo-%s-i%d", at.Format("20060102"), i), ledger.Income, amount, cat,
				notes[rng.Intn(len(notes))], at))
		}
	}
	return out
}

// Seed appends Generate's records to st in one write. Each record gets a
// fresh id so seeding the same month twice never repeats one.
func Seed(ctx context.Context, st *store.Store, month time.Time, seed int64) (int, error) {
	txs := Generate(month, seed)
	now := time.Now()
	for i := range txs {
		txs[i].ID = "demo-" + ledger.NewImportID(now)
	}
	if err := st.AddMany(ctx, txs); err != nil {
		return 0, err
	}
	return len(txs), nil
}

func mustNew(id string, kind ledger.Type, amount decimal.Decimal, cat ledger.Category, note string, at time.Time) ledger.Transaction {
	tx, err := ledger.New(id, kind, amount, cat, note, at)
	if err != nil {
		panic(err)
	}
	return tx
}

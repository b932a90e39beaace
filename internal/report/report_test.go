package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jask/easybook/internal/ledger"
)

var shanghai = time.FixedZone("CST", 8*3600)

func tx(t *testing.T, id string, kind ledger.Type, amount string, catID string, at time.Time) ledger.Transaction {
	t.Helper()
	reg := ledger.DefaultRegistry()
	out, err := ledger.New(id, kind, decimal.RequireFromString(amount), reg.FindByID(catID), "", at)
	require.NoError(t, err)
	return out
}

func TestMonthFilterBoundaries(t *testing.T) {
	t.Parallel()
	lastOfMay := time.Date(2024, 5, 31, 23, 59, 59, 999e6, shanghai)
	firstOfJune := time.Date(2024, 6, 1, 0, 0, 0, 0, shanghai)
	txs := []ledger.Transaction{
		tx(t, "a", ledger.Expense, "1", "flour", lastOfMay),
		tx(t, "b", ledger.Expense, "2", "flour", firstOfJune),
	}

	may := MonthFilter(txs, time.Date(2024, 5, 10, 0, 0, 0, 0, shanghai))
	require.Len(t, may, 1)
	require.Equal(t, "a", may[0].ID)

	june := MonthFilter(txs, time.Date(2024, 6, 15, 0, 0, 0, 0, shanghai))
	require.Len(t, june, 1)
	require.Equal(t, "b", june[0].ID)

	// The same instants read in UTC both land in May.
	require.Len(t, MonthFilter(txs, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)), 2)
}

func TestDayFilter(t *testing.T) {
	t.Parallel()
	day := time.Date(2024, 5, 20, 0, 0, 0, 0, shanghai)
	txs := []ledger.Transaction{
		tx(t, "a", ledger.Expense, "1", "salt", day.Add(time.Hour)),
		tx(t, "b", ledger.Income, "1", "cash", day.Add(23*time.Hour+59*time.Minute)),
		tx(t, "c", ledger.Income, "1", "cash", day.Add(24*time.Hour)),
		tx(t, "d", ledger.Income, "1", "cash", day.AddDate(-1, 0, 0)),
	}
	got := DayFilter(txs, day.Add(15*time.Hour))
	require.Len(t, got, 2)
	require.Equal(t, "a", got[0].ID)
	require.Equal(t, "b", got[1].ID)
}

func TestSummarizeScenario(t *testing.T) {
	t.Parallel()
	at := time.Date(2024, 5, 20, 10, 0, 0, 0, shanghai)
	txs := []ledger.Transaction{tx(t, "1", ledger.Expense, "52.5", "other", at)}

	s := Summarize(MonthFilter(txs, time.Date(2024, 5, 1, 0, 0, 0, 0, shanghai)))
	require.True(t, s.Income.IsZero())
	require.Equal(t, "52.5", s.Expense.String())
	require.Equal(t, "-52.5", s.Net.String())

	empty := Summarize(nil)
	require.True(t, empty.Income.IsZero())
	require.True(t, empty.Expense.IsZero())
	require.True(t, empty.Net.IsZero())
}

func TestSummarizeNetIsIncomeMinusExpense(t *testing.T) {
	t.Parallel()
	at := time.Date(2024, 3, 1, 8, 0, 0, 0, shanghai)
	cases := [][]ledger.Transaction{
		{tx(t, "1", ledger.Income, "100", "cash", at)},
		{tx(t, "1", ledger.Income, "0.1", "cash", at), tx(t, "2", ledger.Expense, "0.2", "salt", at)},
		{tx(t, "1", ledger.Expense, "99999999", "salt", at), tx(t, "2", ledger.Expense, "0.01", "bags", at)},
	}
	for _, c := range cases {
		s := Summarize(c)
		require.True(t, s.Net.Equal(s.Income.Sub(s.Expense)))
	}
}

func TestDailyBreakdown(t *testing.T) {
	t.Parallel()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, shanghai)
	txs := []ledger.Transaction{
		tx(t, "1", ledger.Expense, "10", "flour", base),
		tx(t, "2", ledger.Expense, "5.5", "salt", base.Add(time.Hour)),
		tx(t, "3", ledger.Income, "30", "wechat", base.AddDate(0, 0, 2)),
	}
	days := DailyBreakdown(txs, shanghai)
	require.Len(t, days, 2)
	require.Equal(t, "15.5", days[1].Expense.String())
	require.True(t, days[1].Income.IsZero())
	require.Equal(t, "30", days[3].Income.String())
	_, ok := days[2]
	require.False(t, ok)
}

func TestCategoryBreakdown(t *testing.T) {
	t.Parallel()
	reg := ledger.DefaultRegistry()
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, shanghai)
	txs := []ledger.Transaction{
		tx(t, "1", ledger.Expense, "20", "salt", at),
		tx(t, "2", ledger.Expense, "50", "flour", at),
		tx(t, "3", ledger.Expense, "30", "bags", at),
		tx(t, "4", ledger.Income, "999", "cash", at),
		tx(t, "5", ledger.Expense, "30", "flour", at),
	}
	// A record whose name is no longer registered still gets a group.
	legacy := tx(t, "6", ledger.Expense, "20", "other", at)
	legacy.CategoryName = "买菜"
	txs = append(txs, legacy)

	rows := CategoryBreakdown(txs, ledger.Expense, reg)
	require.Len(t, rows, 4)
	require.Equal(t, "面粉", rows[0].Name)
	require.Equal(t, "80", rows[0].Amount.String())
	require.Equal(t, 2, rows[0].Count)
	require.Equal(t, "袋子", rows[1].Name)
	// Equal totals keep first-seen order.
	require.Equal(t, "盐", rows[2].Name)
	require.Equal(t, "买菜", rows[3].Name)
	require.Equal(t, reg.Fallback(), rows[3].Category)
	require.Equal(t, "flour", rows[0].Category.ID)

	var sum float64
	for _, r := range rows {
		sum += r.Percent
	}
	require.InDelta(t, 100, sum, 0.0001)
	require.InDelta(t, 53.3333, rows[0].Percent, 0.001)

	require.Empty(t, CategoryBreakdown(txs[:0], ledger.Income, reg))
}

func TestCategoryBreakdownZeroTotal(t *testing.T) {
	t.Parallel()
	// Amounts are positive by construction; build a zero row by hand.
	zero := ledger.Transaction{ID: "z", Type: ledger.Income, CategoryName: "现金", Amount: decimal.Zero}
	rows := CategoryBreakdown([]ledger.Transaction{zero}, ledger.Income, ledger.DefaultRegistry())
	require.Len(t, rows, 1)
	require.Zero(t, rows[0].Percent)
}

func TestSortNewestFirst(t *testing.T) {
	t.Parallel()
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, shanghai)
	in := []ledger.Transaction{
		tx(t, "old", ledger.Expense, "1", "salt", at),
		tx(t, "new", ledger.Expense, "1", "salt", at.Add(time.Hour)),
		tx(t, "mid", ledger.Expense, "1", "salt", at.Add(time.Minute)),
	}
	out := SortNewestFirst(in)
	require.Equal(t, []string{"new", "mid", "old"}, []string{out[0].ID, out[1].ID, out[2].ID})
	require.Equal(t, "old", in[0].ID)
}

func TestCalendarGeometry(t *testing.T) {
	t.Parallel()
	require.Equal(t, 29, DaysInMonth(2024, time.February))
	require.Equal(t, 28, DaysInMonth(2023, time.February))
	require.Equal(t, 28, DaysInMonth(1900, time.February))
	require.Equal(t, 29, DaysInMonth(2000, time.February))
	require.Equal(t, 31, DaysInMonth(2024, time.December))

	// 1 May 2024 was a Wednesday.
	require.Equal(t, 3, FirstWeekday(2024, time.May))
	require.Equal(t, 0, FirstWeekday(2024, time.September))

	grid := CalendarGrid(time.Date(2024, 5, 20, 0, 0, 0, 0, shanghai))
	require.Len(t, grid, 5)
	require.Equal(t, [7]int{0, 0, 0, 1, 2, 3, 4}, grid[0])
	require.Equal(t, [7]int{26, 27, 28, 29, 30, 31, 0}, grid[4])

	// February 2015 starts on Sunday and fills exactly four rows.
	require.Len(t, CalendarGrid(time.Date(2015, 2, 1, 0, 0, 0, 0, time.UTC)), 4)
}

func TestAddMonths(t *testing.T) {
	t.Parallel()
	jan31 := time.Date(2024, 1, 31, 15, 0, 0, 0, shanghai)
	require.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, shanghai), AddMonths(jan31, 1))
	require.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, shanghai), AddMonths(jan31, -1))
}

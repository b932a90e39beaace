package report

import "time"

// DaysInMonth returns the number of days of month in year, leap years
// included.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday returns the weekday index (0=Sunday) of the month's first day.
func FirstWeekday(year int, month time.Month) int {
	return int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// CalendarGrid lays out ref's month as rows of 7 cells, Sunday first.
// Cells hold the day of month, 0 for leading and trailing blanks.
func CalendarGrid(ref time.Time) [][7]int {
	y, m := ref.Year(), ref.Month()
	lead := FirstWeekday(y, m)
	days := DaysInMonth(y, m)

	var rows [][7]int
	var row [7]int
	col := lead
	for d := 1; d <= days; d++ {
		row[col] = d
		col++
		if col == 7 {
			rows = append(rows, row)
			row = [7]int{}
			col = 0
		}
	}
	if col > 0 {
		rows = append(rows, row)
	}
	return rows
}

// MonthStart returns midnight on the first day of t's month in t's location.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// AddMonths moves a month anchor by n months, always landing on the 1st.
func AddMonths(t time.Time, n int) time.Time {
	return MonthStart(t).AddDate(0, n, 0)
}

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/shopspring/decimal"

	"github.com/jask/easybook/internal/ledger"
	"github.com/jask/easybook/internal/nav"
	"github.com/jask/easybook/internal/report"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	incomeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
	expenseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	todayStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f9e2af"))
	statusStyle   = lipgloss.NewStyle().Italic(true)
	helpKeyStyle  = lipgloss.NewStyle().Bold(true)
	helpDescStyle = mutedStyle
)

const (
	cellWidth = 9
	noteWidth = 16
)

var weekdayHeader = []string{"日", "一", "二", "三", "四", "五", "六"}

// padRight pads s with spaces so its visual width equals width.
func padRight(s string, width int) string {
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// truncate shortens s to width cells, appending "…" if truncated.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

func (a *App) money(d decimal.Decimal) string {
	return a.currency + ledger.FormatFull(d)
}

func (a *App) signed(t ledger.Transaction) string {
	s := t.Signed()
	if s.IsNegative() {
		return expenseStyle.Render("-" + a.money(s.Abs()))
	}
	return incomeStyle.Render("+" + a.money(s))
}

func (a *App) renderSummary(s report.Summary) string {
	return fmt.Sprintf("收入 %s   支出 %s   结余 %s",
		incomeStyle.Render(a.currency+ledger.FormatWhole(s.Income)),
		expenseStyle.Render(a.currency+ledger.FormatWhole(s.Expense)),
		a.currency+ledger.FormatWhole(s.Net))
}

func (a *App) renderHome() string {
	ref := a.ctrl.Ref()
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("乐龄记账 %d年%d月", ref.Year(), int(ref.Month()))))
	b.WriteString("\n")
	b.WriteString(a.renderSummary(a.ctrl.MonthSummary()))
	b.WriteString("\n\n")
	b.WriteString(a.renderCalendar())
	b.WriteString("\n")

	txs := a.ctrl.MonthTransactions()
	if len(txs) == 0 {
		b.WriteString(mutedStyle.Render("本月暂无记录"))
	} else {
		b.WriteString(a.renderList(txs, a.listFocus, "1/2 15:04"))
	}
	return b.String()
}

func (a *App) renderCalendar() string {
	ref := a.ctrl.Ref()
	today := a.ctrl.Today()
	totals := a.ctrl.DailyTotals()

	var b strings.Builder
	for _, h := range weekdayHeader {
		b.WriteString(padRight(h, cellWidth))
	}
	b.WriteString("\n")
	for _, week := range report.CalendarGrid(ref) {
		var days, incomes, expenses strings.Builder
		for _, d := range week {
			if d == 0 {
				for _, sb := range []*strings.Builder{&days, &incomes, &expenses} {
					sb.WriteString(strings.Repeat(" ", cellWidth))
				}
				continue
			}
			label := fmt.Sprintf("%2d", d)
			switch {
			case d == a.day && !a.listFocus:
				label = cursorStyle.Render(label)
			case today.Year() == ref.Year() && today.Month() == ref.Month() && today.Day() == d:
				label = todayStyle.Render(label)
			}
			days.WriteString(padRight(label, cellWidth))

			in, out := "", ""
			if t, ok := totals[d]; ok {
				if t.Income.IsPositive() {
					in = incomeStyle.Render(truncate("+"+ledger.FormatWhole(t.Income), cellWidth-1))
				}
				if t.Expense.IsPositive() {
					out = expenseStyle.Render(truncate("-"+ledger.FormatWhole(t.Expense), cellWidth-1))
				}
			}
			incomes.WriteString(padRight(in, cellWidth))
			expenses.WriteString(padRight(out, cellWidth))
		}
		b.WriteString(strings.TrimRight(days.String(), " ") + "\n")
		b.WriteString(strings.TrimRight(incomes.String(), " ") + "\n")
		b.WriteString(strings.TrimRight(expenses.String(), " ") + "\n")
	}
	return b.String()
}

func (a *App) renderList(txs []ledger.Transaction, focused bool, timeLayout string) string {
	reg := a.ctrl.Registry()
	loc := a.ctrl.Location()
	pending := a.ctrl.PendingDelete()

	var b strings.Builder
	for i, t := range txs {
		cat := reg.FindByID(t.CategoryID)
		line := fmt.Sprintf("%s %s  %s  %s  %s",
			cat.Icon,
			padRight(cat.Name, 6),
			padRight(truncate(t.Note, noteWidth), noteWidth),
			mutedStyle.Render(t.Time(loc).Format(timeLayout)),
			a.signed(t))
		if focused && i == a.cursor {
			line = "> " + line
		} else {
			line = "  " + line
		}
		if t.ID == pending {
			line += "  " + expenseStyle.Render("删除这条记录？[y/n]")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (a *App) renderDaily(s nav.DailyDetail) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d年%d月%d日", s.Day.Year(), int(s.Day.Month()), s.Day.Day())))
	b.WriteString("\n")
	txs := a.ctrl.DayTransactions()
	b.WriteString(a.renderSummary(report.Summarize(txs)))
	b.WriteString("\n\n")
	if len(txs) == 0 {
		b.WriteString(mutedStyle.Render("当天暂无记录，按 e / i 补记"))
		return b.String()
	}
	b.WriteString(a.renderList(txs, true, "15:04"))
	return b.String()
}

func (a *App) renderEntry(s nav.AddEntry) string {
	var b strings.Builder
	style := expenseStyle
	if s.Kind == ledger.Income {
		style = incomeStyle
	}
	b.WriteString(titleStyle.Render(s.Title()))
	b.WriteString("\n\n")
	b.WriteString(style.Render(a.currency + s.Amount.String()))
	b.WriteString("\n\n")

	for _, c := range a.ctrl.Registry().ForType(s.Kind) {
		cell := c.Icon + " " + c.Name
		if c.ID == s.Category.ID {
			cell = cursorStyle.Render(cell)
		}
		b.WriteString(cell + "  ")
	}
	b.WriteString("\n\n备注: ")
	if a.inputMode == inputNote {
		b.WriteString(a.input.View())
	} else if s.Note == "" {
		b.WriteString(mutedStyle.Render("(按 n 添加)"))
	} else {
		b.WriteString(s.Note)
	}
	return b.String()
}

func (a *App) renderReport() string {
	ref := a.ctrl.Ref()
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d年%d月 报表", ref.Year(), int(ref.Month()))))
	b.WriteString("\n")
	b.WriteString(a.renderSummary(a.ctrl.MonthSummary()))
	b.WriteString("\n")

	for _, kind := range []ledger.Type{ledger.Expense, ledger.Income} {
		b.WriteString("\n" + kind.Label() + "排行\n")
		rows := a.ctrl.Ranking(kind)
		if len(rows) == 0 {
			b.WriteString(mutedStyle.Render("  暂无数据") + "\n")
			continue
		}
		for i, r := range rows {
			b.WriteString(fmt.Sprintf("  %d. %s %s %s  %5.1f%%  (%d笔)\n",
				i+1, r.Category.Icon, padRight(r.Name, 6), a.money(r.Amount), r.Percent, r.Count))
		}
	}
	if a.inputMode == inputImportPath {
		b.WriteString("\n导入文件: " + a.input.View())
	}
	return b.String()
}

func (a *App) renderHelp(scope string) string {
	parts := make([]string, 0, 8)
	for _, kb := range a.keys.HelpBindings(scope) {
		h := kb.Help()
		parts = append(parts, helpKeyStyle.Render(h.Key)+" "+helpDescStyle.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}

func dayInMonth(ref time.Time, day int) int {
	n := report.DaysInMonth(ref.Year(), ref.Month())
	if day < 1 {
		return 1
	}
	if day > n {
		return n
	}
	return day
}

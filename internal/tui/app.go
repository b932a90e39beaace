package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/easybook/internal/ledger"
	"github.com/jask/easybook/internal/nav"
	"github.com/jask/easybook/internal/service"
)

// App renders a nav.Controller and maps keys onto its actions.
type App struct {
	ctx      context.Context
	ctrl     *nav.Controller
	keys     *KeyRegistry
	currency string

	day       int // calendar cursor, day of the reference month
	listFocus bool
	cursor    int

	inputMode inputMode
	input     textinput.Model

	width  int
	status string
}

type inputMode string

const (
	inputNone       inputMode = ""
	inputNote       inputMode = "note"
	inputImportPath inputMode = "importPath"
)

type fileReadMsg struct {
	path string
	data []byte
	err  error
}

func New(ctx context.Context, ctrl *nav.Controller, currency string) *App {
	ti := textinput.New()
	ti.CharLimit = 256
	return &App{
		ctx:      ctx,
		ctrl:     ctrl,
		keys:     NewKeyRegistry(),
		currency: currency,
		day:      ctrl.Today().Day(),
		input:    ti,
	}
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = m.Width
	case fileReadMsg:
		a.finishImport(m)
	case tea.KeyMsg:
		return a.handleKey(m)
	}
	return a, nil
}

func (a *App) scope() string {
	if a.inputMode != inputNone {
		return scopeTextInput
	}
	if a.ctrl.PendingDelete() != "" {
		return scopeConfirmDelete
	}
	switch a.ctrl.State().(type) {
	case nav.DailyDetail:
		return scopeDaily
	case nav.AddEntry:
		return scopeEntry
	case nav.Report:
		return scopeReport
	}
	if a.listFocus {
		return scopeHomeList
	}
	return scopeHome
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	scope := a.scope()
	b := a.keys.Lookup(m.String(), scope)

	if scope == scopeTextInput {
		switch {
		case b == nil:
			var cmd tea.Cmd
			a.input, cmd = a.input.Update(m)
			return a, cmd
		case b.Action == actionQuit:
			return a, tea.Quit
		}
		return a.handleInputAction(b.Action)
	}

	if scope == scopeEntry && b == nil {
		if r := m.Runes; len(r) == 1 && (r[0] == '.' || (r[0] >= '0' && r[0] <= '9')) {
			_ = a.ctrl.PressKey(r[0])
		}
		return a, nil
	}
	if b == nil {
		return a, nil
	}
	if b.Action == actionQuit {
		return a, tea.Quit
	}
	a.status = ""

	switch scope {
	case scopeConfirmDelete:
		a.handleDeleteAction(b.Action)
	case scopeHome:
		a.handleHomeAction(b.Action)
	case scopeHomeList:
		a.handleListAction(b.Action, a.ctrl.MonthTransactions())
	case scopeDaily:
		a.handleDailyAction(b.Action)
	case scopeEntry:
		a.handleEntryAction(b.Action)
	case scopeReport:
		return a, a.handleReportAction(b.Action)
	}
	return a, nil
}

func (a *App) handleHomeAction(act Action) {
	ref := a.ctrl.Ref()
	switch act {
	case actionLeft:
		a.day = dayInMonth(ref, a.day-1)
	case actionRight:
		a.day = dayInMonth(ref, a.day+1)
	case actionUp:
		a.day = dayInMonth(ref, a.day-7)
	case actionDown:
		a.day = dayInMonth(ref, a.day+7)
	case actionPrevMonth, actionNextMonth:
		a.shiftMonth(act)
	case actionOpenDay:
		// Terminals report no hold duration; enter counts as a full long press.
		if _, err := a.ctrl.PressDay(a.day, a.ctrl.LongPress()); err != nil {
			a.status = err.Error()
		}
		a.cursor = 0
	case actionAddExpense:
		a.startEntry(ledger.Expense)
	case actionAddIncome:
		a.startEntry(ledger.Income)
	case actionReport:
		_ = a.ctrl.OpenReport()
	case actionFocus:
		if len(a.ctrl.MonthTransactions()) > 0 {
			a.listFocus = true
			a.cursor = 0
		}
	}
}

func (a *App) handleListAction(act Action, txs []ledger.Transaction) {
	switch act {
	case actionUp:
		if a.cursor > 0 {
			a.cursor--
		}
	case actionDown:
		if a.cursor < len(txs)-1 {
			a.cursor++
		}
	case actionDelete:
		if a.cursor < len(txs) {
			_ = a.ctrl.RequestDelete(txs[a.cursor].ID)
		}
	case actionFocus:
		a.listFocus = false
	}
}

func (a *App) handleDailyAction(act Action) {
	switch act {
	case actionAddExpense:
		a.startEntry(ledger.Expense)
	case actionAddIncome:
		a.startEntry(ledger.Income)
	case actionBack:
		_ = a.ctrl.Back()
		a.cursor = 0
	default:
		a.handleListAction(act, a.ctrl.DayTransactions())
	}
}

func (a *App) handleDeleteAction(act Action) {
	switch act {
	case actionConfirm:
		if err := a.ctrl.ConfirmDelete(a.ctx); err != nil {
			a.status = "保存失败: " + err.Error()
		}
		a.clampCursor()
	case actionCancel:
		a.ctrl.CancelDelete()
	}
}

func (a *App) handleEntryAction(act Action) {
	e, ok := a.ctrl.State().(nav.AddEntry)
	if !ok {
		return
	}
	switch act {
	case actionLeft, actionRight:
		cats := a.ctrl.Registry().ForType(e.Kind)
		idx := 0
		for i, c := range cats {
			if c.ID == e.Category.ID {
				idx = i
			}
		}
		if act == actionLeft {
			idx = (idx - 1 + len(cats)) % len(cats)
		} else {
			idx = (idx + 1) % len(cats)
		}
		_ = a.ctrl.SelectCategory(cats[idx].ID)
	case actionBackspace:
		_ = a.ctrl.Backspace()
	case actionClear:
		_ = a.ctrl.ClearAmount()
	case actionNote:
		a.openInput(inputNote, e.Note, "备注")
	case actionConfirm:
		_, err := a.ctrl.Confirm(a.ctx)
		switch {
		case errors.Is(err, ledger.ErrInvalidAmount):
			return
		case err != nil:
			a.status = "保存失败: " + err.Error()
		}
		if _, home := a.ctrl.State().(nav.Home); home {
			a.day = a.ctrl.Today().Day()
		}
		a.cursor = 0
	case actionBack:
		_ = a.ctrl.Back()
	}
}

func (a *App) handleReportAction(act Action) tea.Cmd {
	switch act {
	case actionPrevMonth, actionNextMonth:
		a.shiftMonth(act)
	case actionExportMonth:
		path, err := a.ctrl.ExportMonth(a.ctx)
		a.reportExport(path, err)
	case actionExportAll:
		path, err := a.ctrl.ExportAll(a.ctx)
		a.reportExport(path, err)
	case actionImport:
		a.openInput(inputImportPath, "", "账单.csv")
	case actionBack:
		_ = a.ctrl.Back()
	}
	return nil
}

func (a *App) handleInputAction(act Action) (tea.Model, tea.Cmd) {
	mode, value := a.inputMode, strings.TrimSpace(a.input.Value())
	a.inputMode = inputNone
	a.input.Blur()
	if act != actionSubmit {
		return a, nil
	}
	switch mode {
	case inputNote:
		_ = a.ctrl.SetNote(value)
	case inputImportPath:
		if value == "" {
			return a, nil
		}
		a.status = "导入中..."
		return a, readFileCmd(value)
	}
	return a, nil
}

func (a *App) openInput(mode inputMode, value, placeholder string) {
	a.inputMode = mode
	a.input.SetValue(value)
	a.input.Placeholder = placeholder
	a.input.CursorEnd()
	a.input.Focus()
}

// readFileCmd reads the import file off the event loop; parsing and the
// store write happen back in Update.
func readFileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		return fileReadMsg{path: path, data: data, err: err}
	}
}

func (a *App) finishImport(m fileReadMsg) {
	if m.err != nil {
		a.status = fmt.Sprintf("无法读取文件 %s: %v", m.path, m.err)
		return
	}
	res, err := a.ctrl.Import(a.ctx, bytes.NewReader(m.data))
	switch {
	case errors.Is(err, nav.ErrInvalidTransition):
		a.status = err.Error()
	case err == nil || errors.Is(err, service.ErrNothingImported):
		a.status = res.Message()
	default:
		a.status = fmt.Sprintf("%s (保存失败: %v)", res.Message(), err)
	}
}

func (a *App) reportExport(path string, err error) {
	if err != nil {
		a.status = "导出失败: " + err.Error()
		return
	}
	a.status = "已导出 " + path
}

func (a *App) shiftMonth(act Action) {
	var err error
	if act == actionPrevMonth {
		err = a.ctrl.PrevMonth()
	} else {
		err = a.ctrl.NextMonth()
	}
	if err == nil {
		a.day = dayInMonth(a.ctrl.Ref(), a.day)
		a.listFocus = false
	}
}

func (a *App) startEntry(kind ledger.Type) {
	if err := a.ctrl.StartEntry(kind); err != nil {
		a.status = err.Error()
	}
	a.listFocus = false
}

func (a *App) clampCursor() {
	var n int
	if _, ok := a.ctrl.State().(nav.DailyDetail); ok {
		n = len(a.ctrl.DayTransactions())
	} else {
		n = len(a.ctrl.MonthTransactions())
	}
	if a.cursor >= n {
		a.cursor = max(n-1, 0)
	}
	if n == 0 {
		a.listFocus = false
	}
}

func (a *App) View() string {
	var body string
	switch s := a.ctrl.State().(type) {
	case nav.DailyDetail:
		body = a.renderDaily(s)
	case nav.AddEntry:
		body = a.renderEntry(s)
	case nav.Report:
		body = a.renderReport()
	default:
		body = a.renderHome()
	}
	if a.status != "" {
		body += "\n" + statusStyle.Render(a.status)
	}
	body += "\n\n" + a.renderHelp(a.scope())
	if a.width <= 0 {
		return body
	}
	lines := strings.Split(body, "\n")
	for i, l := range lines {
		lines[i] = truncate(l, a.width)
	}
	return strings.Join(lines, "\n")
}

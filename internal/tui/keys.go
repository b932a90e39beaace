package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type Action string

type Binding struct {
	Action Action
	Keys   []string
	Help   string
	Scopes []string
}

// KeyRegistry resolves key names to actions per scope. Scopes are the nav
// state names plus the modal inputs; global bindings apply everywhere.
type KeyRegistry struct {
	bindingsByScope map[string][]*Binding
	indexByScope    map[string]map[string]*Binding
}

const (
	scopeGlobal        = "global"
	scopeHome          = "home"
	scopeHomeList      = "home_list"
	scopeDaily         = "daily"
	scopeEntry         = "entry"
	scopeReport        = "report"
	scopeConfirmDelete = "confirm_delete"
	scopeTextInput     = "text_input"
)

const (
	actionQuit        Action = "quit"
	actionBack        Action = "back"
	actionLeft        Action = "left"
	actionRight       Action = "right"
	actionUp          Action = "up"
	actionDown        Action = "down"
	actionPrevMonth   Action = "prev_month"
	actionNextMonth   Action = "next_month"
	actionOpenDay     Action = "open_day"
	actionAddIncome   Action = "add_income"
	actionAddExpense  Action = "add_expense"
	actionReport      Action = "report"
	actionFocus       Action = "focus"
	actionDelete      Action = "delete"
	actionConfirm     Action = "confirm"
	actionCancel      Action = "cancel"
	actionBackspace   Action = "backspace"
	actionClear       Action = "clear"
	actionNote        Action = "note"
	actionExportMonth Action = "export_month"
	actionExportAll   Action = "export_all"
	actionImport      Action = "import"
	actionSubmit      Action = "submit"
)

func NewKeyRegistry() *KeyRegistry {
	r := &KeyRegistry{
		bindingsByScope: make(map[string][]*Binding),
		indexByScope:    make(map[string]map[string]*Binding),
	}
	reg := func(scope string, action Action, keys []string, help string) {
		r.Register(Binding{Action: action, Keys: keys, Help: help, Scopes: []string{scope}})
	}

	reg(scopeGlobal, actionQuit, []string{"ctrl+c"}, "quit")

	reg(scopeHome, actionLeft, []string{"h", "left"}, "day")
	reg(scopeHome, actionRight, []string{"l", "right"}, "day")
	reg(scopeHome, actionUp, []string{"k", "up"}, "week")
	reg(scopeHome, actionDown, []string{"j", "down"}, "week")
	reg(scopeHome, actionOpenDay, []string{"enter"}, "open day")
	reg(scopeHome, actionPrevMonth, []string{"["}, "prev month")
	reg(scopeHome, actionNextMonth, []string{"]"}, "next month")
	reg(scopeHome, actionAddExpense, []string{"e"}, "expense")
	reg(scopeHome, actionAddIncome, []string{"i"}, "income")
	reg(scopeHome, actionReport, []string{"r"}, "report")
	reg(scopeHome, actionFocus, []string{"tab"}, "list")
	reg(scopeHome, actionQuit, []string{"q"}, "quit")

	reg(scopeHomeList, actionUp, []string{"k", "up"}, "up")
	reg(scopeHomeList, actionDown, []string{"j", "down"}, "down")
	reg(scopeHomeList, actionDelete, []string{"x", "delete"}, "delete")
	reg(scopeHomeList, actionFocus, []string{"tab", "esc"}, "calendar")
	reg(scopeHomeList, actionQuit, []string{"q"}, "quit")

	reg(scopeDaily, actionUp, []string{"k", "up"}, "up")
	reg(scopeDaily, actionDown, []string{"j", "down"}, "down")
	reg(scopeDaily, actionDelete, []string{"x", "delete"}, "delete")
	reg(scopeDaily, actionAddExpense, []string{"e"}, "expense")
	reg(scopeDaily, actionAddIncome, []string{"i"}, "income")
	reg(scopeDaily, actionBack, []string{"esc", "q"}, "back")

	reg(scopeEntry, actionLeft, []string{"left"}, "category")
	reg(scopeEntry, actionRight, []string{"right", "tab"}, "category")
	reg(scopeEntry, actionBackspace, []string{"backspace"}, "delete digit")
	reg(scopeEntry, actionClear, []string{"c"}, "clear")
	reg(scopeEntry, actionNote, []string{"n"}, "note")
	reg(scopeEntry, actionConfirm, []string{"enter"}, "save")
	reg(scopeEntry, actionBack, []string{"esc"}, "cancel")

	reg(scopeReport, actionPrevMonth, []string{"["}, "prev month")
	reg(scopeReport, actionNextMonth, []string{"]"}, "next month")
	reg(scopeReport, actionExportMonth, []string{"m"}, "export month")
	reg(scopeReport, actionExportAll, []string{"a"}, "export all")
	reg(scopeReport, actionImport, []string{"i"}, "import")
	reg(scopeReport, actionBack, []string{"esc", "q"}, "back")

	reg(scopeConfirmDelete, actionConfirm, []string{"y", "enter"}, "delete")
	reg(scopeConfirmDelete, actionCancel, []string{"n", "esc"}, "cancel")

	reg(scopeTextInput, actionSubmit, []string{"enter"}, "ok")
	reg(scopeTextInput, actionCancel, []string{"esc"}, "cancel")

	return r
}

func (r *KeyRegistry) Register(b Binding) {
	if r == nil || len(b.Keys) == 0 {
		return
	}
	for _, scope := range b.Scopes {
		scope = strings.TrimSpace(scope)
		if scope == "" {
			continue
		}
		if _, ok := r.indexByScope[scope]; !ok {
			r.indexByScope[scope] = make(map[string]*Binding)
		}
		normKeys := normalizeKeyList(b.Keys)
		if len(normKeys) == 0 || r.scopeHasAnyKey(scope, normKeys) {
			continue
		}
		copyBinding := b
		copyBinding.Keys = normKeys
		copyBinding.Scopes = []string{scope}
		r.bindingsByScope[scope] = append(r.bindingsByScope[scope], &copyBinding)
		for _, k := range copyBinding.Keys {
			r.indexByScope[scope][k] = &copyBinding
		}
	}
}

// Lookup finds the binding for keyName in scope, then in the global scope.
func (r *KeyRegistry) Lookup(keyName, scope string) *Binding {
	if r == nil || keyName == "" {
		return nil
	}
	keyName = normalizeKeyName(keyName)
	if b := r.indexByScope[scope][keyName]; b != nil {
		return b
	}
	return r.indexByScope[scopeGlobal][keyName]
}

// HelpBindings renders a scope's bindings for the footer.
func (r *KeyRegistry) HelpBindings(scope string) []key.Binding {
	items := r.bindingsByScope[scope]
	out := make([]key.Binding, 0, len(items))
	for _, b := range items {
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Help)))
	}
	return out
}

func (r *KeyRegistry) scopeHasAnyKey(scope string, keys []string) bool {
	lookup := r.indexByScope[scope]
	for _, k := range keys {
		if _, exists := lookup[k]; exists {
			return true
		}
	}
	return false
}

func normalizeKeyList(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool)
	for _, k := range keys {
		n := normalizeKeyName(k)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func normalizeKeyName(k string) string {
	if k == " " {
		return "space"
	}
	s := strings.ToLower(strings.TrimSpace(k))
	s = strings.ReplaceAll(s, "control+", "ctrl+")
	s = strings.ReplaceAll(s, "return", "enter")
	return s
}

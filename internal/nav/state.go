// Package nav is the screen state machine. Each state carries only the
// context its screen needs; the Controller owns transitions and routes
// mutations to the store.
package nav

import (
	"fmt"
	"time"

	"github.com/jask/easybook/internal/ledger"
)

// State is one of Home, DailyDetail, AddEntry or Report.
type State interface {
	Name() string
	isState()
}

// Home shows the calendar and the reference month's list.
type Home struct{}

// DailyDetail lists one calendar day. Day is midnight in the display zone.
type DailyDetail struct {
	Day time.Time
}

// AddEntry is the amount keypad and category picker. Origin is the state
// to return to, either Home or DailyDetail.
type AddEntry struct {
	Origin   State
	Kind     ledger.Type
	Category ledger.Category
	Amount   ledger.AmountInput
	Note     string
}

// Report shows the reference month's summary and category rankings.
type Report struct{}

func (Home) Name() string        { return "home" }
func (DailyDetail) Name() string { return "daily" }
func (AddEntry) Name() string    { return "entry" }
func (Report) Name() string      { return "report" }

func (Home) isState()        {}
func (DailyDetail) isState() {}
func (AddEntry) isState()    {}
func (Report) isState()      {}

// Backdate reports the target day when the entry was started from a day
// view.
func (a AddEntry) Backdate() (time.Time, bool) {
	if d, ok := a.Origin.(DailyDetail); ok {
		return d.Day, true
	}
	return time.Time{}, false
}

// Title is the entry screen heading, prefixed with M月D日 when backdating.
func (a AddEntry) Title() string {
	title := "记" + a.Kind.Label()
	if day, ok := a.Backdate(); ok {
		return fmt.Sprintf("%d月%d日 %s", int(day.Month()), day.Day(), title)
	}
	return title
}

package nav

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jask/easybook/internal/ledger"
	"github.com/jask/easybook/internal/logging"
	"github.com/jask/easybook/internal/report"
	"github.com/jask/easybook/internal/service"
	"github.com/jask/easybook/internal/store"
)

// ErrInvalidTransition is returned when an action is not available in the
// current state. The state is left unchanged.
var ErrInvalidTransition = errors.New("action not available here")

// DefaultLongPress is the hold time that opens a day view.
const DefaultLongPress = 600 * time.Millisecond

// Options wires a Controller. Store and Registry are required.
type Options struct {
	Store     *store.Store
	Registry  *ledger.Registry
	Location  *time.Location
	Now       func() time.Time
	LongPress time.Duration
	Importer  *service.ImportService
	Exporter  *service.ExportService
	Logger    *log.Logger
}

// Controller drives the screens. It is not safe for concurrent use; the
// UI event loop is its only caller.
type Controller struct {
	store     *store.Store
	reg       *ledger.Registry
	loc       *time.Location
	now       func() time.Time
	longPress time.Duration
	importer  *service.ImportService
	exporter  *service.ExportService
	logger    *log.Logger

	state         State
	ref           time.Time
	pendingDelete string
}

// New starts in Home with the reference month set to the current month.
func New(opts Options) *Controller {
	c := &Controller{
		store:     opts.Store,
		reg:       opts.Registry,
		loc:       opts.Location,
		now:       opts.Now,
		longPress: opts.LongPress,
		importer:  opts.Importer,
		exporter:  opts.Exporter,
		logger:    opts.Logger,
		state:     Home{},
	}
	if c.reg == nil {
		c.reg = ledger.DefaultRegistry()
	}
	if c.loc == nil {
		c.loc = time.Local
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.longPress <= 0 {
		c.longPress = DefaultLongPress
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	c.ref = report.MonthStart(c.clock())
	return c
}

func (c *Controller) clock() time.Time { return c.now().In(c.loc) }

// State returns the current screen.
func (c *Controller) State() State { return c.state }

// Ref returns the first day of the reference month.
func (c *Controller) Ref() time.Time { return c.ref }

// Registry exposes the category table for rendering.
func (c *Controller) Registry() *ledger.Registry { return c.reg }

// Location is the display time zone.
func (c *Controller) Location() *time.Location { return c.loc }

// LongPress is the hold time PressDay requires.
func (c *Controller) LongPress() time.Duration { return c.longPress }

// Today returns the current instant in the display zone.
func (c *Controller) Today() time.Time { return c.clock() }

// PendingDelete returns the id awaiting confirmation, or "".
func (c *Controller) PendingDelete() string { return c.pendingDelete }

func (c *Controller) invalid(action string) error {
	return fmt.Errorf("%s from %s: %w", action, c.state.Name(), ErrInvalidTransition)
}

// OpenReport moves Home to Report.
func (c *Controller) OpenReport() error {
	if _, ok := c.state.(Home); !ok {
		return c.invalid("open report")
	}
	c.pendingDelete = ""
	c.state = Report{}
	return nil
}

// StartEntry opens the entry screen for kind. From Home the entry is dated
// now; from a day view it is backdated to that day.
func (c *Controller) StartEntry(kind ledger.Type) error {
	if !kind.Valid() {
		return fmt.Errorf("start entry: %w: %q", ledger.ErrUnknownType, kind)
	}
	switch c.state.(type) {
	case Home, DailyDetail:
	default:
		return c.invalid("start entry")
	}
	c.pendingDelete = ""
	c.state = AddEntry{
		Origin:   c.state,
		Kind:     kind,
		Category: c.reg.DefaultFor(kind),
	}
	return nil
}

// PressDay handles a press on day of the reference month held for held.
// Only a long press opens the day view; it reports whether it did.
func (c *Controller) PressDay(day int, held time.Duration) (bool, error) {
	if _, ok := c.state.(Home); !ok {
		return false, c.invalid("press day")
	}
	if day < 1 || day > report.DaysInMonth(c.ref.Year(), c.ref.Month()) {
		return false, fmt.Errorf("press day: day %d outside %s", day, c.ref.Format("2006-01"))
	}
	if held < c.longPress {
		return false, nil
	}
	c.pendingDelete = ""
	c.state = DailyDetail{Day: time.Date(c.ref.Year(), c.ref.Month(), day, 0, 0, 0, 0, c.loc)}
	return true, nil
}

// Back returns to the previous screen. Home has nowhere to go back to.
func (c *Controller) Back() error {
	switch s := c.state.(type) {
	case DailyDetail, Report:
		c.state = Home{}
	case AddEntry:
		c.state = s.Origin
	default:
		return c.invalid("back")
	}
	c.pendingDelete = ""
	return nil
}

// PrevMonth and NextMonth move the reference month on Home and Report.
func (c *Controller) PrevMonth() error { return c.shiftMonth(-1) }

func (c *Controller) NextMonth() error { return c.shiftMonth(1) }

func (c *Controller) shiftMonth(n int) error {
	switch c.state.(type) {
	case Home, Report:
	default:
		return c.invalid("change month")
	}
	c.ref = report.AddMonths(c.ref, n)
	return nil
}

func (c *Controller) entry(action string) (AddEntry, error) {
	e, ok := c.state.(AddEntry)
	if !ok {
		return AddEntry{}, c.invalid(action)
	}
	return e, nil
}

// SelectCategory picks a category of the entry's type.
func (c *Controller) SelectCategory(id string) error {
	e, err := c.entry("select category")
	if err != nil {
		return err
	}
	cat, ok := c.reg.Lookup(id)
	if !ok || cat.Type != e.Kind {
		return fmt.Errorf("select category: %q is not a %s category", id, e.Kind)
	}
	e.Category = cat
	c.state = e
	return nil
}

// PressKey feeds one keypad key to the amount buffer.
func (c *Controller) PressKey(key rune) error {
	e, err := c.entry("keypad")
	if err != nil {
		return err
	}
	e.Amount.Press(key)
	c.state = e
	return nil
}

// Backspace removes the last amount character.
func (c *Controller) Backspace() error {
	e, err := c.entry("backspace")
	if err != nil {
		return err
	}
	e.Amount.Backspace()
	c.state = e
	return nil
}

// ClearAmount resets the amount to 0.
func (c *Controller) ClearAmount() error {
	e, err := c.entry("clear")
	if err != nil {
		return err
	}
	e.Amount.Clear()
	c.state = e
	return nil
}

// SetNote replaces the entry note.
func (c *Controller) SetNote(note string) error {
	e, err := c.entry("set note")
	if err != nil {
		return err
	}
	e.Note = note
	c.state = e
	return nil
}

// Confirm records the entry and returns to its origin. A non-positive
// amount is rejected with ledger.ErrInvalidAmount and nothing changes.
// Returning to Home also resets the reference month to the current one.
// If only the persistence write fails the transaction stays recorded, the
// screen still changes and the write error is returned.
func (c *Controller) Confirm(ctx context.Context) (ledger.Transaction, error) {
	e, err := c.entry("confirm")
	if err != nil {
		return ledger.Transaction{}, err
	}
	amount, err := e.Amount.Value()
	if err != nil {
		return ledger.Transaction{}, err
	}

	now := c.clock()
	at := now
	day, backdated := e.Backdate()
	if backdated {
		at = time.Date(day.Year(), day.Month(), day.Day(), now.Hour(), now.Minute(), now.Second(), 0, c.loc)
	}
	tx, err := ledger.New(ledger.NewID(now), e.Kind, amount, e.Category, e.Note, at)
	if err != nil {
		return ledger.Transaction{}, err
	}

	saveErr := c.store.Add(ctx, tx)
	c.state = e.Origin
	if _, ok := e.Origin.(Home); ok {
		c.ref = report.MonthStart(now)
	}
	c.logger.Debug("entry recorded", "id", tx.ID, "type", tx.Type, "backdated", backdated)
	return tx, saveErr
}

// RequestDelete marks id for deletion from a list view.
func (c *Controller) RequestDelete(id string) error {
	switch c.state.(type) {
	case Home, DailyDetail:
	default:
		return c.invalid("delete")
	}
	c.pendingDelete = id
	return nil
}

// ConfirmDelete removes the pending transaction. With nothing pending it
// does nothing.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	id := c.pendingDelete
	if id == "" {
		return nil
	}
	c.pendingDelete = ""
	return c.store.Remove(ctx, id)
}

// CancelDelete clears the pending id without touching the store.
func (c *Controller) CancelDelete() {
	c.pendingDelete = ""
}

// MonthTransactions lists the reference month newest first.
func (c *Controller) MonthTransactions() []ledger.Transaction {
	return report.SortNewestFirst(report.MonthFilter(c.store.All(), c.ref))
}

// MonthSummary totals the reference month.
func (c *Controller) MonthSummary() report.Summary {
	return report.Summarize(report.MonthFilter(c.store.All(), c.ref))
}

// DailyTotals annotates the reference month's calendar cells.
func (c *Controller) DailyTotals() map[int]report.DayTotals {
	return report.DailyBreakdown(report.MonthFilter(c.store.All(), c.ref), c.loc)
}

// DayTransactions lists the open day newest first. Outside DailyDetail it
// returns nil.
func (c *Controller) DayTransactions() []ledger.Transaction {
	d, ok := c.state.(DailyDetail)
	if !ok {
		return nil
	}
	return report.SortNewestFirst(report.DayFilter(c.store.All(), d.Day))
}

// Ranking is the reference month's category breakdown for kind.
func (c *Controller) Ranking(kind ledger.Type) []report.CategoryTotal {
	return report.CategoryBreakdown(report.MonthFilter(c.store.All(), c.ref), kind, c.reg)
}

// Import appends a CSV file from the Report screen.
func (c *Controller) Import(ctx context.Context, r io.Reader) (service.ImportResult, error) {
	if _, ok := c.state.(Report); !ok {
		return service.ImportResult{}, c.invalid("import")
	}
	if c.importer == nil {
		return service.ImportResult{}, errors.New("import not configured")
	}
	return c.importer.Import(ctx, r)
}

// ExportMonth writes the reference month from the Report screen.
func (c *Controller) ExportMonth(ctx context.Context) (string, error) {
	if _, ok := c.state.(Report); !ok {
		return "", c.invalid("export")
	}
	if c.exporter == nil {
		return "", errors.New("export not configured")
	}
	return c.exporter.ExportMonth(ctx, c.ref)
}

// ExportAll writes every transaction from the Report screen.
func (c *Controller) ExportAll(ctx context.Context) (string, error) {
	if _, ok := c.state.(Report); !ok {
		return "", c.invalid("export")
	}
	if c.exporter == nil {
		return "", errors.New("export not configured")
	}
	return c.exporter.ExportAll(ctx)
}

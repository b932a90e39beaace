package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jask/easybook/internal/ledger"
	"github.com/jask/easybook/internal/report"
	"github.com/jask/easybook/internal/store"
)

const (
	csvHeader = "日期,类型,分类,金额,备注"
	utf8BOM   = "\uFEFF"
	// exportDateLayout is the zh-CN short date form, e.g. 2024/5/20.
	exportDateLayout = "2006/1/2"
)

// EncodeCSV renders txs in the given order. Commas in notes become spaces
// since fields are never quoted.
func EncodeCSV(txs []ledger.Transaction, loc *time.Location) string {
	rows := make([]string, 0, len(txs)+1)
	rows = append(rows, csvHeader)
	for _, t := range txs {
		rows = append(rows, strings.Join([]string{
			t.Time(loc).Format(exportDateLayout),
			t.Type.Label(),
			t.CategoryName,
			t.Amount.String(),
			strings.ReplaceAll(t.Note, ",", " "),
		}, ","))
	}
	return utf8BOM + strings.Join(rows, "\n")
}

// MonthFileName names a single-month export, e.g. 乐龄记账_2024年5月.csv.
func MonthFileName(label string, ref time.Time) string {
	return fmt.Sprintf("%s_%d年%d月.csv", label, ref.Year(), int(ref.Month()))
}

// AllFileName names a full export stamped with today's date.
func AllFileName(label string, now time.Time) string {
	return fmt.Sprintf("%s_全部账单_%s.csv", label, now.Format(time.DateOnly))
}

// ExportService writes CSV snapshots of the store into Dir.
type ExportService struct {
	Store    *store.Store
	Dir      string
	Label    string
	Location *time.Location
	Now      func() time.Time
	Logger   *log.Logger
}

// ExportMonth writes the transactions of ref's month in store order and
// returns the file path.
func (s *ExportService) ExportMonth(ctx context.Context, ref time.Time) (string, error) {
	ref = ref.In(s.loc())
	txs := report.MonthFilter(s.Store.All(), ref)
	return s.write(ctx, MonthFileName(s.Label, ref), txs)
}

// ExportAll writes every transaction, newest first.
func (s *ExportService) ExportAll(ctx context.Context) (string, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	txs := report.SortNewestFirst(s.Store.All())
	return s.write(ctx, AllFileName(s.Label, now().In(s.loc())), txs)
}

func (s *ExportService) write(ctx context.Context, name string, txs []ledger.Transaction) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(EncodeCSV(txs, s.loc())), 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	if s.Logger != nil {
		s.Logger.Info("export written", "path", path, "rows", len(txs))
	}
	return path, nil
}

func (s *ExportService) loc() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}

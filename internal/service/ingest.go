package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jask/easybook/internal/ledger"
	"github.com/jask/easybook/internal/logging"
	"github.com/jask/easybook/internal/store"
)

// ErrNothingImported means no line of the file produced a transaction.
var ErrNothingImported = errors.New("no valid transactions found")

// LineError records why one input line was skipped. Line is 1-based in
// the original file.
type LineError struct {
	Line   int
	Reason string
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// ImportResult summarizes a parse. Failed counts every skipped data line.
type ImportResult struct {
	Succeeded    int
	Failed       int
	Errors       []LineError
	Transactions []ledger.Transaction
}

// Message is the end-of-import summary shown to the user.
func (r ImportResult) Message() string {
	if r.Succeeded == 0 {
		return "导入失败。没有找到有效的账单记录。请检查文件格式。"
	}
	return fmt.Sprintf("导入成功！成功: %d 条 失败/跳过: %d 条", r.Succeeded, r.Failed)
}

var importDateLayouts = []string{
	"2006-1-2",
	"2006-1-2 15:04",
	"2006-1-2 15:04:05",
	"2006-1-2T15:04",
	"2006-1-2T15:04:05",
	time.RFC3339Nano,
}

// leadingNumber is the numeric prefix of an amount cell, so "52.5元"
// reads as 52.5.
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)`)

// Parser turns CSV text into transactions. Columns are date, type,
// category, amount and an optional note. Fields are split on bare commas;
// quoting is not recognized.
type Parser struct {
	Resolver CategoryResolver
	Location *time.Location
	Now      func() time.Time
}

// Parse reads every line of text. Per-line problems are collected in the
// result and never stop the parse.
func (p Parser) Parse(text string) ImportResult {
	loc := p.Location
	if loc == nil {
		loc = time.Local
	}
	now := p.Now
	if now == nil {
		now = time.Now
	}

	var res ImportResult
	first := true
	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if first {
			first = false
			if strings.Contains(line, "日期") || strings.Contains(line, "Date") {
				continue
			}
		}
		tx, err := p.parseLine(line, loc, now())
		if err != nil {
			res.Failed++
			res.Errors = append(res.Errors, LineError{Line: i + 1, Reason: err.Error()})
			continue
		}
		res.Succeeded++
		res.Transactions = append(res.Transactions, tx)
	}
	return res
}

func (p Parser) parseLine(line string, loc *time.Location, now time.Time) (ledger.Transaction, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 4 {
		return ledger.Transaction{}, fmt.Errorf("expected at least 4 fields, got %d", len(parts))
	}

	at, err := parseImportDate(parts[0], loc)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("date %q: %w", strings.TrimSpace(parts[0]), err)
	}

	var kind ledger.Type
	switch token := parts[1]; {
	case strings.Contains(token, ledger.Expense.Label()):
		kind = ledger.Expense
	case strings.Contains(token, ledger.Income.Label()):
		kind = ledger.Income
	default:
		return ledger.Transaction{}, fmt.Errorf("unknown type %q", strings.TrimSpace(token))
	}

	amountText := strings.TrimSpace(parts[3])
	amount, err := decimal.NewFromString(leadingNumber.FindString(amountText))
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("amount %q: %w", amountText, err)
	}
	amount = amount.Abs()

	cat := p.Resolver.Resolve(parts[2], kind)
	note := ""
	if len(parts) > 4 {
		note = strings.TrimSpace(parts[4])
	}
	return ledger.New(ledger.NewImportID(now), kind, amount, cat, note, at)
}

func parseImportDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "/", "-")
	var firstErr error
	for _, layout := range importDateLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// DecodeText reads r fully, dropping a leading byte-order mark.
func DecodeText(r io.Reader) (string, error) {
	data, err := io.ReadAll(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ImportService parses CSV files and appends the result to the store.
type ImportService struct {
	Store  *store.Store
	Parser Parser
	Logger *log.Logger
}

// Import reads r and appends every parsed transaction in one write. When no
// line parses, nothing is appended and ErrNothingImported is returned
// alongside the result.
func (s *ImportService) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	text, err := DecodeText(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("read import file: %w", err)
	}
	res := s.Parser.Parse(text)
	if res.Succeeded == 0 {
		s.logf().Warn("import found nothing", "failed", res.Failed)
		return res, ErrNothingImported
	}
	if err := s.Store.AddMany(ctx, res.Transactions); err != nil {
		return res, err
	}
	s.logf().Info("import complete", "succeeded", res.Succeeded, "failed", res.Failed)
	return res, nil
}

func (s *ImportService) logf() *log.Logger {
	if s.Logger == nil {
		return logging.Discard()
	}
	return s.Logger
}

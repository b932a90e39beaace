package store

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jask/easybook/internal/config"
	"github.com/jask/easybook/internal/ledger"
)

var quiet = log.New(io.Discard)

func sampleTx(t *testing.T, id string, kind ledger.Type, amount string, at time.Time) ledger.Transaction {
	t.Helper()
	reg := ledger.DefaultRegistry()
	tx, err := ledger.New(id, kind, decimal.RequireFromString(amount), reg.DefaultFor(kind), "", at)
	require.NoError(t, err)
	return tx
}

func TestStoreMutationsPersistFullSnapshot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := NewMemoryPersistence()
	s := New(mem, quiet)
	s.Load(ctx)
	require.Equal(t, 0, s.Len())

	at := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.Add(ctx, sampleTx(t, "a", ledger.Expense, "1", at)))
	require.NoError(t, s.Add(ctx, sampleTx(t, "b", ledger.Income, "2", at)))
	require.Equal(t, []string{"b", "a"}, ids(s.All()))
	require.Equal(t, 2, mem.Saves())

	batch := []ledger.Transaction{
		sampleTx(t, "c", ledger.Expense, "3", at),
		sampleTx(t, "d", ledger.Expense, "4", at),
	}
	require.NoError(t, s.AddMany(ctx, batch))
	require.Equal(t, []string{"b", "a", "c", "d"}, ids(s.All()))
	require.Equal(t, 3, mem.Saves(), "batch is one write")
	require.Equal(t, ids(s.All()), ids(mem.Snapshot()))

	require.NoError(t, s.Remove(ctx, "a"))
	require.Equal(t, []string{"b", "c", "d"}, ids(mem.Snapshot()))
	require.Equal(t, 4, mem.Saves())
}

func TestStoreRemoveUnknownIsNoop(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	at := time.Now()
	mem := NewMemoryPersistence(sampleTx(t, "a", ledger.Expense, "1", at))
	s := New(mem, quiet)
	s.Load(ctx)

	before := s.All()
	require.NoError(t, s.Remove(ctx, "missing"))
	require.Equal(t, before, s.All())
	require.Equal(t, 0, mem.Saves())
}

func TestStoreLoadFailureStartsEmpty(t *testing.T) {
	t.Parallel()
	mem := NewMemoryPersistence()
	mem.LoadErr = errors.New("corrupt")
	s := New(mem, quiet)
	s.Load(context.Background())
	require.Empty(t, s.All())
}

func TestStoreRejectsInvalidTransactions(t *testing.T) {
	t.Parallel()
	mem := NewMemoryPersistence()
	s := New(mem, quiet)
	bad := ledger.Transaction{ID: "x", Type: ledger.Expense, Amount: decimal.Zero}
	require.ErrorIs(t, s.Add(context.Background(), bad), ledger.ErrInvalidAmount)
	require.ErrorIs(t, s.AddMany(context.Background(), []ledger.Transaction{bad}), ledger.ErrInvalidAmount)
	require.Equal(t, 0, mem.Saves())
}

func TestStoreSaveFailureKeepsMemoryState(t *testing.T) {
	t.Parallel()
	mem := NewMemoryPersistence()
	mem.SaveErr = errors.New("disk full")
	s := New(mem, quiet)
	err := s.Add(context.Background(), sampleTx(t, "a", ledger.Expense, "1", time.Now()))
	require.Error(t, err)
	require.Equal(t, 1, s.Len())
}

func TestFilePersistence(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "book.json")
	p := FilePersistence{Path: path}

	got, err := p.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, got)

	tx := sampleTx(t, "a", ledger.Expense, "52.5", time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC))
	require.NoError(t, p.Save(ctx, []ledger.Transaction{tx}))
	got, err = p.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.True(t, got[0].Amount.Equal(tx.Amount))
	require.Equal(t, tx.Timestamp, got[0].Timestamp)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	s := New(p, quiet)
	s.Load(ctx)
	require.Empty(t, s.All())
}

func TestOpenBackends(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()

	p, cleanup, err := OpenBackend(ctx, config.StorageConfig{Backend: config.BackendSQLite, Path: filepath.Join(dir, "book.db"), Key: "easybook_transactions"}, quiet)
	require.NoError(t, err)
	tx := sampleTx(t, "a", ledger.Income, "8", time.Now())
	require.NoError(t, p.Save(ctx, []ledger.Transaction{tx}))
	got, err := p.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, ids(got))
	require.NoError(t, cleanup())

	p, cleanup, err = OpenBackend(ctx, config.StorageConfig{Backend: config.BackendMemory}, quiet)
	require.NoError(t, err)
	require.IsType(t, &MemoryPersistence{}, p)
	require.NoError(t, cleanup())

	_, _, err = OpenBackend(ctx, config.StorageConfig{Backend: "redis"}, quiet)
	require.ErrorIs(t, err, ErrUnknownBackend)
}

func ids(txs []ledger.Transaction) []string {
	out := make([]string, 0, len(txs))
	for _, t := range txs {
		out = append(out, t.ID)
	}
	return out
}

// Package store holds the authoritative in-memory transaction list and
// writes a full snapshot through a Persistence port after every mutation.
package store

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/jask/easybook/internal/ledger"
)

// Persistence loads and saves the whole transaction collection.
type Persistence interface {
	Load(ctx context.Context) ([]ledger.Transaction, error)
	Save(ctx context.Context, txs []ledger.Transaction) error
}

// Store is the single source of truth for transactions.
type Store struct {
	mu      sync.Mutex
	txs     []ledger.Transaction
	persist Persistence
	logger  *log.Logger
}

// New returns an empty store. Call Load to restore persisted state.
func New(p Persistence, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{persist: p, logger: logger}
}

// Load restores the list from persistence. Missing or unreadable data
// leaves the store empty; the failure is logged and never returned.
func (s *Store) Load(ctx context.Context) {
	txs, err := s.persist.Load(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.Warn("load transactions failed, starting empty", "err", err)
		s.txs = nil
		return
	}
	s.txs = txs
	s.logger.Debug("transactions loaded", "count", len(txs))
}

// Add prepends one transaction and persists the snapshot.
func (s *Store) Add(ctx context.Context, t ledger.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("add transaction: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append([]ledger.Transaction{t}, s.txs...)
	return s.saveLocked(ctx)
}

// AddMany appends a batch with a single persistence write.
func (s *Store) AddMany(ctx context.Context, txs []ledger.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	for _, t := range txs {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("add transaction %s: %w", t.ID, err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append(s.txs, txs...)
	return s.saveLocked(ctx)
}

// Remove deletes the transaction with id. Unknown ids are a no-op and do
// not trigger a write.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, t := range s.txs {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	s.txs = append(s.txs[:idx:idx], s.txs[idx+1:]...)
	return s.saveLocked(ctx)
}

// All returns a copy of the current list in storage order.
func (s *Store) All() []ledger.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ledger.Transaction(nil), s.txs...)
}

// Len reports the number of stored transactions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.txs)
}

func (s *Store) saveLocked(ctx context.Context) error {
	snapshot := append([]ledger.Transaction(nil), s.txs...)
	if err := s.persist.Save(ctx, snapshot); err != nil {
		s.logger.Error("save transactions failed", "err", err, "count", len(snapshot))
		return fmt.Errorf("save transactions: %w", err)
	}
	return nil
}

package store

import (
	"context"
	"sync"

	"github.com/jask/easybook/internal/ledger"
)

// MemoryPersistence keeps snapshots in process. LoadErr and SaveErr let
// tests simulate a broken backend.
type MemoryPersistence struct {
	mu      sync.Mutex
	data    []ledger.Transaction
	saves   int
	LoadErr error
	SaveErr error
}

// NewMemoryPersistence returns a backend pre-filled with seed.
func NewMemoryPersistence(seed ...ledger.Transaction) *MemoryPersistence {
	return &MemoryPersistence{data: append([]ledger.Transaction(nil), seed...)}
}

func (m *MemoryPersistence) Load(_ context.Context) ([]ledger.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return append([]ledger.Transaction(nil), m.data...), nil
}

func (m *MemoryPersistence) Save(_ context.Context, txs []ledger.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.data = append([]ledger.Transaction(nil), txs...)
	m.saves++
	return nil
}

// Snapshot returns the last saved collection.
func (m *MemoryPersistence) Snapshot() []ledger.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ledger.Transaction(nil), m.data...)
}

// Saves counts successful writes.
func (m *MemoryPersistence) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

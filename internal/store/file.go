package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jask/easybook/internal/ledger"
)

// FilePersistence keeps the snapshot as a JSON file, replaced atomically
// on every save.
type FilePersistence struct {
	Path string
}

func (p FilePersistence) Load(_ context.Context) ([]ledger.Transaction, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return decodeSnapshot(data)
}

func (p FilePersistence) Save(_ context.Context, txs []ledger.Transaction) error {
	if err := os.MkdirAll(filepath.Dir(p.Path), 0o755); err != nil {
		return err
	}
	data, err := encodeSnapshot(txs)
	if err != nil {
		return err
	}
	tmp := p.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, p.Path)
}

func encodeSnapshot(txs []ledger.Transaction) ([]byte, error) {
	if txs == nil {
		txs = []ledger.Transaction{}
	}
	return json.Marshal(txs)
}

func decodeSnapshot(data []byte) ([]ledger.Transaction, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var txs []ledger.Transaction
	if err := json.Unmarshal(data, &txs); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return txs, nil
}

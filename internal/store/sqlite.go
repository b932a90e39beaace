package store

import (
	"context"

	"github.com/jask/easybook/internal/database/repository"
	"github.com/jask/easybook/internal/ledger"
)

// SQLitePersistence stores the JSON snapshot in the snapshots table under
// a single well-known key.
type SQLitePersistence struct {
	Repo *repository.SnapshotRepo
	Key  string
}

func (p SQLitePersistence) Load(ctx context.Context) ([]ledger.Transaction, error) {
	snap, err := p.Repo.Get(ctx, p.Key)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, nil
	}
	return decodeSnapshot(snap.Payload)
}

func (p SQLitePersistence) Save(ctx context.Context, txs []ledger.Transaction) error {
	data, err := encodeSnapshot(txs)
	if err != nil {
		return err
	}
	return p.Repo.Put(ctx, p.Key, data)
}

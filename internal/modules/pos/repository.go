package pos

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/georgemunganga/printa-pos/internal/modules/storage"
)

// LedgerKey is the state repository key holding the transaction log.
const LedgerKey = "pos_transactions"

// Repository reads and encodes the append-only transaction ledger.
type Repository interface {
	// Load returns the ledger in append order; absent, unreadable or corrupt
	// ledgers are empty. Use it for display only.
	Load(ctx context.Context) []Transaction
	// Read is Load for the write path: a backend failure is returned as a
	// *StorageReadError instead of being replaced by an empty ledger. A
	// corrupt payload is still logged and read as empty.
	Read(ctx context.Context) ([]Transaction, error)
	Entry(txs []Transaction) (storage.Entry, error)
}

type ledgerRepo struct {
	state storage.Repository
	log   *zap.Logger
}

func NewRepository(state storage.Repository, log *zap.Logger) Repository {
	return &ledgerRepo{state: state, log: log}
}

func (r *ledgerRepo) Load(ctx context.Context) []Transaction {
	txs, err := r.Read(ctx)
	if err != nil {
		r.log.Error("ledger unreadable, using empty ledger", zap.Error(err))
		return []Transaction{}
	}
	return txs
}

func (r *ledgerRepo) Read(ctx context.Context) ([]Transaction, error) {
	data, err := r.state.Load(ctx, LedgerKey)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && len(data) == 0) {
		return []Transaction{}, nil
	}
	if err != nil {
		return nil, &StorageReadError{Key: LedgerKey, Err: err}
	}

	var txs []Transaction
	if err := json.Unmarshal(data, &txs); err != nil {
		r.log.Error("ledger corrupt, using empty ledger",
			zap.Error(&StorageReadError{Key: LedgerKey, Err: err}))
		return []Transaction{}, nil
	}
	if txs == nil {
		txs = []Transaction{}
	}
	return txs, nil
}

func (r *ledgerRepo) Entry(txs []Transaction) (storage.Entry, error) {
	data, err := json.Marshal(txs)
	if err != nil {
		return storage.Entry{}, err
	}
	return storage.Entry{Key: LedgerKey, Value: data}, nil
}

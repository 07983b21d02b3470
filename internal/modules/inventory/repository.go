package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/georgemunganga/printa-pos/internal/modules/catalog"
	"github.com/georgemunganga/printa-pos/internal/modules/storage"
)

// Repository reads and encodes the persisted inventory record.
type Repository interface {
	// Load returns the current record, seeding it from the catalog on first use.
	// Read failures are logged and yield an empty record.
	Load(ctx context.Context) Record
	// Read is Load without the fallback for backend failures, which come back
	// as a *storage.ReadError. A corrupt payload still reads as empty.
	Read(ctx context.Context) (Record, error)
	// Entry encodes rec for an atomic storage.Repository Save.
	Entry(rec Record) (storage.Entry, error)
}

type stateRepo struct {
	seedMu   sync.Mutex
	state    storage.Repository
	products catalog.Repository
	log      *zap.Logger
}

func NewRepository(state storage.Repository, products catalog.Repository, log *zap.Logger) Repository {
	return &stateRepo{state: state, products: products, log: log}
}

func (r *stateRepo) Load(ctx context.Context) Record {
	rec, err := r.Read(ctx)
	if err != nil {
		r.log.Error("inventory unreadable, using empty record", zap.Error(err))
		return Record{}
	}
	return rec
}

func (r *stateRepo) Read(ctx context.Context) (Record, error) {
	data, err := r.state.Load(ctx, Key)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && len(data) == 0) {
		return r.seed(ctx), nil
	}
	if err != nil {
		return nil, &storage.ReadError{Key: Key, Err: err}
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		r.log.Error("inventory corrupt, using empty record",
			zap.Error(&storage.ReadError{Key: Key, Err: err}))
		return Record{}, nil
	}
	if rec == nil {
		rec = Record{}
	}
	return rec, nil
}

// seed persists the catalog's initial stock. Concurrent first reads race here,
// so the key is checked again under seedMu before anything is written.
func (r *stateRepo) seed(ctx context.Context) Record {
	r.seedMu.Lock()
	defer r.seedMu.Unlock()

	if data, err := r.state.Load(ctx, Key); err == nil && len(data) > 0 {
		var rec Record
		if json.Unmarshal(data, &rec) == nil && rec != nil {
			return rec
		}
	}

	rec := Seed(r.products.All())
	entry, err := r.Entry(rec)
	if err == nil {
		err = r.state.Save(ctx, entry)
	}
	if err != nil {
		r.log.Warn("inventory seed not persisted",
			zap.Error(&storage.WriteError{Keys: []string{Key}, Err: err}))
	} else {
		r.log.Info("inventory seeded from catalog", zap.Int("products", len(rec)))
	}
	return rec
}

func (r *stateRepo) Entry(rec Record) (storage.Entry, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return storage.Entry{}, err
	}
	return storage.Entry{Key: Key, Value: data}, nil
}

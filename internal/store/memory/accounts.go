package memory

import (
	"context"
	"sync"

	"github.com/mkravets/userhub/internal/domain/account"
	"github.com/mkravets/userhub/internal/store"
)

// AccountsCollection keeps documents in memory. A key maps to a slice of
// records so the corrupted multi-document state stays representable for
// tests; Insert itself never produces it.
type AccountsCollection struct {
	mu    sync.RWMutex
	items map[string][]account.Record
}

func NewAccountsCollection() *AccountsCollection {
	return &AccountsCollection{
		items: make(map[string][]account.Record),
	}
}

func (c *AccountsCollection) Find(_ context.Context, id string) ([]account.Record, error) {
	c.mu.RLock()
	recs := c.items[id]
	c.mu.RUnlock()

	out := make([]account.Record, len(recs))
	copy(out, recs)

	return out, nil
}

func (c *AccountsCollection) Insert(_ context.Context, rec account.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.items[rec.ID]) > 0 {
		return store.ErrDuplicateKey
	}

	c.items[rec.ID] = []account.Record{rec}

	return nil
}

// Seed places a record without the uniqueness check. Test hook for
// constructing the integrity-violation state.
func (c *AccountsCollection) Seed(rec account.Record) {
	c.mu.Lock()
	c.items[rec.ID] = append(c.items[rec.ID], rec)
	c.mu.Unlock()
}

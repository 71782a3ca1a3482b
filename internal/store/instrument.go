package store

import (
	"context"

	"github.com/mkravets/userhub/internal/domain/account"
	"github.com/mkravets/userhub/internal/observability"
)

// Instrument wraps a collection so every store round-trip lands in the
// store metrics, whatever the backend.
func Instrument(col Collection, prom *observability.Prom) Collection {
	if prom == nil {
		return col
	}

	return &instrumentedCollection{col: col, prom: prom}
}

type instrumentedCollection struct {
	col  Collection
	prom *observability.Prom
}

func (c *instrumentedCollection) Find(ctx context.Context, id string) ([]account.Record, error) {
	var recs []account.Record

	err := c.prom.ObserveStore("find", func() error {
		var err error
		recs, err = c.col.Find(ctx, id)
		return err
	})

	return recs, err
}

func (c *instrumentedCollection) Insert(ctx context.Context, rec account.Record) error {
	return c.prom.ObserveStore("insert", func() error {
		return c.col.Insert(ctx, rec)
	})
}

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkravets/userhub/internal/domain/account"
	"github.com/mkravets/userhub/internal/store"
)

// AccountsCollection stores one row per account id:
//
//	accounts(id TEXT PRIMARY KEY, password_hash TEXT NOT NULL,
//	         profile JSONB NOT NULL, created_at TIMESTAMPTZ NOT NULL)
//
// The primary key is the uniqueness constraint the create path relies on
// when the existence check races the insert.
type AccountsCollection struct {
	pool *pgxpool.Pool
}

func NewAccountsCollection(pool *pgxpool.Pool) *AccountsCollection {
	return &AccountsCollection{pool: pool}
}

func (c *AccountsCollection) Find(ctx context.Context, id string) ([]account.Record, error) {
	var rec account.Record

	err := c.pool.QueryRow(
		ctx,
		`SELECT id, password_hash, profile, created_at
         FROM accounts
         WHERE id = $1`,
		id,
	).Scan(
		&rec.ID,
		&rec.PasswordHash,
		&rec.Profile,
		&rec.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}
	return []account.Record{rec}, nil
}

func (c *AccountsCollection) Insert(ctx context.Context, rec account.Record) error {
	_, err := c.pool.Exec(
		ctx,
		`INSERT INTO accounts (id, password_hash, profile, created_at)
         VALUES ($1, $2, $3, $4)`,
		rec.ID,
		rec.PasswordHash,
		rec.Profile,
		rec.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return store.ErrDuplicateKey
		}

		return err
	}
	return nil
}

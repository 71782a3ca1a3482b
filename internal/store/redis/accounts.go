package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mkravets/userhub/internal/domain/account"
	"github.com/mkravets/userhub/internal/store"
)

const keyPrefix = "account:"

type Config struct {
	Addr     string
	Password string
	DB       int
}

// AccountsCollection keeps one JSON document per account key. SETNX is
// the uniqueness constraint, so racing creates resolve to duplicate-key
// rather than a second document.
type AccountsCollection struct {
	rdb *goredis.Client
}

func New(cfg Config) *AccountsCollection {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &AccountsCollection{rdb: rdb}
}

// document is the storage shape; the domain type hides the hash from
// JSON so the codec lives here instead.
type document struct {
	ID           string         `json:"id"`
	PasswordHash string         `json:"passwordHash"`
	Profile      map[string]any `json:"profile"`
	CreatedAt    time.Time      `json:"createdAt"`
}

func (c *AccountsCollection) Find(ctx context.Context, id string) ([]account.Record, error) {
	raw, err := c.rdb.Get(ctx, keyPrefix+id).Bytes()

	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}

		return nil, err
	}

	var doc document

	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	rec := account.Record{
		ID:           doc.ID,
		PasswordHash: doc.PasswordHash,
		Profile:      doc.Profile,
		CreatedAt:    doc.CreatedAt,
	}

	return []account.Record{rec}, nil
}

func (c *AccountsCollection) Insert(ctx context.Context, rec account.Record) error {
	doc := document{
		ID:           rec.ID,
		PasswordHash: rec.PasswordHash,
		Profile:      rec.Profile,
		CreatedAt:    rec.CreatedAt,
	}

	raw, err := json.Marshal(doc)

	if err != nil {
		return err
	}

	ok, err := c.rdb.SetNX(ctx, keyPrefix+rec.ID, raw, 0).Result()

	if err != nil {
		return err
	}

	if !ok {
		return store.ErrDuplicateKey
	}

	return nil
}

// this ping function checks redis connectivity

func (c *AccountsCollection) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// this closes the client

func (c *AccountsCollection) Close() error {
	return c.rdb.Close()
}

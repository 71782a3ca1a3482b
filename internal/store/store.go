package store

import (
	"context"
	"errors"
	"maps"
	"time"

	"github.com/mkravets/userhub/internal/domain/account"
	"github.com/mkravets/userhub/internal/security"
)

var (
	// ErrInvalidArgument covers empty ids/passwords and nil profiles.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrAlreadyExists reports an account id already in use. Not an
	// error condition for callers creating idempotently.
	ErrAlreadyExists = errors.New("account already exists")
	ErrNotFound      = errors.New("account not found")
	// ErrInvalidCredentials means the password did not match. Kept
	// distinct from ErrNotFound internally even though the HTTP layer
	// conflates presentation.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrIntegrity means more than one document exists for one id. That
	// is data corruption, never retried.
	ErrIntegrity = errors.New("multiple documents for one account id")
	// ErrDuplicateKey is returned by Collection.Insert when the backing
	// store's uniqueness constraint rejects the key.
	ErrDuplicateKey = errors.New("duplicate key")
)

// Collection is the opaque document store: exact-key lookup plus insert.
// Find may return more than one document for a key if the backing store
// has been corrupted; the Store treats that as fatal.
type Collection interface {
	Find(ctx context.Context, id string) ([]account.Record, error)
	Insert(ctx context.Context, rec account.Record) error
}

// Store owns account lifecycle and credential checks over a Collection.
type Store struct {
	col Collection
}

func New(col Collection) *Store {
	return &Store{col: col}
}

// CreateAccount hashes the password and inserts a new record. An id
// already in use yields ErrAlreadyExists with no mutation; a concurrent
// create losing the insert race resolves to ErrAlreadyExists through the
// collection's uniqueness constraint.
func (s *Store) CreateAccount(ctx context.Context, id, password string, profile map[string]any) error {
	if id == "" || password == "" || profile == nil {
		return ErrInvalidArgument
	}

	existing, err := s.col.Find(ctx, id)

	if err != nil {
		return err
	}

	switch {
	case len(existing) > 1:
		return ErrIntegrity
	case len(existing) == 1:
		return ErrAlreadyExists
	}

	hash, err := security.HashPassword(password)

	if err != nil {
		return err
	}

	rec := account.Record{
		ID:           id,
		PasswordHash: hash,
		Profile:      maps.Clone(profile),
		CreatedAt:    time.Now().UTC(),
	}

	err = s.col.Insert(ctx, rec)

	if err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			// Lost a check-then-insert race; the other writer's record
			// stands.
			return ErrAlreadyExists
		}
		return err
	}

	return nil
}

// VerifyCredentials compares the presented password against the stored
// hash. nil means valid.
func (s *Store) VerifyCredentials(ctx context.Context, id, password string) error {
	if id == "" || password == "" {
		return ErrInvalidArgument
	}

	recs, err := s.col.Find(ctx, id)

	if err != nil {
		return err
	}

	switch {
	case len(recs) > 1:
		return ErrIntegrity
	case len(recs) == 0:
		return ErrNotFound
	}

	if err := security.CheckPassword(recs[0].PasswordHash, password); err != nil {
		return ErrInvalidCredentials
	}

	return nil
}

// FetchProfile returns the stored profile only. Credential material and
// the id never cross this boundary.
func (s *Store) FetchProfile(ctx context.Context, id string) (map[string]any, error) {
	if id == "" {
		return nil, ErrInvalidArgument
	}

	recs, err := s.col.Find(ctx, id)

	if err != nil {
		return nil, err
	}

	switch {
	case len(recs) > 1:
		return nil, ErrIntegrity
	case len(recs) == 0:
		return nil, ErrNotFound
	}

	return maps.Clone(recs[0].Profile), nil
}

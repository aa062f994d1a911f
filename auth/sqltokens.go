package auth

import (
	"context"
	"errors"
	"time"

	"github.com/andrebq/taskbox/store"
)

type (
	sqlStore struct {
		db *store.DB
	}
)

// StoreTokens keeps tokens in the database, they survive restarts.
func StoreTokens(db *store.DB) TokenStore {
	return &sqlStore{db: db}
}

func (s *sqlStore) Save(ctx context.Context, digest string, userID int64, issuedAt time.Time) error {
	return s.db.SaveToken(ctx, digest, userID, issuedAt)
}

func (s *sqlStore) Lookup(ctx context.Context, digest string) (int64, time.Time, bool, error) {
	userID, issuedAt, err := s.db.LookupToken(ctx, digest)
	if errors.Is(err, store.TokenNotFound{}) {
		return 0, time.Time{}, false, nil
	} else if err != nil {
		return 0, time.Time{}, false, err
	}
	return userID, issuedAt, true, nil
}

func (s *sqlStore) RevokeAll(ctx context.Context, userID int64) error {
	_, err := s.db.DeleteUserTokens(ctx, userID)
	return err
}

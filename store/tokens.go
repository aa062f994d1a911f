package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SaveToken records a token digest for the given user. The plaintext token
// is never given to the store.
func (d *DB) SaveToken(ctx context.Context, digest string, userID int64, issuedAt time.Time) error {
	_, err := d.db.ExecContext(ctx, `insert into tokens(user_id, token_hash64, digest, issued_at) values (?, ?, ?, ?)`,
		userID, digestHash64(digest), digest, formatTime(issuedAt))
	if err != nil {
		return fmt.Errorf("unable to save token, cause %w", err)
	}
	return nil
}

// LookupToken returns the owner of the digest, or TokenNotFound.
func (d *DB) LookupToken(ctx context.Context, digest string) (int64, time.Time, error) {
	var userID int64
	var issued string
	err := d.db.QueryRowContext(ctx, `select user_id, issued_at from tokens where token_hash64 = ? and digest = ?`,
		digestHash64(digest), digest).Scan(&userID, &issued)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, time.Time{}, TokenNotFound{}
	} else if err != nil {
		return 0, time.Time{}, fmt.Errorf("unable to lookup token, cause %w", err)
	}
	issuedAt, err := parseTime(issued)
	if err != nil {
		return 0, time.Time{}, err
	}
	return userID, issuedAt, nil
}

// DeleteUserTokens removes every token bound to the user and returns how
// many were removed.
func (d *DB) DeleteUserTokens(ctx context.Context, userID int64) (int64, error) {
	res, err := d.db.ExecContext(ctx, `delete from tokens where user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("unable to delete tokens of user %v, cause %w", userID, err)
	}
	return res.RowsAffected()
}

func (d *DB) DeleteTokensIssuedBefore(ctx context.Context, t time.Time) (int64, error) {
	res, err := d.db.ExecContext(ctx, `delete from tokens where issued_at < ?`, formatTime(t))
	if err != nil {
		return 0, fmt.Errorf("unable to prune tokens, cause %w", err)
	}
	return res.RowsAffected()
}

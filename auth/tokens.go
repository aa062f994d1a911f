package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"
)

type (
	// TokenStore keeps token digests bound to user ids. A digest that is
	// not in the store is not a valid token.
	TokenStore interface {
		Save(ctx context.Context, digest string, userID int64, issuedAt time.Time) error
		Lookup(ctx context.Context, digest string) (userID int64, issuedAt time.Time, found bool, err error)
		RevokeAll(ctx context.Context, userID int64) error
	}

	Issuer struct {
		tokens TokenStore
		ttl    time.Duration
		now    func() time.Time
		random io.Reader
	}
)

const (
	tokenBytes = 32
)

var (
	ErrUnauthenticated = errors.New("auth: token does not resolve to a user")
)

// NewIssuer returns an issuer backed by tokens. A ttl of zero keeps tokens
// valid until they are revoked.
func NewIssuer(tokens TokenStore, ttl time.Duration) *Issuer {
	return &Issuer{
		tokens: tokens,
		ttl:    ttl,
		now:    time.Now,
		random: rand.Reader,
	}
}

func (i *Issuer) SetClock(now func() time.Time) {
	i.now = now
}

func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue creates a token for userID. The plaintext is returned once and
// cannot be recovered from the store afterwards.
func (i *Issuer) Issue(ctx context.Context, userID int64) (string, error) {
	var raw [tokenBytes]byte
	_, err := io.ReadFull(i.random, raw[:])
	if err != nil {
		return "", fmt.Errorf("auth: unable to generate token, cause %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw[:])
	err = i.tokens.Save(ctx, Digest(token), userID, i.now().UTC())
	if err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the user bound to token, or ErrUnauthenticated.
func (i *Issuer) Resolve(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, ErrUnauthenticated
	}
	userID, issuedAt, found, err := i.tokens.Lookup(ctx, Digest(token))
	if err != nil {
		return 0, err
	} else if !found {
		return 0, ErrUnauthenticated
	}
	if i.ttl > 0 && i.now().Sub(issuedAt) > i.ttl {
		return 0, ErrUnauthenticated
	}
	return userID, nil
}

// RevokeAll drops every token of userID.
func (i *Issuer) RevokeAll(ctx context.Context, userID int64) error {
	return i.tokens.RevokeAll(ctx, userID)
}

// Digest is the form under which a token is persisted.
func Digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

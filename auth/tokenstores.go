package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/andrebq/taskbox/store"
)

const (
	TokenStoreSQLite = "sqlite"
	TokenStoreMemory = "memory"
)

// OpenTokenStore picks the token store named by kind.
func OpenTokenStore(ctx context.Context, kind string, db *store.DB, ttl time.Duration) (TokenStore, error) {
	switch kind {
	case "", TokenStoreSQLite:
		return StoreTokens(db), nil
	case TokenStoreMemory:
		return InMemoryTokenStore(ctx, ttl)
	default:
		return nil, fmt.Errorf("auth: unknown token store %q, use %v or %v", kind, TokenStoreSQLite, TokenStoreMemory)
	}
}

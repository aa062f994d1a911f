package auth

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"time"

	"github.com/allegro/bigcache/v3"
)

type (
	memStore struct {
		cache *bigcache.BigCache
	}
)

const (
	memEntrySize = 16
)

// InMemoryTokenStore keeps tokens in process memory. Tokens are lost when
// the process restarts or when they outlive ttl (zero means no expiry).
func InMemoryTokenStore(ctx context.Context, ttl time.Duration) (TokenStore, error) {
	life := ttl
	if life <= 0 {
		life = time.Duration(math.MaxInt64)
	}
	cfg := bigcache.DefaultConfig(life)
	cfg.Shards = 64
	cfg.MaxEntriesInWindow = 1024
	cfg.MaxEntrySize = memEntrySize
	cfg.Verbose = false
	if ttl <= 0 {
		cfg.CleanWindow = 0
	}
	cache, err := bigcache.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &memStore{
		cache: cache,
	}, nil
}

func (m *memStore) Save(ctx context.Context, digest string, userID int64, issuedAt time.Time) error {
	var buf [memEntrySize]byte
	binary.BigEndian.PutUint64(buf[:8], uint64(userID))
	binary.BigEndian.PutUint64(buf[8:], uint64(issuedAt.UnixNano()))
	return m.cache.Set(digest, buf[:])
}

func (m *memStore) Lookup(ctx context.Context, digest string) (int64, time.Time, bool, error) {
	buf, err := m.cache.Get(digest)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return 0, time.Time{}, false, nil
	} else if err != nil {
		return 0, time.Time{}, false, err
	}
	if len(buf) != memEntrySize {
		return 0, time.Time{}, false, nil
	}
	userID := int64(binary.BigEndian.Uint64(buf[:8]))
	issuedAt := time.Unix(0, int64(binary.BigEndian.Uint64(buf[8:]))).UTC()
	return userID, issuedAt, true, nil
}

func (m *memStore) RevokeAll(ctx context.Context, userID int64) error {
	var doomed []string
	it := m.cache.Iterator()
	for it.SetNext() {
		entry, err := it.Value()
		if err != nil {
			continue
		}
		val := entry.Value()
		if len(val) == memEntrySize && int64(binary.BigEndian.Uint64(val[:8])) == userID {
			doomed = append(doomed, entry.Key())
		}
	}
	for _, k := range doomed {
		err := m.cache.Delete(k)
		if err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
			return err
		}
	}
	return nil
}

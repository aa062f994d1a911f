package auth

import (
	"context"
	"time"

	"github.com/andrebq/taskbox/internal/logutil"
)

type (
	TokenPruner interface {
		DeleteTokensIssuedBefore(ctx context.Context, t time.Time) (int64, error)
	}
)

// PruneExpired deletes tokens older than ttl every ttl/2 until ctx is done.
// Expired tokens are already rejected by Resolve, this only reclaims space.
func PruneExpired(ctx context.Context, pruner TokenPruner, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	log := logutil.GetOrDefault(ctx)
	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := pruner.DeleteTokensIssuedBefore(ctx, now.Add(-ttl))
			if err != nil {
				log.Error().Err(err).Msg("Unable to prune expired tokens")
				continue
			}
			if n > 0 {
				log.Info().Int64("tokens", n).Msg("Expired tokens pruned")
			}
		}
	}
}

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenStore(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ts, err := InMemoryTokenStore(ctx, time.Hour)
	require.NoError(t, err)

	issued := time.Date(2024, 3, 4, 5, 6, 7, 8, time.UTC)
	require.NoError(t, ts.Save(ctx, "abc123", 7, issued))

	userID, at, found, err := ts.Lookup(ctx, "abc123")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(7), userID)
	require.True(t, issued.Equal(at))

	_, _, found, err = ts.Lookup(ctx, "missing")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, ts.RevokeAll(ctx, 7))
	_, _, found, err = ts.Lookup(ctx, "abc123")
	require.NoError(t, err)
	require.False(t, found, "token should be gone after revoke")

	// revoking a user without tokens is not an error
	require.NoError(t, ts.RevokeAll(ctx, 99))
}

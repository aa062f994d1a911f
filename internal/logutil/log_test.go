package logutil

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestGetOrDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := WithLogger(context.Background(), logger)
	l := GetOrDefault(ctx)
	l.Info().Msg("from context")
	require.Contains(t, buf.String(), "from context")
}

func TestSetup(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())
	previous := log.Logger
	defer func() { log.Logger = previous }()

	var buf bytes.Buffer
	require.NoError(t, SetupOutput(&buf, "warn", false))
	l := GetOrDefault(context.Background())
	l.Info().Msg("hidden")
	l.Warn().Msg("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")

	require.Error(t, SetupOutput(&buf, "loud", false))
}

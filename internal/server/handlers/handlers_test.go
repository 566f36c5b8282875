package handlers

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cliftbar/mapviewer/internal/config"
	"github.com/cliftbar/mapviewer/internal/storage/sqlite"
	"github.com/cliftbar/mapviewer/internal/tracks"
	"github.com/cliftbar/mapviewer/internal/worker"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupTestStorage opens an in-memory store shared by all handlers
// under test.
func setupTestStorage(t *testing.T) *sqlite.Storage {
	t.Helper()

	store, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func setupConfigService(t *testing.T, store *sqlite.Storage) *config.Service {
	t.Helper()
	return config.NewService(context.Background(), setupTestLogger(), store, nil)
}

func setupTrackService(store *sqlite.Storage) *tracks.Service {
	return tracks.NewService(setupTestLogger(), store, worker.NewPool(2))
}

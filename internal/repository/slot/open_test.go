package slot

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"subspend/internal/config"
	"subspend/internal/entity"
	"subspend/internal/logger"
)

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()

	tcases := []struct {
		Driver string
		Path   string
	}{
		{Driver: config.DriverFile, Path: filepath.Join(dir, "files")},
		{Driver: config.DriverMemory},
		{Driver: config.DriverBolt, Path: filepath.Join(dir, "subs.db")},
		{Driver: config.DriverSQLite, Path: filepath.Join(dir, "subs.sqlite")},
	}
	for _, tc := range tcases {
		t.Run(tc.Driver, func(t *testing.T) {
			ctx := context.Background()
			cfg := config.Default()
			cfg.Storage.Driver = tc.Driver
			cfg.Storage.Path = tc.Path
			cfg.Storage.Key = "custom"

			store, closer, err := OpenStore(ctx, &cfg, logger.Discard())
			require.NoError(t, err)

			assert.Empty(t, store.List())
			_, err = store.Add(ctx, "Spotify", 10.99, entity.Monthly)
			require.NoError(t, err)
			require.NoError(t, closer.Close())

			if tc.Driver == config.DriverMemory {
				return
			}
			reopened, closer, err := OpenStore(ctx, &cfg, logger.Discard())
			require.NoError(t, err)
			defer closer.Close()
			require.Len(t, reopened.List(), 1)
			assert.Equal(t, "Spotify", reopened.List()[0].Name)
		})
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Driver = "redis"
	_, err := Open(context.Background(), &cfg, logger.Discard())
	assert.Error(t, err)
}

// Package slot picks the key-value backend the store persists into.
package slot

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/afero"
	"subspend/internal/config"
	"subspend/internal/repository/slot/bolt"
	"subspend/internal/repository/slot/file"
	"subspend/internal/repository/slot/postgres"
	"subspend/internal/repository/slot/sqlite"
	"subspend/internal/usecase"
)

// Backend is a slot that owns resources.
type Backend interface {
	usecase.Slot
	io.Closer
}

// Open returns the backend selected by cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (Backend, error) {
	st := cfg.Storage
	log = log.With(slog.String("driver", st.Driver))

	var (
		b   Backend
		err error
	)
	switch st.Driver {
	case config.DriverFile:
		b, err = file.New(afero.NewOsFs(), st.Path)
	case config.DriverMemory:
		b = file.NewMemory()
	case config.DriverBolt:
		b, err = bolt.Open(st.Path)
	case config.DriverSQLite:
		b, err = sqlite.Open(st.Path)
	case config.DriverPostgres:
		b, err = postgres.Open(ctx, cfg.Pg.URL())
	default:
		return nil, fmt.Errorf("unknown storage driver %q", st.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s slot: %w", st.Driver, err)
	}

	log.Debug("slot opened", slog.String("path", st.Path))
	return b, nil
}

// OpenStore opens the backend and returns a loaded store over it.
func OpenStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (*usecase.Store, io.Closer, error) {
	b, err := Open(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	store := usecase.NewStore(b,
		usecase.WithKey(cfg.Storage.Key),
		usecase.WithLogger(log),
	)
	if err := store.Load(ctx); err != nil {
		_ = b.Close()
		return nil, nil, err
	}
	return store, b, nil
}

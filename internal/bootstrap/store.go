package bootstrap

import (
	"context"
	"fmt"

	"nagapos/internal/config"
	"nagapos/internal/db"
	"nagapos/internal/repository"

	"github.com/sirupsen/logrus"
)

// OpenStore builds the record store for the configured driver. The returned
// close function releases the database connection, if any.
func OpenStore(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (*repository.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StoreDriver {
	case config.DriverFile:
		store, err := repository.Open(ctx, repository.NewFileBackend(cfg.DataFile))
		if err != nil {
			return nil, noop, fmt.Errorf("open file store: %w", err)
		}
		log.WithField("path", cfg.DataFile).Info("using file record store")
		return store, noop, nil

	case config.DriverPostgres:
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		if err := db.RunMigrations(ctx, conn); err != nil {
			conn.Close()
			return nil, noop, fmt.Errorf("migrate: %w", err)
		}
		store, err := repository.Open(ctx, repository.NewPostgresBackend(conn, cfg.DocumentName))
		if err != nil {
			conn.Close()
			return nil, noop, fmt.Errorf("open postgres store: %w", err)
		}
		log.WithField("document", cfg.DocumentName).Info("using postgres record store")
		return store, conn.Close, nil

	default:
		return nil, noop, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

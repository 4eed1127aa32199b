package database

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/duynhne/contact-service/config"
	"github.com/duynhne/contact-service/internal/core/domain"
	"github.com/duynhne/contact-service/internal/core/repository/bunsql"
	"github.com/duynhne/contact-service/internal/core/repository/psql"
)

// Store is an open contact repository together with its connection lifecycle.
type Store struct {
	Contacts domain.ContactRepository
	Ping     func(ctx context.Context) error
	Close    func() error
}

// OpenStore connects to the configured driver and makes sure the contacts table exists.
func OpenStore(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		repo := psql.NewContactRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return &Store{
			Contacts: repo,
			Ping:     pool.Ping,
			Close: func() error {
				pool.Close()
				return nil
			},
		}, nil

	case config.DriverSQLite, config.DriverMySQL:
		db, err := OpenBun(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		repo := bunsql.NewContactRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &Store{
			Contacts: repo,
			Ping:     db.PingContext,
			Close:    db.Close,
		}, nil

	default:
		return nil, fmt.Errorf("open store: unsupported driver %q: %w", cfg.Driver, domain.ErrStorageUnavailable)
	}
}

// Package bootstrap abre el almacenamiento configurado y expone los repositorios.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/hortti-inventory/internal/domain/repository"
	"github.com/jhoicas/hortti-inventory/internal/infrastructure/postgres"
	"github.com/jhoicas/hortti-inventory/internal/infrastructure/sqlstore"
	"github.com/jhoicas/hortti-inventory/pkg/config"
)

// Repositories agrupa los repositorios del driver elegido.
type Repositories struct {
	Users    repository.UserRepository
	Products repository.ProductRepository
	close    func() error
}

// Close libera la conexión.
func (r *Repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// OpenRepositories conecta con PostgreSQL o SQLite según DB_DRIVER y migra el esquema si AutoMigrate.
func OpenRepositories(ctx context.Context, cfg config.DBConfig, log zerolog.Logger) (*Repositories, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
		}
		log.Info().Str("driver", cfg.Driver).Msg("conectado a PostgreSQL")
		return &Repositories{
			Users:    postgres.NewUserRepository(pool),
			Products: postgres.NewProductRepository(pool),
			close:    func() error { pool.Close(); return nil },
		}, nil

	case config.DriverSQLite:
		db, err := sqlstore.Open(cfg.SQLitePath, log.With().Str("component", "gorm").Logger())
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := sqlstore.Migrate(db); err != nil {
				_ = sqlstore.Close(db)
				return nil, err
			}
		}
		log.Info().Str("driver", cfg.Driver).Str("path", cfg.SQLitePath).Msg("base SQLite abierta")
		return &Repositories{
			Users:    sqlstore.NewUserRepository(db),
			Products: sqlstore.NewProductRepository(db),
			close:    func() error { return sqlstore.Close(db) },
		}, nil

	default:
		return nil, fmt.Errorf("bootstrap: driver no soportado %q", cfg.Driver)
	}
}

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
	"go.uber.org/zap"

	"github.com/duynhne/contact-service/config"
)

// OpenBun opens a bun database for the sqlite and mysql drivers.
// When cfg.Debug is set every query is written to logger.
func OpenBun(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*bun.DB, error) {
	var db *bun.DB

	switch cfg.Driver {
	case config.DriverSQLite:
		sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		// SQLite allows a single writer; one connection also keeps a shared in-memory database alive.
		sqldb.SetMaxOpenConns(1)
		sqldb.SetConnMaxLifetime(0)
		db = bun.NewDB(sqldb, sqlitedialect.New())

	case config.DriverMySQL:
		mysqlCfg, err := mysql.ParseDSN(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to parse mysql DSN: %w", err)
		}
		// Report matched rows, not changed rows, so an update that rewrites identical values
		// is not mistaken for a missing contact.
		mysqlCfg.ClientFoundRows = true
		mysqlCfg.ParseTime = true
		connector, err := mysql.NewConnector(mysqlCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create mysql connector: %w", err)
		}
		sqldb := sql.OpenDB(connector)
		sqldb.SetMaxOpenConns(cfg.MaxConnections)
		db = bun.NewDB(sqldb, mysqldialect.New())

	default:
		return nil, fmt.Errorf("driver %q is not served by bun", cfg.Driver)
	}

	if cfg.Debug && logger != nil {
		db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithVerbose(true),
			bundebug.WithWriter(zap.NewStdLog(logger.Named("sql")).Writer()),
		))
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

package pgutils

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/dicevault/internal/config"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
)

// OpenDB opens a pgx-backed pool sized by cfg and verifies it with a ping.
func OpenDB(ctx context.Context, cfg config.PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

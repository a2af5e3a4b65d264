package main

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	log "github.com/sirupsen/logrus"

	"github.com/fastprodman/dicevault/internal/infra/logging"
	"github.com/fastprodman/dicevault/pkg/envconf"
)

//go:embed migrations/*.sql
var baseFS embed.FS

//go:embed test_data/*.sql
var devFS embed.FS

// seedTable keeps the dev seed version apart from the schema version so
// both sources can number their files from 1.
const seedTable = "seed_migrations"

type migratorConfig struct {
	DSN      string `env:"PG_DSN,required"`
	LogLevel string `env:"APP_LOG_LEVEL" envDefault:"info"`
	AppEnv   string `env:"APP_ENV" envDefault:"PROD"`
}

func main() {
	err := migrateAll()
	if err != nil {
		log.WithError(err).Error("migration run failed")
		os.Exit(1)
	}

	log.Info("migration run finished successfully")
}

func migrateAll() error {
	cfg := new(migratorConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	//nolint:errcheck
	defer db.Close()

	err = db.Ping()
	if err != nil {
		return fmt.Errorf("ping db: %w", err)
	}

	err = runMigrations(db, &postgres.Config{}, baseFS, "migrations")
	if err != nil {
		return fmt.Errorf("base migrations failed: %w", err)
	}

	log.Info("base migrations applied")

	if cfg.AppEnv == "DEV" {
		err = runMigrations(db, &postgres.Config{MigrationsTable: seedTable}, devFS, "test_data")
		if err != nil {
			return fmt.Errorf("dev seed migrations failed: %w", err)
		}

		log.Info("dev seed migrations applied")
	}

	return nil
}

func runMigrations(db *sql.DB, pgCfg *postgres.Config, fsys embed.FS, dir string) error {
	driver, err := postgres.WithInstance(db, pgCfg)
	if err != nil {
		return fmt.Errorf("init postgres driver: %w", err)
	}

	src, err := iofs.New(fsys, dir)
	if err != nil {
		return fmt.Errorf("iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("m.Up: %w", err)
	}

	version, dirty, err := m.Version()
	if err == nil {
		log.WithFields(log.Fields{"source": dir, "version": version, "dirty": dirty}).Debug("schema version")
	}

	return nil
}

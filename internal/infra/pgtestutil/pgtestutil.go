package pgtestutil

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"hash/fnv"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

const (
	// DSNEnv points the tests at an existing server instead of a container.
	DSNEnv        = "PG_TEST_DSN"
	migrationsDir = "cmd/migrator/migrations"
	image         = "postgres:16-alpine"
)

var (
	serverOnce sync.Once
	serverDSN  string
	serverErr  error
)

// baseDSN starts one PostgreSQL container per test binary and returns its
// admin DSN. The container is reaped by testcontainers when the binary exits.
func baseDSN() (string, error) {
	serverOnce.Do(func() {
		if dsn := os.Getenv(DSNEnv); dsn != "" {
			serverDSN = dsn
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		ctr, err := tcpostgres.Run(ctx,
			image,
			tcpostgres.WithDatabase("postgres"),
			tcpostgres.WithUsername("dicevault"),
			tcpostgres.WithPassword("dicevault"),
			tcpostgres.BasicWaitStrategies(),
			testcontainers.WithLabels(map[string]string{"test": "dicevault-repos"}),
		)
		if err != nil {
			serverErr = fmt.Errorf("start postgres container: %w", err)
			return
		}

		serverDSN, serverErr = ctr.ConnectionString(ctx, "sslmode=disable")
	})

	return serverDSN, serverErr
}

// NewTestDB creates a fresh, fully migrated database for t and returns it with
// a cleanup func that drops it. The test is skipped when neither Docker nor
// PG_TEST_DSN is available.
func NewTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	dsn, err := baseDSN()
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}

	adminDSN, err := ReplaceDBInDSN(dsn, "postgres")
	if err != nil {
		t.Fatalf("admin dsn: %v", err)
	}

	admin, err := sql.Open("pgx", adminDSN)
	if err != nil {
		t.Fatalf("open admin: %v", err)
	}

	dbName := sanitizeForPgIdent(uniqueDBName("testdb", t.Name()))

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	const maxAttempts = 5
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		_, err = admin.ExecContext(ctx,
			fmt.Sprintf(`CREATE DATABASE "%s" WITH TEMPLATE template0 ENCODING 'UTF8'`, dbName))
		if err == nil {
			break
		}
		if !isUniqueViolation(err) || attempt == maxAttempts {
			_ = admin.Close()
			t.Fatalf("create database: %v", err)
		}
		dbName = sanitizeForPgIdent(uniqueDBName("testdb", t.Name()))
	}

	testDSN, err := ReplaceDBInDSN(dsn, dbName)
	if err != nil {
		_ = admin.Close()
		t.Fatalf("test dsn: %v", err)
	}

	db, err := sql.Open("pgx", testDSN)
	if err != nil {
		_ = admin.Close()
		t.Fatalf("open test db: %v", err)
	}

	db.SetConnMaxIdleTime(100 * time.Millisecond)
	db.SetConnMaxLifetime(30 * time.Second)

	err = migrateUp(db)
	if err != nil {
		_ = db.Close()
		_ = admin.Close()
		t.Fatalf("migrate: %v", err)
	}

	cleanup := func() {
		_ = db.Close()

		dctx, dcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer dcancel()

		_, _ = admin.ExecContext(dctx,
			fmt.Sprintf(`DROP DATABASE IF EXISTS "%s" WITH (FORCE)`, dbName))
		_ = admin.Close()
	}

	return db, cleanup
}

func migrateUp(db *sql.DB) error {
	absPath, err := migrationsAbsPath()
	if err != nil {
		return fmt.Errorf("resolve migrations path: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("postgres driver: %w", err)
	}

	src, err := (&file.File{}).Open(absPath)
	if err != nil {
		return fmt.Errorf("open migrations dir: %w", err)
	}

	m, err := migrate.NewWithInstance("file", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}

	return nil
}

// ReplaceDBInDSN swaps the database name in a URL-form Postgres DSN.
func ReplaceDBInDSN(dsn, newDB string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse dsn: %w", err)
	}

	u.Path = "/" + newDB
	return u.String(), nil
}

func migrationsAbsPath() (string, error) {
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("runtime.Caller failed")
	}
	// internal/infra/pgtestutil -> repo root
	repoRoot := filepath.Join(filepath.Dir(thisFile), "..", "..", "..")

	abs, err := filepath.Abs(filepath.Join(repoRoot, migrationsDir))
	if err != nil {
		return "", fmt.Errorf("abs migrations path: %w", err)
	}
	return abs, nil
}

func uniqueDBName(prefix, testName string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(testName))
	var rnd [6]byte
	_, _ = rand.Read(rnd[:])
	return fmt.Sprintf("%s_%08x_%s", prefix, h.Sum32(), hex.EncodeToString(rnd[:]))
}

func sanitizeForPgIdent(s string) string {
	s = strings.ToLower(s)
	repl := strings.NewReplacer("/", "_", "\\", "_", " ", "_", ":", "_")
	s = repl.Replace(s)
	if len(s) <= 63 {
		return s
	}
	return s[:31] + "_" + s[len(s)-31:]
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

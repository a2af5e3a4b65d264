package admins

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/dicevault/internal/ledger"
	"github.com/fastprodman/dicevault/internal/repos/admins"
	"github.com/jackc/pgx/v5/pgconn"
)

var _ admins.Admins = (*adminsRepo)(nil)

type adminsRepo struct{ db *sql.DB }

func New(db *sql.DB) *adminsRepo {
	return &adminsRepo{db: db}
}

const selectAdmin = `
	SELECT address, identity, is_active, added_by, created_at
	FROM admins
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAdmin(row rowScanner) (*ledger.AdminRecord, error) {
	var rec ledger.AdminRecord

	err := row.Scan(&rec.Address, &rec.Identity, &rec.IsActive, &rec.AddedBy, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, admins.ErrAdminNotFound
		}

		return nil, fmt.Errorf("scan admin: %w", err)
	}

	return &rec, nil
}

func (r *adminsRepo) Insert(tx *sql.Tx, rec *ledger.AdminRecord) error {
	_, err := tx.Exec(`
		INSERT INTO admins (address, identity, is_active, added_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, rec.Address, rec.Identity, rec.IsActive, rec.AddedBy, rec.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return admins.ErrAdminExists
		}

		return fmt.Errorf("insert admin: %w", err)
	}

	return nil
}

func (r *adminsRepo) Get(ctx context.Context, address string) (*ledger.AdminRecord, error) {
	rec, err := scanAdmin(r.db.QueryRowContext(ctx, selectAdmin+`WHERE address = $1`, address))
	if err != nil {
		return nil, fmt.Errorf("get admin: %w", err)
	}

	return rec, nil
}

func (r *adminsRepo) Lock(tx *sql.Tx, address string) (*ledger.AdminRecord, error) {
	rec, err := scanAdmin(tx.QueryRow(selectAdmin+`WHERE address = $1 FOR UPDATE`, address))
	if err != nil {
		return nil, fmt.Errorf("lock admin: %w", err)
	}

	return rec, nil
}

func (r *adminsRepo) Deactivate(tx *sql.Tx, address string) error {
	res, err := tx.Exec(`
		UPDATE admins
		SET is_active = FALSE
		WHERE address = $1
	`, address)
	if err != nil {
		return fmt.Errorf("deactivate admin: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return admins.ErrAdminNotFound
	}

	return nil
}

func (r *adminsRepo) List(tx *sql.Tx) ([]ledger.AdminRecord, error) {
	rows, err := tx.Query(selectAdmin + `ORDER BY created_at, identity`)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()

	var out []ledger.AdminRecord

	for rows.Next() {
		rec, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, *rec)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate admins: %w", err)
	}

	return out, nil
}

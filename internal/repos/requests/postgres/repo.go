package requests

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/dicevault/internal/repos/requests"
	"github.com/jackc/pgx/v5/pgconn"
)

var _ requests.Requests = (*requestsRepo)(nil)

type requestsRepo struct{ db *sql.DB }

func New(db *sql.DB) *requestsRepo {
	return &requestsRepo{db: db}
}

const selectRequest = `
	SELECT id::text, player_identity, player_address, seed, status, submitted, attempts, created_at
	FROM randomness_requests
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*requests.Request, error) {
	var (
		req    requests.Request
		seed   []byte
		status string
	)

	err := row.Scan(&req.ID, &req.PlayerIdentity, &req.PlayerAddress, &seed, &status, &req.Submitted, &req.Attempts, &req.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, requests.ErrRequestNotFound
		}

		return nil, fmt.Errorf("scan request: %w", err)
	}

	copy(req.Seed[:], seed)
	req.Status = requests.Status(status)

	return &req, nil
}

func (r *requestsRepo) Insert(tx *sql.Tx, req requests.Request) error {
	_, err := tx.Exec(`
		INSERT INTO randomness_requests (id, player_identity, player_address, seed, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, req.ID, req.PlayerIdentity, req.PlayerAddress, req.Seed[:], string(requests.StatusPending), req.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return requests.ErrDuplicateRequest
			}
		}

		return fmt.Errorf("insert request: %w", err)
	}

	return nil
}

func (r *requestsRepo) Lock(tx *sql.Tx, id string) (*requests.Request, error) {
	req, err := scanRequest(tx.QueryRow(selectRequest+`WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, fmt.Errorf("lock request: %w", err)
	}

	return req, nil
}

// Settle moves a pending request to its final status.
func (r *requestsRepo) Settle(tx *sql.Tx, id string, status requests.Status, randomness []byte, now int64) error {
	res, err := tx.Exec(`
		UPDATE randomness_requests
		SET status = $2, randomness = $3, settled_at = $4
		WHERE id = $1
		  AND status = 'pending'
	`, id, string(status), randomness, now)
	if err != nil {
		return fmt.Errorf("settle request: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return requests.ErrRequestNotFound
	}

	return nil
}

// MarkSubmitted records one submission attempt; ok tells whether the oracle
// accepted it.
func (r *requestsRepo) MarkSubmitted(ctx context.Context, id string, ok bool) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE randomness_requests
		SET submitted = submitted OR $2, attempts = attempts + 1
		WHERE id = $1
	`, id, ok)
	if err != nil {
		return fmt.Errorf("mark submitted: %w", err)
	}

	return nil
}

func (r *requestsRepo) ListUnsubmitted(ctx context.Context, limit int) ([]requests.Request, error) {
	return r.list(ctx, selectRequest+`
		WHERE status = 'pending' AND NOT submitted
		ORDER BY created_at
		LIMIT $1
	`, limit)
}

func (r *requestsRepo) ListExpired(ctx context.Context, createdBefore int64, limit int) ([]requests.Request, error) {
	return r.list(ctx, selectRequest+`
		WHERE status = 'pending' AND created_at <= $1
		ORDER BY created_at
		LIMIT $2
	`, createdBefore, limit)
}

func (r *requestsRepo) list(ctx context.Context, query string, args ...any) ([]requests.Request, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	var out []requests.Request

	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, *req)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate requests: %w", err)
	}

	return out, nil
}

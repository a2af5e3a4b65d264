package platform

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/dicevault/internal/ledger"
	"github.com/fastprodman/dicevault/internal/repos/platform"
	"github.com/jackc/pgx/v5/pgconn"
)

var _ platform.Platform = (*platformRepo)(nil)

type platformRepo struct{ db *sql.DB }

func New(db *sql.DB) *platformRepo {
	return &platformRepo{db: db}
}

const selectStats = `
	SELECT primary_admin, admin_count, admin_records,
	       total_bets, total_volume, total_owed, total_profit, total_users,
	       max_bet_lamports, daily_withdraw_limit,
	       withdrawn_today, last_reset, daily_withdrawal_date, daily_withdrawal_amount
	FROM platform_stats
	WHERE id = 1
`

func scanStats(row *sql.Row) (*ledger.Stats, error) {
	var s ledger.Stats

	err := row.Scan(
		&s.PrimaryAdmin, &s.AdminCount, &s.AdminRecords,
		&s.TotalBets, &s.TotalVolume, &s.TotalOwed, &s.TotalProfit, &s.TotalUsers,
		&s.MaxBetLamports, &s.DailyWithdrawLimit,
		&s.WithdrawnToday, &s.LastReset, &s.DailyWithdrawal.Date, &s.DailyWithdrawal.Amount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, platform.ErrNotInitialized
		}

		return nil, fmt.Errorf("scan stats: %w", err)
	}

	return &s, nil
}

func (r *platformRepo) Insert(tx *sql.Tx, s *ledger.Stats) error {
	_, err := tx.Exec(`
		INSERT INTO platform_stats (
			id, address, primary_admin, admin_count, admin_records,
			max_bet_lamports, daily_withdraw_limit,
			last_reset, daily_withdrawal_date
		)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8)
	`,
		ledger.StatsAddress(), s.PrimaryAdmin, s.AdminCount, s.AdminRecords,
		s.MaxBetLamports, s.DailyWithdrawLimit,
		s.LastReset, s.DailyWithdrawal.Date,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return platform.ErrAlreadyInitialized
		}

		return fmt.Errorf("insert stats: %w", err)
	}

	return nil
}

func (r *platformRepo) Get(ctx context.Context) (*ledger.Stats, error) {
	s, err := scanStats(r.db.QueryRowContext(ctx, selectStats))
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}

	return s, nil
}

func (r *platformRepo) Lock(tx *sql.Tx) (*ledger.Stats, error) {
	s, err := scanStats(tx.QueryRow(selectStats + `FOR UPDATE`))
	if err != nil {
		return nil, fmt.Errorf("lock stats: %w", err)
	}

	return s, nil
}

func (r *platformRepo) Share(tx *sql.Tx) (*ledger.Stats, error) {
	s, err := scanStats(tx.QueryRow(selectStats + `FOR SHARE`))
	if err != nil {
		return nil, fmt.Errorf("share stats: %w", err)
	}

	return s, nil
}

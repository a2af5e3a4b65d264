package platform

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/dicevault/internal/ledger"
	"github.com/fastprodman/dicevault/internal/repos/platform"
	"github.com/jackc/pgx/v5/pgconn"
)

// Update writes every mutable field of the singleton. Callers hold the row
// lock taken by Lock.
func (r *platformRepo) Update(tx *sql.Tx, s *ledger.Stats) error {
	res, err := tx.Exec(`
		UPDATE platform_stats
		SET admin_count = $1,
		    admin_records = $2,
		    total_bets = $3,
		    total_volume = $4,
		    total_owed = $5,
		    total_profit = $6,
		    total_users = $7,
		    max_bet_lamports = $8,
		    daily_withdraw_limit = $9,
		    withdrawn_today = $10,
		    last_reset = $11,
		    daily_withdrawal_date = $12,
		    daily_withdrawal_amount = $13
		WHERE id = 1
	`,
		s.AdminCount, s.AdminRecords,
		s.TotalBets, s.TotalVolume, s.TotalOwed, s.TotalProfit, s.TotalUsers,
		s.MaxBetLamports, s.DailyWithdrawLimit,
		s.WithdrawnToday, s.LastReset, s.DailyWithdrawal.Date, s.DailyWithdrawal.Amount,
	)
	if err != nil {
		return fmt.Errorf("update stats: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return platform.ErrNotInitialized
	}

	return nil
}

func (r *platformRepo) IncrementUsers(tx *sql.Tx) error {
	res, err := tx.Exec(`
		UPDATE platform_stats
		SET total_users = total_users + 1
		WHERE id = 1
	`)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "22003" { // numeric_value_out_of_range
			return fmt.Errorf("increment users: %w", ledger.ErrOverflow)
		}

		return fmt.Errorf("increment users: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return platform.ErrNotInitialized
	}

	return nil
}

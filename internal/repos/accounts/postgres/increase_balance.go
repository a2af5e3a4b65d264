package accounts

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/dicevault/internal/ledger"
	"github.com/fastprodman/dicevault/internal/repos/accounts"
	"github.com/jackc/pgx/v5/pgconn"
)

func (r *accountsRepo) IncreaseBalance(tx *sql.Tx, address string, amount int64) error {
	res, err := tx.Exec(`
		UPDATE accounts
		SET balance = balance + $2
		WHERE address = $1
	`, address, amount)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "22003" { // numeric_value_out_of_range
			return fmt.Errorf("increase balance: %w", ledger.ErrOverflow)
		}

		return fmt.Errorf("increase balance: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return accounts.ErrAccountNotFound
	}

	return nil
}

package accounts

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/dicevault/internal/repos/accounts"
)

func (r *accountsRepo) DecreaseBalance(tx *sql.Tx, address string, amount int64) error {
	res, err := tx.Exec(`
		UPDATE accounts
		SET balance = balance - $2
		WHERE address = $1
		  AND balance >= $2
	`, address, amount)
	if err != nil {
		return fmt.Errorf("decrease balance: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return accounts.ErrInsufficientFunds
	}

	return nil
}

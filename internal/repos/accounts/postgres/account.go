package accounts

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/dicevault/internal/repos/accounts"
)

// Ensure creates a zero-balance account at address unless one exists.
func (r *accountsRepo) Ensure(tx *sql.Tx, address, owner string) error {
	_, err := tx.Exec(`
		INSERT INTO accounts (address, owner, balance)
		VALUES ($1, $2, 0)
		ON CONFLICT (address) DO NOTHING
	`, address, owner)
	if err != nil {
		return fmt.Errorf("ensure account: %w", err)
	}

	return nil
}

func (r *accountsRepo) Exists(tx *sql.Tx, address string) error {
	var exists bool

	err := tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM accounts WHERE address = $1)
	`, address).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}

	if !exists {
		return accounts.ErrAccountNotFound
	}

	return nil
}

package accounts

import (
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/fastprodman/dicevault/internal/repos/accounts"
)

func (r *accountsRepo) LockAndGetBalance(tx *sql.Tx, address string) (int64, error) {
	var balance int64

	err := tx.QueryRow(`
		SELECT balance
		FROM accounts
		WHERE address = $1
		FOR UPDATE
	`, address).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, accounts.ErrAccountNotFound
		}

		return 0, fmt.Errorf("lock/get balance: %w", err)
	}

	return balance, nil
}

// LockMany locks every listed account in ascending address order, so two
// transactions moving funds between the same pair never deadlock.
func (r *accountsRepo) LockMany(tx *sql.Tx, addresses ...string) (map[string]int64, error) {
	sorted := slices.Clone(addresses)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	balances := make(map[string]int64, len(sorted))

	for _, addr := range sorted {
		bal, err := r.LockAndGetBalance(tx, addr)
		if err != nil {
			return nil, fmt.Errorf("lock %s: %w", addr, err)
		}

		balances[addr] = bal
	}

	return balances, nil
}

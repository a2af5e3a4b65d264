package accounts

import (
	"context"
	"database/sql"

	"github.com/fastprodman/dicevault/internal/ledger"
)

var (
	ErrInsufficientFunds = ledger.ErrInsufficientFunds
	ErrAccountNotFound   = ledger.ErrAccountNotFound
)

// Accounts stores spendable balances, the treasury vault included.
type Accounts interface {
	Ensure(tx *sql.Tx, address, owner string) error
	Exists(tx *sql.Tx, address string) error
	GetBalance(ctx context.Context, address string) (int64, error)
	LockAndGetBalance(tx *sql.Tx, address string) (int64, error)
	LockMany(tx *sql.Tx, addresses ...string) (map[string]int64, error)
	IncreaseBalance(tx *sql.Tx, address string, amount int64) error
	DecreaseBalance(tx *sql.Tx, address string, amount int64) error
}

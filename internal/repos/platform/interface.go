package platform

import (
	"context"
	"database/sql"

	"github.com/fastprodman/dicevault/internal/ledger"
)

var (
	ErrAlreadyInitialized = ledger.ErrAlreadyInitialized
	ErrNotInitialized     = ledger.ErrPlatformNotReady
)

// Platform stores the Platform Stats singleton.
type Platform interface {
	Insert(tx *sql.Tx, stats *ledger.Stats) error
	Get(ctx context.Context) (*ledger.Stats, error)
	Lock(tx *sql.Tx) (*ledger.Stats, error)
	// Share reads the singleton under a shared lock: concurrent readers
	// proceed, writers wait.
	Share(tx *sql.Tx) (*ledger.Stats, error)
	Update(tx *sql.Tx, stats *ledger.Stats) error
	IncrementUsers(tx *sql.Tx) error
}

package admins

import (
	"context"
	"database/sql"

	"github.com/fastprodman/dicevault/internal/ledger"
)

var (
	ErrAdminNotFound = ledger.ErrAdminNotFound
	ErrAdminExists   = ledger.ErrAdminExists
)

// Admins stores Admin Registry records. Records are never deleted.
type Admins interface {
	Insert(tx *sql.Tx, rec *ledger.AdminRecord) error
	Get(ctx context.Context, address string) (*ledger.AdminRecord, error)
	Lock(tx *sql.Tx, address string) (*ledger.AdminRecord, error)
	Deactivate(tx *sql.Tx, address string) error
	List(tx *sql.Tx) ([]ledger.AdminRecord, error)
}

package players

import (
	"context"
	"database/sql"

	"github.com/fastprodman/dicevault/internal/ledger"
)

var ErrPlayerNotFound = ledger.ErrPlayerNotFound

type Players interface {
	// Insert stores p unless a player already lives at p.Address and reports
	// whether a row was created.
	Insert(tx *sql.Tx, p *ledger.Player) (bool, error)
	Get(ctx context.Context, identity string) (*ledger.Player, error)
	Lock(tx *sql.Tx, address string) (*ledger.Player, error)
	Update(tx *sql.Tx, p *ledger.Player) error
}

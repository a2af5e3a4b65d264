package players

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/dicevault/internal/ledger"
)

func (r *playersRepo) Get(ctx context.Context, identity string) (*ledger.Player, error) {
	p, err := scanPlayer(r.db.QueryRowContext(ctx, selectPlayer+`WHERE address = $1`, ledger.PlayerAddress(identity)))
	if err != nil {
		return nil, fmt.Errorf("get player: %w", err)
	}

	return p, nil
}

func (r *playersRepo) Lock(tx *sql.Tx, address string) (*ledger.Player, error) {
	p, err := scanPlayer(tx.QueryRow(selectPlayer+`WHERE address = $1 FOR UPDATE`, address))
	if err != nil {
		return nil, fmt.Errorf("lock player: %w", err)
	}

	return p, nil
}

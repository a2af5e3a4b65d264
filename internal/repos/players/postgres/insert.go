package players

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/dicevault/internal/ledger"
)

func (r *playersRepo) Insert(tx *sql.Tx, p *ledger.Player) (bool, error) {
	res, err := tx.Exec(`
		INSERT INTO players (address, identity, state)
		VALUES ($1, $2, $3)
		ON CONFLICT (address) DO NOTHING
	`, p.Address, p.Identity, string(p.State))
	if err != nil {
		return false, fmt.Errorf("insert player: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	return affected == 1, nil
}

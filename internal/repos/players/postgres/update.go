package players

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/dicevault/internal/ledger"
	"github.com/fastprodman/dicevault/internal/repos/players"
)

func (r *playersRepo) Update(tx *sql.Tx, p *ledger.Player) error {
	res, err := tx.Exec(`
		UPDATE players
		SET state = $2,
		    current_bet = $3,
		    last_bet_amount = $4,
		    request_id = $5,
		    requested_at = $6,
		    last_result = $7,
		    pending_withdrawal = $8,
		    wins = $9,
		    losses = $10,
		    total_games = $11
		WHERE address = $1
	`,
		p.Address, string(p.State), p.CurrentBet, p.LastBetAmount,
		nullableID(p.RequestID), p.RequestedAt, p.LastResult,
		p.PendingWithdrawal, p.Wins, p.Losses, p.TotalGames,
	)
	if err != nil {
		return fmt.Errorf("update player: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return players.ErrPlayerNotFound
	}

	return nil
}

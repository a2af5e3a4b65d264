package players

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/dicevault/internal/ledger"
	"github.com/fastprodman/dicevault/internal/repos/players"
)

var _ players.Players = (*playersRepo)(nil)

type playersRepo struct{ db *sql.DB }

func New(db *sql.DB) *playersRepo {
	return &playersRepo{db: db}
}

const selectPlayer = `
	SELECT address, identity, state, current_bet, last_bet_amount,
	       COALESCE(request_id::text, ''), requested_at, last_result,
	       pending_withdrawal, wins, losses, total_games
	FROM players
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*ledger.Player, error) {
	var (
		p     ledger.Player
		state string
	)

	err := row.Scan(
		&p.Address, &p.Identity, &state, &p.CurrentBet, &p.LastBetAmount,
		&p.RequestID, &p.RequestedAt, &p.LastResult,
		&p.PendingWithdrawal, &p.Wins, &p.Losses, &p.TotalGames,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, players.ErrPlayerNotFound
		}

		return nil, fmt.Errorf("scan player: %w", err)
	}

	p.State = ledger.WagerState(state)

	return &p, nil
}

// nullableID maps the empty request id to NULL.
func nullableID(id string) sql.NullString {
	return sql.NullString{String: id, Valid: id != ""}
}
